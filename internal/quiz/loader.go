package quiz

import (
	"context"

	"triviaclash/internal/opentdb"
)

// Loader retrieves and normalizes a question list for the given settings.
// Implementations must be side-effect free; superseded results are discarded
// by the session's generation check, not by the loader.
type Loader interface {
	Load(ctx context.Context, settings Settings) ([]Question, error)
}

// SourceLoader loads questions from Open Trivia DB
type SourceLoader struct {
	client *opentdb.Client
}

// NewSourceLoader creates a loader backed by the given source client
func NewSourceLoader(client *opentdb.Client) *SourceLoader {
	return &SourceLoader{client: client}
}

// Load fetches one batch of questions and normalizes them
func (l *SourceLoader) Load(ctx context.Context, settings Settings) ([]Question, error) {
	raw, err := l.client.Fetch(ctx, opentdb.Request{
		Amount:     settings.Amount,
		Category:   settings.Category,
		Difficulty: settings.Difficulty,
	})
	if err != nil {
		return nil, err
	}
	return BuildQuestions(raw), nil
}

package quiz

import (
	"fmt"
	"html"
	"math/rand"

	"triviaclash/internal/opentdb"
)

// Difficulty levels recognized by the trivia source
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Settings are the committed parameters for one quiz run. Immutable once a
// run starts; changing them means returning to setup.
type Settings struct {
	Difficulty string `json:"difficulty"`
	Category   int    `json:"category"`
	Amount     int    `json:"amount"`
}

// Validate checks settings against what the source accepts. Amount 0 is
// allowed and produces an immediately-finished run.
func (s Settings) Validate() error {
	switch s.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("invalid difficulty %q", s.Difficulty)
	}
	if s.Category <= 0 {
		return fmt.Errorf("invalid category %d", s.Category)
	}
	if s.Amount < 0 || s.Amount > opentdb.MaxAmount {
		return fmt.Errorf("amount must be between 0 and %d, got %d", opentdb.MaxAmount, s.Amount)
	}
	return nil
}

// Question is one normalized multiple-choice question. Answers contains the
// correct answer exactly once, at a shuffled position.
type Question struct {
	ID            string   `json:"id"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	Text          string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	Answers       []string `json:"answers"`
}

// BuildQuestions normalizes raw source items: HTML entities are decoded in
// the question text and every answer, and the answer set is shuffled so the
// correct answer's position is not predictable from source order.
func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for idx, item := range raw {
		correct := html.UnescapeString(item.CorrectAnswer)

		answers := make([]string, 0, len(item.IncorrectAnswers)+1)
		answers = append(answers, correct)
		for _, incorrect := range item.IncorrectAnswers {
			answers = append(answers, html.UnescapeString(incorrect))
		}
		shuffleAnswers(answers)

		questions = append(questions, Question{
			// Derived ID, unique within one fetched list only.
			ID:            fmt.Sprintf("%d-%s", idx, correct),
			Category:      html.UnescapeString(item.Category),
			Difficulty:    item.Difficulty,
			Text:          html.UnescapeString(item.Question),
			CorrectAnswer: correct,
			Answers:       answers,
		})
	}
	return questions
}

// shuffleAnswers applies a Fisher-Yates shuffle in place
func shuffleAnswers(answers []string) {
	for i := len(answers) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		answers[i], answers[j] = answers[j], answers[i]
	}
}

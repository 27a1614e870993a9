package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	// DefaultBaseURL is the public Open Trivia DB endpoint
	DefaultBaseURL = "https://opentdb.com/api.php"

	// MaxAmount is the most questions the source serves per request
	MaxAmount = 50
)

// RawQuestion mirrors the OpenTriviaDB question payload.
type RawQuestion struct {
	Type             string   `json:"type"`
	Difficulty       string   `json:"difficulty"`
	Category         string   `json:"category"`
	Question         string   `json:"question"`
	CorrectAnswer    string   `json:"correct_answer"`
	IncorrectAnswers []string `json:"incorrect_answers"`
}

type apiResponse struct {
	ResponseCode int           `json:"response_code"`
	Results      []RawQuestion `json:"results"`
}

// TransportError is a non-2xx HTTP result from the source
type TransportError struct {
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("opentdb returned status %d", e.Status)
}

// SourceError is a semantically-unsuccessful payload: the source answered
// but reported a non-zero response_code (e.g. not enough questions for the
// requested bucket).
type SourceError struct {
	Code int
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("opentdb response_code=%d", e.Code)
}

// Request describes one question fetch
type Request struct {
	Amount     int
	Category   int
	Difficulty string
}

// Client fetches multiple-choice questions from Open Trivia DB
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client; httpClient may be nil to use http.DefaultClient
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{httpClient: httpClient, baseURL: baseURL}
}

// Fetch issues one GET for the requested bucket and returns the raw results.
// The amount must be in [1, MaxAmount].
func (c *Client) Fetch(ctx context.Context, req Request) ([]RawQuestion, error) {
	if req.Amount < 1 || req.Amount > MaxAmount {
		return nil, fmt.Errorf("amount must be between 1 and %d, got %d", MaxAmount, req.Amount)
	}

	params := url.Values{}
	params.Set("amount", strconv.Itoa(req.Amount))
	params.Set("type", "multiple")
	if req.Category > 0 {
		params.Set("category", strconv.Itoa(req.Category))
	}
	if req.Difficulty != "" {
		params.Set("difficulty", req.Difficulty)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding opentdb response: %w", err)
	}

	if payload.ResponseCode != 0 {
		return nil, &SourceError{Code: payload.ResponseCode}
	}

	return payload.Results, nil
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"lecture-quiz/internal/domain"
)

// Client talks to a quiz server. It implements session.SubmissionTransport.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient
// uses a client with a 15 second timeout.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// Submit posts the answers. Network errors, non-2xx replies and
// undecodable bodies yield the failure variant with an error; a reply
// with success false yields it with ErrSubmissionRejected.
func (c *Client) Submit(ctx context.Context, quizID string, submission domain.Submission) (domain.Result, error) {
	body, err := json.Marshal(submission)
	if err != nil {
		return domain.Failed(), fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/quiz/"+url.PathEscape(quizID)+"/submit", bytes.NewReader(body))
	if err != nil {
		return domain.Failed(), err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Failed(), err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Failed(), fmt.Errorf("submit quiz %s: unexpected status %d", quizID, resp.StatusCode)
	}
	var result domain.Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return domain.Failed(), fmt.Errorf("decode result: %w", err)
	}
	if !result.Success {
		return domain.Failed(), domain.ErrSubmissionRejected
	}
	return result, nil
}

// FetchQuiz downloads the client view of a quiz.
func (c *Client) FetchQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/quiz/"+url.PathEscape(quizID), nil)
	if err != nil {
		return domain.Quiz{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Quiz{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrQuizNotFound, quizID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.Quiz{}, fmt.Errorf("fetch quiz %s: unexpected status %d", quizID, resp.StatusCode)
	}
	var quiz domain.Quiz
	if err := json.NewDecoder(resp.Body).Decode(&quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("decode quiz: %w", err)
	}
	return quiz, nil
}

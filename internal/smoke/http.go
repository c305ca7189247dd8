package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gradebook/pkg/logger"
)

// Client talks to one gradebook service.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a client with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StatusError is a non-2xx answer from the service.
type StatusError struct {
	Status int
	Code   string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("status %d: %s: %s", e.Status, e.Code, e.Body)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// do sends a request and returns the body of a 2xx answer.
func (c *Client) do(ctx context.Context, method, path, contentType string, body []byte) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Status: resp.StatusCode, Body: string(data)}
		var ae apiError
		if json.Unmarshal(data, &ae) == nil && ae.Code != "" {
			se.Code, se.Body = ae.Code, ae.Message
		}
		return nil, nil, se
	}
	return data, resp.Header, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		var err error
		if body, err = json.Marshal(in); err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		contentType = "application/json"
	}
	data, _, err := c.do(ctx, method, path, contentType, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// Health checks /healthz.
func (c *Client) Health(ctx context.Context) error {
	_, _, err := c.do(ctx, http.MethodGet, "/healthz", "", nil)
	return err
}

// CreateSession opens a session and returns its id.
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	var v struct {
		ID string `json:"id"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/sessions", nil, &v); err != nil {
		return "", err
	}
	return v.ID, nil
}

// DeleteSession discards a session.
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	_, _, err := c.do(ctx, http.MethodDelete, "/sessions/"+id, "", nil)
	return err
}

// ImportResult mirrors the service answer to a CSV upload.
type ImportResult struct {
	Kind    string `json:"kind"`
	Records int    `json:"records"`
	Summary string `json:"summary"`
}

// Import uploads CSV text to the roster or rubric route.
func (c *Client) Import(ctx context.Context, id, target, text string) (ImportResult, error) {
	var res ImportResult
	data, _, err := c.do(ctx, http.MethodPut, "/sessions/"+id+"/"+target, "text/csv; charset=utf-8", []byte(text))
	if err != nil {
		return res, err
	}
	return res, json.Unmarshal(data, &res)
}

// SelectRubric sets the rubric choice.
func (c *Client) SelectRubric(ctx context.Context, id, choice string) error {
	return c.doJSON(ctx, http.MethodPut, "/sessions/"+id+"/rubric/choice", map[string]string{"choice": choice}, nil)
}

// RecordScore submits one score.
func (c *Client) RecordScore(ctx context.Context, id string, e ScoreEntry) error {
	return c.doJSON(ctx, http.MethodPut, "/sessions/"+id+"/scores", e, nil)
}

// Export downloads the evaluation file and its announced name.
func (c *Client) Export(ctx context.Context, id string) ([]byte, string, error) {
	data, header, err := c.do(ctx, http.MethodGet, "/sessions/"+id+"/export", "", nil)
	if err != nil {
		return nil, "", err
	}
	name := ""
	if cd := header.Get("Content-Disposition"); cd != "" {
		if _, after, ok := strings.Cut(cd, "filename="); ok {
			name = strings.Trim(after, `"`)
		}
	}
	return data, name, nil
}

// submitScores sends every score of the plan using a pool of workers.
func submitScores(ctx context.Context, config *Config, client *Client, id string, scores []ScoreEntry, stats *Stats) {
	workers := max(config.Workers, 1)
	logger.Get().Info(ctx, "submitting scores",
		logger.Int("scores", len(scores)),
		logger.Int("workers", workers))

	var submitted, successful, failed int64

	entries := make(chan ScoreEntry, workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for e := range entries {
				atomic.AddInt64(&submitted, 1)
				if err := client.RecordScore(ctx, id, e); err != nil {
					atomic.AddInt64(&failed, 1)
					logger.Get().Warn(ctx, "score submission failed",
						logger.String("student", e.Student),
						logger.String("competency", e.Competency),
						logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)
				logger.Get().Debug(ctx, "score recorded",
					logger.String("student", e.Student),
					logger.String("competency", e.Competency),
					logger.Int("score", e.Score))
			}
		}()
	}

	go func() {
		defer close(entries)
		for _, e := range scores {
			select {
			case <-ctx.Done():
				return
			case entries <- e:
			}
		}
	}()
	wg.Wait()

	stats.ScoresSubmitted = int(atomic.LoadInt64(&submitted))
	stats.ScoresSuccessful = int(atomic.LoadInt64(&successful))
	stats.ScoresFailed = int(atomic.LoadInt64(&failed))
}

// Package report delivers the job's result record to the caller-supplied
// callback endpoint, retrying with bounded exponential backoff. Delivery is
// best-effort: the outcome is a boolean, never an error, because the
// repository and published site already exist whether or not the callback
// can be reached.
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/jonathan/deploy-agent/internal/types"
)

const (
	// MaxAttempts caps delivery attempts per callback.
	MaxAttempts = 5

	// InitialDelay is the wait after the first failed attempt; it doubles
	// after each subsequent failure (1s, 2s, 4s, 8s).
	InitialDelay = 1 * time.Second

	// RequestTimeout bounds each delivery POST.
	RequestTimeout = 30 * time.Second

	// maxResponseBytes bounds how much of the callback response is read
	// when logging a failed attempt.
	maxResponseBytes = 4 << 10
)

// Reporter posts result records to callback endpoints.
type Reporter struct {
	client       *http.Client
	maxAttempts  int
	initialDelay time.Duration
	sleep        func(time.Duration)
}

// NewReporter creates a reporter with the default retry policy.
func NewReporter() *Reporter {
	return &Reporter{
		client:       &http.Client{Timeout: RequestTimeout},
		maxAttempts:  MaxAttempts,
		initialDelay: InitialDelay,
		sleep:        time.Sleep,
	}
}

// Report delivers the record to callbackURL, retrying on any outcome other
// than HTTP 200. Returns whether delivery was confirmed. Exhausting all
// attempts is logged and surfaced as false, never escalated.
func (r *Reporter) Report(ctx context.Context, callbackURL string, record *types.ResultRecord) bool {
	payload, err := json.Marshal(record)
	if err != nil {
		// A result record is plain strings and ints; this indicates a bug.
		log.Printf("[%s] Error: failed to encode result record: %v", record.Task, err)
		return false
	}

	delay := r.initialDelay
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		log.Printf("[%s] Submitting result (attempt %d/%d)", record.Task, attempt, r.maxAttempts)

		if r.deliver(ctx, callbackURL, payload, record.Task) {
			log.Printf("[%s] Result delivered", record.Task)
			return true
		}

		if attempt < r.maxAttempts {
			log.Printf("[%s] Retrying in %s...", record.Task, delay)
			r.sleep(delay)
			delay *= 2
		}
	}

	log.Printf("[%s] Error: failed to deliver result after %d attempts", record.Task, r.maxAttempts)
	return false
}

// deliver makes one POST attempt. Anything other than HTTP 200 counts as a
// failure, matching what the callback endpoints accept.
func (r *Reporter) deliver(ctx context.Context, callbackURL string, payload []byte, task string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[%s] Warning: failed to create callback request: %v", task, err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("[%s] Warning: callback request failed: %v", task, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		log.Printf("[%s] Warning: callback returned %d: %s", task, resp.StatusCode, string(body))
		return false
	}

	return true
}

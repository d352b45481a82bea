package publish

import (
	"context"
	"log"
	"net/http"
	"time"
)

const (
	// DefaultPollInterval is the fixed spacing between probes. Publication
	// latency is provider-controlled, not load-sensitive, so there is no
	// backoff here.
	DefaultPollInterval = 5 * time.Second

	// ProbeTimeout bounds each individual probe request.
	ProbeTimeout = 10 * time.Second

	// DefaultMaxWait is how long to wait for the site overall.
	DefaultMaxWait = 120 * time.Second

	// stillWaitingEvery spaces out the progress log lines.
	stillWaitingEvery = 15 * time.Second
)

// Poller probes a published URL until it responds or a deadline passes.
type Poller struct {
	client   *http.Client
	interval time.Duration
}

// NewPoller creates a poller with the default probe spacing.
func NewPoller() *Poller {
	return &Poller{
		client:   &http.Client{Timeout: ProbeTimeout},
		interval: DefaultPollInterval,
	}
}

// AwaitReady probes url on a fixed interval until it returns HTTP 200 or
// maxWait elapses. The result is informational only: false means the site
// was not confirmed live in time, which is normal for slow Pages builds and
// never fails the job.
func (p *Poller) AwaitReady(ctx context.Context, url string, maxWait time.Duration) bool {
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}

	log.Printf("Waiting for published site at %s (up to %s)", url, maxWait)

	deadline := time.Now().Add(maxWait)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	lastProgress := time.Now()
	for {
		if p.probe(ctx, url) {
			log.Printf("Published site is live at %s", url)
			return true
		}

		if time.Since(lastProgress) >= stillWaitingEvery {
			log.Printf("Still waiting for %s...", url)
			lastProgress = time.Now()
		}

		if !time.Now().Add(p.interval).Before(deadline) {
			log.Printf("Warning: site not reachable after %s; Pages builds can take a few minutes: %s", maxWait, url)
			return false
		}

		select {
		case <-ctx.Done():
			log.Printf("Warning: readiness wait canceled for %s", url)
			return false
		case <-ticker.C:
		}
	}
}

// probe issues one GET and reports whether it returned HTTP 200. Transport
// errors are expected while the site is still building and are swallowed.
func (p *Poller) probe(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

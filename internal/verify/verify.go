// Package verify checks that generated download links resolve on the
// remote. Links are checked by a bounded pool of workers; transient
// failures are retried with exponential backoff.
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/repokit/repokit/internal/links"
)

// Result is the outcome of checking one link.
type Result struct {
	Link       links.Link
	StatusCode int   // final status after redirects, 0 if no response
	Err        error // transport failure, nil if a response arrived
	Attempts   int
}

// OK reports whether the link answered with a 2xx status.
func (r Result) OK() bool {
	return r.Err == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Problem describes why the link is unreachable, or "" if it is fine.
func (r Result) Problem() string {
	switch {
	case r.OK():
		return ""
	case r.Err != nil:
		return r.Err.Error()
	default:
		return fmt.Sprintf("HTTP %d %s", r.StatusCode, http.StatusText(r.StatusCode))
	}
}

// Verifier checks links over HTTP.
type Verifier struct {
	opts   Options
	client *http.Client
}

// New creates a Verifier. Zero-valued fields in opts fall back to the defaults.
func New(opts Options) *Verifier {
	def := DefaultOptions()
	if opts.Concurrency <= 0 {
		opts.Concurrency = def.Concurrency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = def.MaxRedirects
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = def.RetryDelay
	}
	if opts.UserAgent == "" {
		opts.UserAgent = def.UserAgent
	}
	return &Verifier{opts: opts, client: newHTTPClient(opts)}
}

func newHTTPClient(opts Options) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.Concurrency,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   opts.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: opts.Timeout,
	}

	return &http.Client{
		Timeout:   opts.Timeout,
		Transport: transport,
		// Raw links on hosted remotes redirect to a content host.
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) > opts.MaxRedirects {
				return fmt.Errorf("stopped after %d redirects", opts.MaxRedirects)
			}
			return nil
		},
	}
}

// Verify checks every link and returns the results in input order.
// Links not reached before ctx is done carry ctx's error.
func (v *Verifier) Verify(ctx context.Context, list []links.Link) []Result {
	results := make([]Result, len(list))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(v.opts.Concurrency, len(list)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = v.checkWithRetry(ctx, list[i])
			}
		}()
	}

	next := 0
send:
	for ; next < len(list); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break send
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(list); i++ {
		results[i] = Result{Link: list[i], Err: ctx.Err()}
	}
	return results
}

func (v *Verifier) checkWithRetry(ctx context.Context, l links.Link) Result {
	var res Result
	for attempt := 0; attempt <= v.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(v.backoff(attempt)):
			case <-ctx.Done():
				res.Err = ctx.Err()
				return res
			}
		}

		res = v.checkOnce(ctx, l)
		res.Attempts = attempt + 1
		if res.OK() || !retryable(res) || ctx.Err() != nil {
			return res
		}
	}
	return res
}

// backoff doubles RetryDelay per attempt, capped at 30s, plus up to 25% jitter.
func (v *Verifier) backoff(attempt int) time.Duration {
	d := v.opts.RetryDelay << (attempt - 1)
	if d <= 0 || d > 30*time.Second {
		d = 30 * time.Second
	}
	if j := int64(d / 4); j > 0 {
		if n, err := rand.Int(rand.Reader, big.NewInt(j)); err == nil {
			d += time.Duration(n.Int64())
		}
	}
	return d
}

func retryable(r Result) bool {
	if r.Err != nil {
		return !errors.Is(r.Err, context.Canceled)
	}
	return r.StatusCode >= 500 || r.StatusCode == http.StatusTooManyRequests
}

// checkOnce sends HEAD, falling back to GET for servers that refuse it.
func (v *Verifier) checkOnce(ctx context.Context, l links.Link) Result {
	res := Result{Link: l}

	status, err := v.do(ctx, http.MethodHead, l.URL)
	if err == nil && (status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
		status, err = v.do(ctx, http.MethodGet, l.URL)
	}
	res.StatusCode, res.Err = status, err
	return res
}

func (v *Verifier) do(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, http.NoBody)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", v.opts.UserAgent)
	req.Header.Set("Accept", "*/*")

	resp, err := v.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if method == http.MethodGet {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	}
	return resp.StatusCode, nil
}

// Failed returns the results whose link is unreachable.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK() {
			out = append(out, r)
		}
	}
	return out
}

// Package fetch retrieves article pages and reduces them to plain text
// source documents.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/knowtree/internal/httputil"
	"github.com/pdiddy/knowtree/pkg/types"
)

// maxBodyBytes caps how much of a page body is read (2 MiB).
const maxBodyBytes = 2 << 20

// defaultTimeout applies when the config carries no fetch timeout.
const defaultTimeout = 10 * time.Second

// Fetcher downloads pages and extracts their text. Failures of any kind
// surface as empty content, never as errors; operators see them in the
// log.
type Fetcher struct {
	cfg    types.FetchConfig
	client *http.Client
	logger *zap.Logger
}

// NewFetcher builds a Fetcher from config. A nil logger disables logging.
func NewFetcher(cfg types.FetchConfig, logger *zap.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = httputil.BrowserUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Fetcher{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Fetch GETs url and returns the page's extracted text. Any failure
// (request error, timeout, non-2xx status, unreadable body) returns the
// empty string.
func (f *Fetcher) Fetch(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		f.logger.Warn("building fetch request", zap.String("url", url), zap.Error(err))
		return ""
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("fetching article", zap.String("url", url), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Warn("fetching article", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		f.logger.Warn("reading article body", zap.String("url", url), zap.Error(err))
		return ""
	}

	return ExtractText(string(body))
}

// BatchResult holds the outcome of a batch fetch run.
type BatchResult struct {
	Fetched int
	Skipped int
}

// Total returns the number of search results processed.
func (r BatchResult) Total() int {
	return r.Fetched + r.Skipped
}

// FetchAll retrieves the page behind every search result and returns the
// documents that produced text, in input order. Results whose fetch
// failed or whose page had no extractable text are skipped silently.
// Per-item status lines go to w.
//
// cfg.Workers bounds concurrent fetches. At 1 the fetches run
// sequentially with cfg.Delay between consecutive successes.
func (f *Fetcher) FetchAll(ctx context.Context, results []types.SearchResult, w io.Writer) ([]types.SourceDocument, BatchResult) {
	texts := make([]string, len(results))

	if f.cfg.Workers <= 1 {
		f.fetchSequential(ctx, results, texts, w)
	} else {
		f.fetchConcurrent(ctx, results, texts, w)
	}

	docs := make([]types.SourceDocument, 0, len(results))
	var result BatchResult
	for i, r := range results {
		if texts[i] == "" {
			result.Skipped++
			continue
		}
		result.Fetched++
		docs = append(docs, types.SourceDocument{
			Title:   r.Title,
			Content: texts[i],
			URL:     r.URL,
		})
	}

	fmt.Fprintf(w, "\nFetch summary: %d fetched, %d skipped (total: %d)\n",
		result.Fetched, result.Skipped, result.Total())
	return docs, result
}

func (f *Fetcher) fetchSequential(ctx context.Context, results []types.SearchResult, texts []string, w io.Writer) {
	for i, r := range results {
		texts[i] = f.Fetch(ctx, r.URL)
		if texts[i] == "" {
			fmt.Fprintf(w, "skipped: %s (no content)\n", r.URL)
			continue
		}
		fmt.Fprintf(w, "fetched: %s (%d chars)\n", r.URL, len(texts[i]))

		if f.cfg.Delay > 0 && i < len(results)-1 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(f.cfg.Delay):
			}
		}
	}
}

func (f *Fetcher) fetchConcurrent(ctx context.Context, results []types.SearchResult, texts []string, w io.Writer) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(f.cfg.Workers)

	var mu sync.Mutex
	for i, r := range results {
		eg.Go(func() error {
			texts[i] = f.Fetch(egCtx, r.URL)

			mu.Lock()
			defer mu.Unlock()
			if texts[i] == "" {
				fmt.Fprintf(w, "skipped: %s (no content)\n", r.URL)
			} else {
				fmt.Fprintf(w, "fetched: %s (%d chars)\n", r.URL, len(texts[i]))
			}
			return nil
		})
	}
	eg.Wait()
}

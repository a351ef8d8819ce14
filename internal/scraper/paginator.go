// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scraper walks the historias collection page by page.
//
// The Paginator issues one request per page with a fixed limit and an
// offset that grows by the batch size, accumulating records until the
// server returns an empty page, a request fails, or the requested maximum
// is reached. A failed request is reported once and treated as the end of
// the data; it is never retried. Records accumulated before the stop are
// always returned.
package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	rlog "github.com/sirseerhq/rni-relay/internal/log"
	"github.com/sirseerhq/rni-relay/internal/rni"
	"github.com/sirseerhq/rni-relay/internal/stats"
)

// DefaultDelay is the pause between successful pages.
const DefaultDelay = time.Second

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Paginator drives a rni.Client across the whole collection.
type Paginator struct {
	client  rni.Client
	out     io.Writer
	logger  *slog.Logger
	tracker *stats.Tracker
	delay   time.Duration
	sleep   SleepFunc
}

// Option configures a Paginator.
type Option func(*Paginator)

// WithOutput sets where progress lines are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(p *Paginator) {
		p.out = w
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Paginator) {
		p.logger = logger
	}
}

// WithTracker sets the tracker that receives request and page counts.
func WithTracker(t *stats.Tracker) Option {
	return func(p *Paginator) {
		p.tracker = t
	}
}

// WithDelay sets the pause between successful pages.
func WithDelay(d time.Duration) Option {
	return func(p *Paginator) {
		p.delay = d
	}
}

// WithSleep replaces the function used to pause between pages.
func WithSleep(fn SleepFunc) Option {
	return func(p *Paginator) {
		p.sleep = fn
	}
}

// New creates a Paginator over client.
func New(client rni.Client, opts ...Option) *Paginator {
	p := &Paginator{
		client:  client,
		out:     os.Stderr,
		logger:  rlog.Discard(),
		tracker: stats.New(),
		delay:   DefaultDelay,
		sleep:   contextSleep,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Tracker returns the tracker the paginator reports to.
func (p *Paginator) Tracker() *stats.Tracker {
	return p.tracker
}

// ScrapeAll fetches pages of batchSize records starting at offset 0 and
// returns every record in arrival order. A positive maxRecords caps the
// result to exactly that many records; zero means no cap. The returned
// slice is never nil.
//
// Cancelling ctx stops the walk at the next page boundary and returns what
// was accumulated.
func (p *Paginator) ScrapeAll(ctx context.Context, batchSize, maxRecords int) []rni.Story {
	historias := []rni.Story{}
	offset := 0

	for {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(p.out, "interrupted, keeping %d records\n", len(historias))
			break
		}

		fmt.Fprintf(p.out, "fetching records from offset %d...\n", offset)

		page := p.issue(ctx, batchSize, offset)
		if page == nil {
			fmt.Fprintln(p.out, "no more data")
			break
		}

		if len(page.Historias) == 0 {
			fmt.Fprintln(p.out, "no more stories available")
			break
		}

		historias = append(historias, page.Historias...)
		p.tracker.RecordPage(len(page.Historias))
		fmt.Fprintf(p.out, "total so far: %d stories\n", len(historias))

		if maxRecords > 0 && len(historias) >= maxRecords {
			historias = historias[:maxRecords]
			p.tracker.SetTotal(len(historias))
			break
		}

		offset += batchSize

		if err := p.sleep(ctx, p.delay); err != nil {
			p.logger.Debug("pause interrupted", "error", err)
		}
	}

	return historias
}

// issue performs one request. Any failure is reported on the console and
// turned into a nil page, which callers treat as the end of the data.
func (p *Paginator) issue(ctx context.Context, limit, offset int) *rni.Page {
	p.tracker.IncrementAPICall()
	p.logger.Debug("requesting page", "limit", limit, "offset", offset)

	page, err := p.client.FetchHistorias(ctx, limit, offset)
	if err != nil {
		fmt.Fprintf(p.out, "request failed: %v\n", err)
		p.logger.Debug("request failed", "offset", offset, "error", err)
		return nil
	}
	if len(page.Warnings) > 0 {
		p.logger.Warn("page returned with GraphQL errors",
			"offset", offset, "records", len(page.Historias), "errors", page.Warnings)
	}
	return page
}

func contextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

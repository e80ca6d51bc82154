package pcloud

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strconv"
	"time"
)

// DiffBuilder prepares a diff request against the account change log.
type DiffBuilder struct {
	c            *Client
	diffID       uint64
	after        time.Time
	last         uint64
	block        bool
	blockTimeout time.Duration
	limit        uint64
}

// Diff starts building a query of the account change log. Without any
// options the server returns the log from the beginning.
func (c *Client) Diff() *DiffBuilder {
	return &DiffBuilder{c: c}
}

// AfterDiffID returns only events newer than the given cursor, typically
// the DiffID of the previous response.
func (b *DiffBuilder) AfterDiffID(id uint64) *DiffBuilder {
	b.diffID = id

	return b
}

// After returns only events newer than the given time.
func (b *DiffBuilder) After(t time.Time) *DiffBuilder {
	b.after = t

	return b
}

// Last returns only the newest n events.
func (b *DiffBuilder) Last(n uint64) *DiffBuilder {
	b.last = n

	return b
}

// Block makes the server hold the request open until an event arrives
// (long poll). Only meaningful together with AfterDiffID.
func (b *DiffBuilder) Block(v bool) *DiffBuilder {
	b.block = v

	return b
}

// BlockTimeout caps how long a blocking request is held open server-side.
func (b *DiffBuilder) BlockTimeout(d time.Duration) *DiffBuilder {
	b.blockTimeout = d

	return b
}

// Limit caps the number of events in the response.
func (b *DiffBuilder) Limit(n uint64) *DiffBuilder {
	b.limit = n

	return b
}

func (b *DiffBuilder) query() url.Values {
	q := url.Values{}

	if b.diffID != 0 {
		q.Set("diffid", strconv.FormatUint(b.diffID, 10))
	}

	if !b.after.IsZero() {
		q.Set("after", formatTime(b.after))
	}

	if b.last != 0 {
		q.Set("last", strconv.FormatUint(b.last, 10))
	}

	if b.block {
		q.Set("block", "1")
	}

	if b.blockTimeout > 0 {
		q.Set("timeout", strconv.FormatInt(int64(b.blockTimeout.Seconds()), 10))
	}

	if b.limit != 0 {
		q.Set("limit", strconv.FormatUint(b.limit, 10))
	}

	return q
}

// Get fetches one page of the change log.
func (b *DiffBuilder) Get(ctx context.Context) (*Diff, error) {
	var res Diff
	if err := b.c.getJSON(ctx, "diff", b.query(), &res); err != nil {
		return nil, err
	}

	return &res, nil
}

// Stream long-polls the change log and delivers events on the returned
// channel until ctx is cancelled, starting after the builder's cursor.
// The channel is closed when the stream ends; a non-cancellation failure is
// reported through the returned error channel (capacity one) before
// closing.
func (b *DiffBuilder) Stream(ctx context.Context) (<-chan DiffEntry, <-chan error) {
	events := make(chan DiffEntry)
	errc := make(chan error, 1)

	cursor := b.diffID

	go func() {
		defer close(events)
		defer close(errc)

		for {
			poll := b.c.Diff().AfterDiffID(cursor).Block(true)
			if b.blockTimeout > 0 {
				poll = poll.BlockTimeout(b.blockTimeout)
			}

			diff, err := poll.Get(ctx)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return
				}

				errc <- err

				return
			}

			b.c.logger.Debug("diff page received",
				slog.Uint64("diffid", diff.DiffID),
				slog.Int("entries", len(diff.Entries)),
			)

			for _, entry := range diff.Entries {
				select {
				case events <- entry:
				case <-ctx.Done():
					return
				}
			}

			cursor = diff.DiffID
		}
	}()

	return events, errc
}

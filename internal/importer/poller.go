package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kbtools/url2kb/internal/api"
)

// DefaultPollInterval is the delay between status queries.
const DefaultPollInterval = 3 * time.Second

// Poller drives a conversion task to a terminal state by querying its
// status on a fixed interval. At most one status query is in flight at a
// time, and the ticker stops on the same tick that observes a terminal
// condition, so no query fires after the outcome is known.
type Poller struct {
	Client *api.Client

	// Interval between status queries; DefaultPollInterval when zero.
	Interval time.Duration

	// MaxWait caps the total wait. Zero means poll until the server
	// answers terminally or the context is canceled.
	MaxWait time.Duration

	// OnStatus, when set, is called after every successful status query
	// with the reported status value.
	OnStatus func(status string)
}

// Wait polls taskID until it completes or fails. On completion it returns
// the raw result document. A transport or decode failure on any single
// query stops polling immediately; there is no retry or back-off.
func (p *Poller) Wait(ctx context.Context, taskID string) (json.RawMessage, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var deadline <-chan time.Time
	if p.MaxWait > 0 {
		timer := time.NewTimer(p.MaxWait)
		defer timer.Stop()
		deadline = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case <-deadline:
			return nil, fmt.Errorf("%w after %s", ErrPollTimeout, p.MaxWait)

		case <-ticker.C:
			st, err := p.Client.TaskStatus(ctx, taskID)
			if err != nil {
				return nil, fmt.Errorf("query task status: %w", err)
			}
			if p.OnStatus != nil {
				p.OnStatus(st.Status)
			}
			switch st.Status {
			case api.StatusCompleted:
				return st.Result, nil
			case api.StatusFailed:
				return nil, fmt.Errorf("%w: %s", ErrJobFailed, FailureReason(st.Result))
			}
			// pending, running and any unknown value keep the loop alive
		}
	}
}

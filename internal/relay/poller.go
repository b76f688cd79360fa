package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fivetwenty-io/fastspring-client/internal/constants"
	"github.com/fivetwenty-io/fastspring-client/pkg/fastspring"
)

// Poller moves unprocessed events from the events API to a Publisher and
// marks each one processed once it has been published.
type Poller struct {
	events    fastspring.EventsClient
	publisher Publisher
	logger    fastspring.Logger
	interval  time.Duration
	days      int
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithInterval sets the delay between polls.
func WithInterval(interval time.Duration) PollerOption {
	return func(p *Poller) {
		if interval > 0 {
			p.interval = interval
		}
	}
}

// WithLookback limits polls to events created in the last days.
func WithLookback(days int) PollerOption {
	return func(p *Poller) {
		p.days = days
	}
}

// WithLogger sets the logger.
func WithLogger(logger fastspring.Logger) PollerOption {
	return func(p *Poller) {
		p.logger = logger
	}
}

// NewPoller creates a poller.
func NewPoller(events fastspring.EventsClient, publisher Publisher, opts ...PollerOption) *Poller {
	poller := &Poller{
		events:    events,
		publisher: publisher,
		interval:  constants.DefaultEventPollInterval,
	}

	for _, opt := range opts {
		opt(poller)
	}

	return poller
}

// Poll runs one pass and returns how many events were relayed. An event that
// fails to publish stays unprocessed and is retried on the next pass.
func (p *Poller) Poll(ctx context.Context) (int, error) {
	var params *fastspring.EventListParams
	if p.days > 0 {
		params = &fastspring.EventListParams{Days: p.days}
	}

	list, err := p.events.ListUnprocessed(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("listing unprocessed events: %w", err)
	}

	relayed := 0

	var errs []error

	for _, event := range list.Events {
		err := ctx.Err()
		if err != nil {
			errs = append(errs, err)

			break
		}

		err = p.publisher.Publish(ctx, event)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		_, err = p.events.Update(ctx, event.ID, &fastspring.EventUpdateRequest{Processed: true})
		if err != nil {
			errs = append(errs, fmt.Errorf("marking event %s processed: %w", event.ID, err))

			continue
		}

		relayed++
	}

	return relayed, errors.Join(errs...)
}

// Run polls until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		relayed, err := p.Poll(ctx)
		if err != nil && ctx.Err() == nil {
			p.log("error", "Event relay pass failed", map[string]interface{}{"error": err.Error(), "relayed": relayed})
		} else if relayed > 0 {
			p.log("info", "Relayed events", map[string]interface{}{"count": relayed})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (p *Poller) log(level, msg string, fields map[string]interface{}) {
	if p.logger == nil {
		return
	}

	switch level {
	case "error":
		p.logger.Error(msg, fields)
	default:
		p.logger.Info(msg, fields)
	}
}

package vocab

import (
	"context"
	"log"
	"strings"

	"github.com/yisuchen/bananaguava/internal/metrics"
)

// Sink durably records one new vocabulary entry. Sinks must be idempotent:
// appending a value that is already present is a silent no-op on their side.
type Sink interface {
	SyncVariable(ctx context.Context, key, value string) error
}

type growthEntry struct {
	key   string
	value string
}

// Reporter is the vocabulary growth writer: a one-way channel to a background
// goroutine that forwards new values to the configured sinks. Reporting never
// blocks the caller and errors never surface past a log line — a dropped
// growth write is an acceptable loss, the sinks' idempotence is the backstop.
type Reporter struct {
	table *Table
	sinks []Sink
	ch    chan growthEntry
	done  chan struct{}
}

// NewReporter creates a Reporter feeding the given sinks. Run must be started
// for entries to drain.
func NewReporter(table *Table, sinks ...Sink) *Reporter {
	return &Reporter{
		table: table,
		sinks: sinks,
		ch:    make(chan growthEntry, 64),
		done:  make(chan struct{}),
	}
}

// Report records a user-supplied value for key. No-op when either is empty or
// the value is already known. Otherwise the persistence send is issued first,
// using the pre-append membership check, and only then is the table grown —
// the optimistic local update must not mask the need to report.
func (r *Reporter) Report(key, value string) {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	if r.table.Contains(key, value) {
		return
	}

	select {
	case r.ch <- growthEntry{key: key, value: value}:
	default:
		// Channel full: drop rather than block the caller.
		log.Printf("vocab: growth queue full, dropping %s = %s", key, value)
	}

	r.table.Add(key, value)
}

// Run consumes growth entries until ctx is cancelled, then drains whatever is
// still queued before returning.
func (r *Reporter) Run(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case e, ok := <-r.ch:
			if !ok {
				return
			}
			r.sync(ctx, e)
		case <-ctx.Done():
			for {
				select {
				case e, ok := <-r.ch:
					if !ok {
						return
					}
					r.sync(context.Background(), e)
				default:
					return
				}
			}
		}
	}
}

// Wait blocks until Run has returned.
func (r *Reporter) Wait() {
	<-r.done
}

func (r *Reporter) sync(ctx context.Context, e growthEntry) {
	for _, sink := range r.sinks {
		if err := sink.SyncVariable(ctx, e.key, e.value); err != nil {
			metrics.GrowthReportErrorsTotal.Inc()
			log.Printf("vocab: growth sync %s = %s: %v", e.key, e.value, err)
			continue
		}
		metrics.GrowthReportsTotal.Inc()
	}
}

// Package notify scans the selected calendar for events starting soon and
// keeps a single transient "soonest upcoming" notice current. The notice is
// recomputed from scratch on every tick; nothing accumulates.
package notify

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/wrenfield/perch/internal/grid"
	"github.com/wrenfield/perch/internal/model"
)

// DefaultInterval is how often the scan runs. DefaultWindow bounds how far
// ahead an event may start and still produce a notice.
const (
	DefaultInterval = 45 * time.Second
	DefaultWindow   = 60 * time.Minute
)

// Notice describes the soonest upcoming event, or is absent when nothing
// starts within the window.
type Notice struct {
	EventID     string `json:"event_id"`
	Title       string `json:"title"`
	MinutesLeft int    `json:"minutes_left"`
}

// Source supplies the events to scan.
type Source interface {
	SelectedCalendar() *model.Calendar
}

// ChangeFunc is called whenever the current notice changes, including to nil.
type ChangeFunc func(*Notice)

// Notifier periodically recomputes the upcoming-event notice.
type Notifier struct {
	mu       sync.RWMutex
	source   Source
	interval time.Duration
	window   time.Duration
	now      func() time.Time
	onChange ChangeFunc
	logger   *slog.Logger

	current *Notice
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a notifier. interval and window fall back to the defaults
// when zero; onChange may be nil.
func New(source Source, interval, window time.Duration, onChange ChangeFunc, logger *slog.Logger) *Notifier {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Notifier{
		source:   source,
		interval: interval,
		window:   window,
		now:      time.Now,
		onChange: onChange,
		logger:   logger,
	}
}

// Start begins the scan loop: once immediately, then on every tick.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	ctx, n.cancel = context.WithCancel(ctx)
	n.done = make(chan struct{})
	n.mu.Unlock()

	n.Scan()

	go func() {
		defer close(n.done)
		ticker := time.NewTicker(n.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n.Scan()
			}
		}
	}()
}

// Stop cancels the pending timer and waits for the loop to exit.
func (n *Notifier) Stop() {
	n.mu.RLock()
	cancel := n.cancel
	done := n.done
	n.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Current returns the notice from the latest scan, or nil.
func (n *Notifier) Current() *Notice {
	n.mu.RLock()
	defer n.mu.RUnlock()

	if n.current == nil {
		return nil
	}
	c := *n.current
	return &c
}

// Scan recomputes the notice now and fires the change callback when it
// differs from the previous one.
func (n *Notifier) Scan() {
	var events []model.Event
	if cal := n.source.SelectedCalendar(); cal != nil {
		events = cal.Events
	}

	notice := Upcoming(events, n.now(), n.window)

	n.mu.Lock()
	changed := !noticesEqual(n.current, notice)
	n.current = notice
	onChange := n.onChange
	n.mu.Unlock()

	if changed {
		if notice != nil {
			n.logger.Debug("upcoming event", "event_id", notice.EventID, "minutes_left", notice.MinutesLeft)
		}
		if onChange != nil {
			onChange(notice)
		}
	}
}

// Upcoming picks the single soonest event on today's day index whose start
// lies strictly in the future and within window of now. Ties keep the first
// encountered. Returns nil when nothing qualifies.
func Upcoming(events []model.Event, now time.Time, window time.Duration) *Notice {
	today := grid.DayIndex(now)

	var best *Notice
	var bestDiff time.Duration
	for _, e := range events {
		if e.Day != today {
			continue
		}
		start, err := grid.On(now, e.StartTime)
		if err != nil {
			continue
		}
		diff := start.Sub(now)
		if diff <= 0 || diff > window {
			continue
		}
		if best == nil || diff < bestDiff {
			best = &Notice{
				EventID:     e.ID,
				Title:       e.Template.Name,
				MinutesLeft: int(math.Ceil(diff.Minutes())),
			}
			bestDiff = diff
		}
	}
	return best
}

func noticesEqual(a, b *Notice) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

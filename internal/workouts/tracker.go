package workouts

import (
	"strconv"
	"sync"
	"time"
)

// DefaultDateLayout renders calendar days the way the first version of the
// app stored them (es-ES short date).
const DefaultDateLayout = "2/1/2006"

// Tracker holds every state transition of the app. Operations take an
// AppState and return the next one, the input is never modified.
type Tracker struct {
	now        func() time.Time
	newID      func() string
	dateLayout string
}

type TrackerOption func(*Tracker)

func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) {
		t.now = now
	}
}

func WithIDGenerator(newID func() string) TrackerOption {
	return func(t *Tracker) {
		t.newID = newID
	}
}

func WithDateLayout(layout string) TrackerOption {
	return func(t *Tracker) {
		if layout != "" {
			t.dateLayout = layout
		}
	}
}

func NewTracker(opts ...TrackerOption) *Tracker {
	t := &Tracker{
		now:        time.Now,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.newID == nil {
		t.newID = newMillisIDGenerator(t.now).Next
	}
	return t
}

// Today is the calendar day label of the tracker clock, in local time.
func (t *Tracker) Today() string {
	return t.now().Format(t.dateLayout)
}

func (t *Tracker) DateLayout() string {
	return t.dateLayout
}

func (t *Tracker) Now() time.Time {
	return t.now()
}

// millisIDGenerator hands out unix millis as ids, bumping the value when two
// ids are requested within the same millisecond.
type millisIDGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

func newMillisIDGenerator(now func() time.Time) *millisIDGenerator {
	return &millisIDGenerator{now: now}
}

func (g *millisIDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return strconv.FormatInt(ms, 10)
}

// Package album merges media-group bursts into single submissions.
package album

import (
	"strings"
	"sync"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

const DefaultWindow = time.Second

// Part is one inbound message of a burst.
type Part struct {
	ChatID   int64
	Username string
	Text     string // message text or media caption
	Media    []questions.Media
}

// Submission is a burst merged into one logical question.
type Submission struct {
	UserID   int64
	ChatID   int64
	Username string
	Text     string
	Media    []questions.Media
}

type FlushFunc func(Submission)

type key struct {
	userID  int64
	groupID string
}

type buffer struct {
	parts []Part
	timer *time.Timer
	gen   uint64
}

// Aggregator buffers parts per (user, group) and flushes a group once no
// new part has arrived for the quiescence window.
type Aggregator struct {
	window time.Duration
	flush  FlushFunc

	mu      sync.Mutex
	pending map[key]*buffer
	closed  bool
}

func New(window time.Duration, flush FlushFunc) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{
		window:  window,
		flush:   flush,
		pending: make(map[key]*buffer),
	}
}

// Enqueue adds a part. Parts without a group id are flushed immediately.
func (a *Aggregator) Enqueue(userID int64, groupID string, p Part) {
	if groupID == "" {
		a.flush(Merge(userID, []Part{p}))
		return
	}

	k := key{userID: userID, groupID: groupID}

	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		a.flush(Merge(userID, []Part{p}))
		return
	}
	buf, ok := a.pending[k]
	if !ok {
		buf = &buffer{}
		a.pending[k] = buf
	}
	buf.parts = append(buf.parts, p)
	buf.gen++
	gen := buf.gen
	if buf.timer != nil {
		buf.timer.Stop()
	}
	buf.timer = time.AfterFunc(a.window, func() { a.expire(k, gen) })
	a.mu.Unlock()
}

// expire drains a buffer unless a newer part re-armed its timer.
func (a *Aggregator) expire(k key, gen uint64) {
	a.mu.Lock()
	buf, ok := a.pending[k]
	if !ok || buf.gen != gen {
		a.mu.Unlock()
		return
	}
	delete(a.pending, k)
	a.mu.Unlock()

	a.flush(Merge(k.userID, buf.parts))
}

// Pending reports the number of groups still waiting for their window.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.pending)
}

// Close stops all timers and flushes whatever is buffered.
func (a *Aggregator) Close() {
	a.mu.Lock()
	a.closed = true
	drained := make(map[key]*buffer, len(a.pending))
	for k, buf := range a.pending {
		buf.timer.Stop()
		drained[k] = buf
	}
	a.pending = make(map[key]*buffer)
	a.mu.Unlock()

	for k, buf := range drained {
		a.flush(Merge(k.userID, buf.parts))
	}
}

// Merge combines parts in arrival order. The first non-blank text wins and
// media lists are concatenated.
func Merge(userID int64, parts []Part) Submission {
	sub := Submission{UserID: userID}
	if len(parts) > 0 {
		sub.ChatID = parts[0].ChatID
		sub.Username = parts[0].Username
	}
	for _, p := range parts {
		if sub.Text == "" && strings.TrimSpace(p.Text) != "" {
			sub.Text = p.Text
		}
		sub.Media = append(sub.Media, p.Media...)
	}
	return sub
}

package questions

import (
	"strings"
)

// Status is a flat lifecycle label. Any status may follow any other.
type Status string

const (
	StatusNew        Status = "new"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusRejected   Status = "rejected"
)

var allStatuses = []Status{StatusNew, StatusInProgress, StatusDone, StatusRejected}

var statusLabels = map[Status]string{
	StatusNew:        "🆕 new",
	StatusInProgress: "⚙️ in progress",
	StatusDone:       "✅ done",
	StatusRejected:   "❌ rejected",
}

// Statuses returns the full status set in display order.
func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ActiveStatuses are the statuses that still need a manager.
func ActiveStatuses() []Status {
	return []Status{StatusNew, StatusInProgress}
}

// TargetStatuses are offered as buttons under a question card.
func TargetStatuses() []Status {
	return []Status{StatusInProgress, StatusDone, StatusRejected}
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label is the decorated form shown in chats.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

func (s Status) Active() bool {
	return s == StatusNew || s == StatusInProgress
}

// ParseStatus accepts a canonical status code, ignoring case and surrounding space.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", &ValidationError{
			Field:  "status",
			Value:  raw,
			Reason: "allowed statuses: " + statusList(),
		}
	}
	return s, nil
}

func statusList() string {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

package questions

// Filter selects which questions a list view shows.
type Filter string

const (
	FilterActive Filter = "active"
	FilterAll    Filter = "all"
)

// ParseFilter maps unknown or empty values to FilterAll.
func ParseFilter(raw string) Filter {
	if Filter(raw) == FilterActive {
		return FilterActive
	}
	return FilterAll
}

// Statuses returns the store filter for f; nil means no restriction.
func (f Filter) Statuses() []Status {
	if f == FilterActive {
		return ActiveStatuses()
	}
	return nil
}

// Match reports whether q belongs in a view filtered by f.
func (f Filter) Match(q Question) bool {
	if f == FilterActive {
		return q.Status.Active()
	}
	return true
}

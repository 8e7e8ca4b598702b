package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/callback"
	"github.com/eliseohh/helpdeskbot/internal/questions"
)

const (
	DefaultPerPage = 8
	TimeLayout     = "02.01.2006 15:04"

	selectorsPerRow = 4

	BackLabel = "◀ Back"
	NextLabel = "Next ▶"

	EmptyPageText = "No questions on this page."

	// MaxMessageLen is the platform limit for one text message, in characters.
	MaxMessageLen = 4096
	// ExcerptLen bounds each question's text in the list so a full page
	// stays under MaxMessageLen.
	ExcerptLen = 300
)

// Renderer formats list pages. The zero value uses DefaultPerPage and UTC.
type Renderer struct {
	PerPage  int
	Location *time.Location
}

// Page is one rendered screen of the question list.
type Page struct {
	Text     string
	Keyboard Keyboard
	Items    []questions.Question
	HasPrev  bool
	HasNext  bool
}

func (r Renderer) perPage() int {
	if r.PerPage <= 0 {
		return DefaultPerPage
	}
	return r.PerPage
}

func (r Renderer) stamp(t time.Time) string {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(TimeLayout)
}

// Slice applies the filter and returns the items of a one-based page plus
// the filtered total. Pages past the end are empty, not an error.
func (r Renderer) Slice(qs []questions.Question, page int, filter questions.Filter) ([]questions.Question, int) {
	if page < 1 {
		page = 1
	}
	filtered := make([]questions.Question, 0, len(qs))
	for _, q := range qs {
		if filter.Match(q) {
			filtered = append(filtered, q)
		}
	}

	per := r.perPage()
	if page > pageCount(len(filtered), per) {
		return nil, len(filtered)
	}
	start := (page - 1) * per
	end := start + per
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], len(filtered)
}

// ListPage renders page (one based) of qs after filtering.
func (r Renderer) ListPage(qs []questions.Question, page int, filter questions.Filter) Page {
	if page < 1 {
		page = 1
	}
	items, total := r.Slice(qs, page, filter)
	pages := pageCount(total, r.perPage())

	var sb strings.Builder
	for i, q := range items {
		fmt.Fprintf(&sb, "%d. #%d | %s | %s | %s\n", i+1, q.ID, q.Status.Label(), q.Handle(), r.stamp(q.CreatedAt))
		fmt.Fprintf(&sb, "   %s\n\n", Truncate(q.Text, ExcerptLen))
	}
	text := strings.TrimRight(sb.String(), "\n")
	if text == "" {
		text = EmptyPageText
	}

	selectors := make([]Button, 0, len(items))
	for i := range items {
		selectors = append(selectors, Button{
			Text: strconv.Itoa(i + 1),
			Data: callback.PageSelect{Page: page, Index: i, Filter: filter}.Encode(),
		})
	}
	kb := grid(selectors, selectorsPerRow)

	p := Page{
		Text:    text,
		Items:   items,
		HasPrev: page > 1 && page-1 <= pages,
		HasNext: page < pages,
	}

	var nav []Button
	if p.HasPrev {
		nav = append(nav, Button{Text: BackLabel, Data: callback.Pagination{Page: page - 1, Filter: filter}.Encode()})
	}
	if p.HasNext {
		nav = append(nav, Button{Text: NextLabel, Data: callback.Pagination{Page: page + 1, Filter: filter}.Encode()})
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	p.Keyboard = kb
	return p
}

// pageCount is the number of non-empty pages.
func pageCount(total, per int) int {
	return (total + per - 1) / per
}

// Truncate cuts s to at most limit characters, marking the cut with an
// ellipsis.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	if limit <= 1 {
		return string(r[:limit])
	}
	return string(r[:limit-1]) + "…"
}

// Split breaks s into chunks of at most limit characters, preferring to cut
// after a newline in the second half of a chunk.
func Split(s string, limit int) []string {
	r := []rune(s)
	if limit <= 0 || len(r) <= limit {
		return []string{s}
	}
	var out []string
	for len(r) > limit {
		cut := limit
		for i := limit - 1; i >= limit/2; i-- {
			if r[i] == '\n' {
				cut = i + 1
				break
			}
		}
		out = append(out, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

// Card is the manager-facing header plus text of one question.
func Card(q questions.Question) string {
	return fmt.Sprintf("#%d | %s | %s:\n%s", q.ID, q.Status.Label(), q.Handle(), q.Text)
}

// NewQuestionCard announces a fresh submission in the work chat.
func NewQuestionCard(q questions.Question) string {
	return fmt.Sprintf("New question #%d from %s:\n%s", q.ID, q.Handle(), q.Text)
}

// StatusNotice tells the submitter about a status change.
func StatusNotice(q questions.Question) string {
	return fmt.Sprintf("Your question #%d was updated. New status: %s", q.ID, q.Status.Label())
}

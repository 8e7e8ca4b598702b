package render

import (
	"strings"
	"testing"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/callback"
	"github.com/eliseohh/helpdeskbot/internal/questions"
)

func makeQuestions(n int, status questions.Status) []questions.Question {
	base := time.Date(2025, 5, 4, 9, 15, 0, 0, time.UTC)
	out := make([]questions.Question, n)
	for i := range out {
		out[i] = questions.Question{
			ID:        int64(i + 1),
			UserID:    100,
			Username:  "user",
			Text:      "question text",
			Status:    status,
			CreatedAt: base,
		}
	}
	return out
}

func navRow(p Page) []Button {
	if len(p.Keyboard) == 0 {
		return nil
	}
	last := p.Keyboard[len(p.Keyboard)-1]
	for _, b := range last {
		if b.Text == BackLabel || b.Text == NextLabel {
			return last
		}
	}
	return nil
}

func hasButton(row []Button, label string) bool {
	for _, b := range row {
		if b.Text == label {
			return true
		}
	}
	return false
}

func TestPaginationTwentyActive(t *testing.T) {
	r := Renderer{PerPage: 8}
	qs := makeQuestions(20, questions.StatusNew)

	p1 := r.ListPage(qs, 1, questions.FilterActive)
	if len(p1.Items) != 8 {
		t.Errorf("page 1 has %d items, want 8", len(p1.Items))
	}
	nav := navRow(p1)
	if !hasButton(nav, NextLabel) || hasButton(nav, BackLabel) {
		t.Errorf("page 1 nav = %+v, want next only", nav)
	}

	p2 := r.ListPage(qs, 2, questions.FilterActive)
	nav = navRow(p2)
	if !hasButton(nav, NextLabel) || !hasButton(nav, BackLabel) {
		t.Errorf("page 2 nav = %+v, want both", nav)
	}

	p3 := r.ListPage(qs, 3, questions.FilterActive)
	if len(p3.Items) != 4 {
		t.Errorf("page 3 has %d items, want 4", len(p3.Items))
	}
	nav = navRow(p3)
	if hasButton(nav, NextLabel) || !hasButton(nav, BackLabel) {
		t.Errorf("page 3 nav = %+v, want back only", nav)
	}
}

func TestSinglePageHasNoNav(t *testing.T) {
	p := Renderer{}.ListPage(makeQuestions(3, questions.StatusNew), 1, questions.FilterAll)
	if navRow(p) != nil {
		t.Errorf("unexpected nav row %+v", navRow(p))
	}
	if len(p.Keyboard) != 1 || len(p.Keyboard[0]) != 3 {
		t.Errorf("expected one row of 3 selectors, got %+v", p.Keyboard)
	}
}

func TestSelectorRowsOfFour(t *testing.T) {
	p := Renderer{PerPage: 8}.ListPage(makeQuestions(8, questions.StatusNew), 1, questions.FilterAll)
	if len(p.Keyboard) != 2 {
		t.Fatalf("expected 2 selector rows, got %d", len(p.Keyboard))
	}
	for i, row := range p.Keyboard {
		if len(row) != 4 {
			t.Errorf("row %d has %d buttons", i, len(row))
		}
	}
	if p.Keyboard[1][3].Text != "8" {
		t.Errorf("last selector label = %q, want 8", p.Keyboard[1][3].Text)
	}

	a, err := callback.Decode(p.Keyboard[1][2].Data)
	if err != nil {
		t.Fatal(err)
	}
	want := callback.PageSelect{Page: 1, Index: 6, Filter: questions.FilterAll}
	if a != want {
		t.Errorf("selector decoded to %#v, want %#v", a, want)
	}
}

func TestActiveFilterExcludesClosed(t *testing.T) {
	qs := []questions.Question{
		{ID: 1, Status: questions.StatusNew},
		{ID: 2, Status: questions.StatusDone},
		{ID: 3, Status: questions.StatusInProgress},
		{ID: 4, Status: questions.StatusRejected},
	}
	p := Renderer{}.ListPage(qs, 1, questions.FilterActive)
	if len(p.Items) != 2 || p.Items[0].ID != 1 || p.Items[1].ID != 3 {
		t.Errorf("unexpected items %+v", p.Items)
	}

	all := Renderer{}.ListPage(qs, 1, questions.FilterAll)
	if len(all.Items) != 4 {
		t.Errorf("all filter returned %d items", len(all.Items))
	}
}

func TestOutOfRangePageIsEmpty(t *testing.T) {
	p := Renderer{PerPage: 8}.ListPage(makeQuestions(5, questions.StatusNew), 4, questions.FilterAll)
	if len(p.Items) != 0 {
		t.Errorf("expected no items, got %d", len(p.Items))
	}
	if p.Text != EmptyPageText {
		t.Errorf("unexpected text %q", p.Text)
	}
	if p.HasNext || p.HasPrev {
		t.Errorf("no neighbour of page 4 has content: prev=%v next=%v", p.HasPrev, p.HasNext)
	}
}

func TestItemFormatting(t *testing.T) {
	q := questions.Question{
		ID:        17,
		Text:      "Where is my order?",
		Status:    questions.StatusInProgress,
		CreatedAt: time.Date(2025, 2, 3, 4, 5, 0, 0, time.UTC),
	}
	p := Renderer{}.ListPage([]questions.Question{q}, 1, questions.FilterAll)
	want := "1. #17 | " + questions.StatusInProgress.Label() + " | @user | 03.02.2025 04:05\n   Where is my order?"
	if p.Text != want {
		t.Errorf("text =\n%q\nwant\n%q", p.Text, want)
	}
}

func TestLocation(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	q := questions.Question{ID: 1, CreatedAt: time.Date(2025, 1, 1, 22, 0, 0, 0, time.UTC)}
	p := Renderer{Location: loc}.ListPage([]questions.Question{q}, 1, questions.FilterAll)
	if !strings.Contains(p.Text, "02.01.2025 01:00") {
		t.Errorf("timestamp not converted: %q", p.Text)
	}
}

func TestStatusKeyboard(t *testing.T) {
	kb := StatusKeyboard(5)
	if len(kb) != 1 || len(kb[0]) != 3 {
		t.Fatalf("expected one row of three, got %+v", kb)
	}
	for i, st := range questions.TargetStatuses() {
		a, err := callback.Decode(kb[0][i].Data)
		if err != nil {
			t.Fatal(err)
		}
		if a != (callback.StatusChange{QuestionID: 5, Status: st}) {
			t.Errorf("button %d decoded to %#v", i, a)
		}
		if kb[0][i].Text != st.Label() {
			t.Errorf("button %d label %q", i, kb[0][i].Text)
		}
	}
}

func TestCards(t *testing.T) {
	q := questions.Question{ID: 3, Username: "ann", Text: "Hi", Status: questions.StatusDone}
	if got := Card(q); got != "#3 | "+questions.StatusDone.Label()+" | @ann:\nHi" {
		t.Errorf("Card = %q", got)
	}
	if got := NewQuestionCard(q); got != "New question #3 from @ann:\nHi" {
		t.Errorf("NewQuestionCard = %q", got)
	}
	if got := StatusNotice(q); !strings.Contains(got, "#3") || !strings.Contains(got, questions.StatusDone.Label()) {
		t.Errorf("StatusNotice = %q", got)
	}
}

func TestHugePageFromCallbackIsEmpty(t *testing.T) {
	qs := makeQuestions(20, questions.StatusNew)
	r := Renderer{PerPage: 8}

	for _, data := range []string{
		"p:4611686018427387904:active",
		"p:2305843009213693953:active",
		"q:9223372036854775807:0:all",
	} {
		a, err := callback.Decode(data)
		if err != nil {
			t.Fatalf("Decode(%q): %v", data, err)
		}
		var page int
		var filter questions.Filter
		switch a := a.(type) {
		case callback.Pagination:
			page, filter = a.Page, a.Filter
		case callback.PageSelect:
			page, filter = a.Page, a.Filter
		}

		items, total := r.Slice(qs, page, filter)
		if len(items) != 0 || total != 20 {
			t.Errorf("%s: got %d items of %d", data, len(items), total)
		}
		p := r.ListPage(qs, page, filter)
		if p.Text != EmptyPageText || p.HasPrev || p.HasNext {
			t.Errorf("%s: page = %+v", data, p)
		}
	}
}

func TestListExcerptsStayUnderMessageLimit(t *testing.T) {
	qs := makeQuestions(8, questions.StatusNew)
	for i := range qs {
		qs[i].Text = strings.Repeat("я", MaxMessageLen)
	}
	p := Renderer{PerPage: 8}.ListPage(qs, 1, questions.FilterAll)
	if n := len([]rune(p.Text)); n > MaxMessageLen {
		t.Errorf("list text is %d characters", n)
	}
	if !strings.Contains(p.Text, "…") {
		t.Error("long texts should be cut with an ellipsis")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("héllo world", 5); got != "héll…" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestSplit(t *testing.T) {
	if got := Split("abc", 10); len(got) != 1 || got[0] != "abc" {
		t.Errorf("Split short = %q", got)
	}

	got := Split(strings.Repeat("x", 25), 10)
	if len(got) != 3 || got[0] != strings.Repeat("x", 10) || got[2] != strings.Repeat("x", 5) {
		t.Errorf("Split = %q", got)
	}

	got = Split("aaaaaaa\nbbbbbbbbb", 10)
	if len(got) != 2 || got[0] != "aaaaaaa\n" || got[1] != "bbbbbbbbb" {
		t.Errorf("Split at newline = %q", got)
	}

	card := NewQuestionCard(questions.Question{ID: 1, Username: "ann", Text: strings.Repeat("ü", MaxMessageLen)})
	parts := Split(card, MaxMessageLen)
	if len(parts) != 2 || strings.Join(parts, "") != card {
		t.Fatalf("card split into %d parts", len(parts))
	}
	for _, p := range parts {
		if len([]rune(p)) > MaxMessageLen {
			t.Errorf("part of %d characters", len([]rune(p)))
		}
	}
}

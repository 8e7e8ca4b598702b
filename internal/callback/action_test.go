package callback

import (
	"errors"
	"testing"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

func TestRoundTrip(t *testing.T) {
	actions := []Action{
		StatusChange{QuestionID: 1, Status: questions.StatusDone},
		StatusChange{QuestionID: 9223372036854775807, Status: questions.StatusInProgress},
		PageSelect{Page: 3, Index: 7, Filter: questions.FilterActive},
		PageSelect{Page: 1, Index: 0, Filter: questions.FilterAll},
		Pagination{Page: 2, Filter: questions.FilterActive},
		Pagination{Page: 12, Filter: questions.FilterAll},
	}

	for _, a := range actions {
		data := a.Encode()
		if len(data) > MaxLen {
			t.Errorf("%q exceeds %d bytes", data, MaxLen)
		}
		got, err := Decode(data)
		if err != nil {
			t.Errorf("Decode(%q): %v", data, err)
			continue
		}
		if got != a {
			t.Errorf("Decode(%q) = %#v, want %#v", data, got, a)
		}
	}
}

func TestStatusChangeExactPair(t *testing.T) {
	data := StatusChange{QuestionID: 42, Status: questions.StatusRejected}.Encode()
	a, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	sc, ok := a.(StatusChange)
	if !ok {
		t.Fatalf("decoded %T, want StatusChange", a)
	}
	if sc.QuestionID != 42 || sc.Status != questions.StatusRejected {
		t.Errorf("got (%d, %q)", sc.QuestionID, sc.Status)
	}
}

func TestDecodeRejectsMalformed(t *testing.T) {
	bad := []string{
		"",
		"x:1:2",
		"s:1",
		"s:abc:done",
		"s:0:done",
		"s:1:closed",
		"q:1:2",
		"q:0:1:active",
		"q:1:-1:active",
		"p:zero:all",
		"p:1",
		"p:1:all:extra",
	}
	for _, data := range bad {
		_, err := Decode(data)
		var verr *questions.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("Decode(%q): expected ValidationError, got %v", data, err)
		}
	}
}

func TestUnknownFilterDecodesToAll(t *testing.T) {
	a, err := Decode("p:2:bogus")
	if err != nil {
		t.Fatal(err)
	}
	if a.(Pagination).Filter != questions.FilterAll {
		t.Errorf("expected FilterAll, got %q", a.(Pagination).Filter)
	}
}

// Package callback encodes inline button payloads as compact tokens and
// decodes them back into a closed set of actions.
package callback

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

// MaxLen is the platform limit for callback data.
const MaxLen = 64

const (
	kindStatus     = "s"
	kindPageSelect = "q"
	kindPagination = "p"
	sep            = ":"
)

// Action is one of StatusChange, PageSelect or Pagination.
type Action interface {
	Encode() string
	isAction()
}

// StatusChange moves a question to a new status.
type StatusChange struct {
	QuestionID int64
	Status     questions.Status
}

// PageSelect opens the Index-th (zero based) item of a rendered list page.
type PageSelect struct {
	Page   int
	Index  int
	Filter questions.Filter
}

// Pagination renders another page of the list.
type Pagination struct {
	Page   int
	Filter questions.Filter
}

func (StatusChange) isAction() {}
func (PageSelect) isAction()   {}
func (Pagination) isAction()   {}

func (a StatusChange) Encode() string {
	return strings.Join([]string{kindStatus, strconv.FormatInt(a.QuestionID, 10), string(a.Status)}, sep)
}

func (a PageSelect) Encode() string {
	return strings.Join([]string{kindPageSelect, strconv.Itoa(a.Page), strconv.Itoa(a.Index), string(a.Filter)}, sep)
}

func (a Pagination) Encode() string {
	return strings.Join([]string{kindPagination, strconv.Itoa(a.Page), string(a.Filter)}, sep)
}

// Decode parses a token produced by Encode. Malformed input yields a
// *questions.ValidationError.
func Decode(data string) (Action, error) {
	parts := strings.Split(data, sep)
	switch parts[0] {
	case kindStatus:
		if len(parts) != 3 {
			return nil, malformed(data, "expected s:<id>:<status>")
		}
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || id <= 0 {
			return nil, malformed(data, "bad question id")
		}
		st, err := questions.ParseStatus(parts[2])
		if err != nil {
			return nil, err
		}
		return StatusChange{QuestionID: id, Status: st}, nil

	case kindPageSelect:
		if len(parts) != 4 {
			return nil, malformed(data, "expected q:<page>:<index>:<filter>")
		}
		page, err1 := strconv.Atoi(parts[1])
		idx, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil || page < 1 || idx < 0 {
			return nil, malformed(data, "bad page or index")
		}
		return PageSelect{Page: page, Index: idx, Filter: questions.ParseFilter(parts[3])}, nil

	case kindPagination:
		if len(parts) != 3 {
			return nil, malformed(data, "expected p:<page>:<filter>")
		}
		page, err := strconv.Atoi(parts[1])
		if err != nil || page < 1 {
			return nil, malformed(data, "bad page")
		}
		return Pagination{Page: page, Filter: questions.ParseFilter(parts[2])}, nil
	}

	return nil, malformed(data, fmt.Sprintf("unknown action kind %q", parts[0]))
}

func malformed(data, reason string) error {
	return &questions.ValidationError{Field: "callback", Value: data, Reason: reason}
}

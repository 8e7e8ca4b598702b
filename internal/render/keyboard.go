// Package render formats question cards, list pages and their inline keyboards.
package render

import (
	"github.com/eliseohh/helpdeskbot/internal/callback"
	"github.com/eliseohh/helpdeskbot/internal/questions"
)

type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons, one slice per row.
type Keyboard [][]Button

const statusButtonsPerRow = 3

// StatusKeyboard offers the manager status targets for one question.
func StatusKeyboard(questionID int64) Keyboard {
	return grid(statusButtons(questionID), statusButtonsPerRow)
}

func statusButtons(questionID int64) []Button {
	targets := questions.TargetStatuses()
	btns := make([]Button, 0, len(targets))
	for _, st := range targets {
		btns = append(btns, Button{
			Text: st.Label(),
			Data: callback.StatusChange{QuestionID: questionID, Status: st}.Encode(),
		})
	}
	return btns
}

func grid(btns []Button, perRow int) Keyboard {
	var kb Keyboard
	for len(btns) > 0 {
		n := perRow
		if len(btns) < n {
			n = len(btns)
		}
		kb = append(kb, btns[:n])
		btns = btns[n:]
	}
	return kb
}

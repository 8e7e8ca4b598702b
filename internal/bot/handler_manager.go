package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/helpdeskbot/internal/callback"
	"github.com/eliseohh/helpdeskbot/internal/desk"
	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/relay"
)

const (
	MsgNotFound       = "Question #%d not found."
	MsgUnknownStatus  = "Unknown status %q. Allowed: %s"
	MsgStatusToast    = "Status changed: %s"
	MsgStaleList      = "This list is outdated, open it again."
	MsgUnknownAction  = "Unknown action."
	MsgActionDenied   = "Not available here."
	MsgCallbackFailed = "Something went wrong, try again."
)

func (b *Bot) registerManager() {
	b.api.Handle(&tele.Btn{Text: BtnQuestions}, b.handleQuestions)
	b.api.Handle("/status", b.handleStatus)
	b.api.Handle(tele.OnCallback, b.handleCallback)
}

// handleQuestions sends page one of the active list.
func (b *Bot) handleQuestions(c tele.Context) error {
	if !b.inWorkChat(c) {
		return nil
	}
	ctx, cancel := b.ctx()
	defer cancel()

	p, err := b.desk.Page(ctx, 1, questions.FilterActive)
	if err != nil {
		b.logger.Error("render question list", zap.Error(err))
		return c.Send(desk.MsgInternalError)
	}
	if len(p.Items) == 0 {
		return c.Send(MsgNoActive)
	}
	return c.Send(p.Text, sendOptions(p.Keyboard)...)
}

// /status <id> <status>
func (b *Bot) handleStatus(c tele.Context) error {
	if !b.inWorkChat(c) {
		return c.Send(MsgWorkChatOnly)
	}

	args := strings.Fields(c.Message().Payload)
	if len(args) != 2 {
		return c.Send(MsgStatusUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return c.Send(MsgStatusUsage)
	}

	ctx, cancel := b.ctx()
	defer cancel()

	q, err := b.desk.SetStatusByName(ctx, id, args[1])
	var verr *questions.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Send(fmt.Sprintf(MsgUnknownStatus, args[1], allowedStatuses()))
	case errors.Is(err, questions.ErrNotFound):
		return c.Send(fmt.Sprintf(MsgNotFound, id))
	case err != nil:
		b.logger.Error("set status", zap.Int64("question_id", id), zap.Error(err))
		return c.Send(desk.MsgInternalError)
	}

	if err := b.desk.PostCard(ctx, q); err != nil {
		b.logger.Error("post updated card", zap.Int64("question_id", q.ID), zap.Error(err))
	}
	return nil
}

func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil {
		return nil
	}
	if !b.inWorkChat(c) {
		return c.Respond(&tele.CallbackResponse{Text: MsgActionDenied})
	}

	action, err := callback.Decode(cb.Data)
	if err != nil {
		b.logger.Warn("undecodable callback", zap.String("data", cb.Data), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: MsgUnknownAction})
	}

	switch a := action.(type) {
	case callback.StatusChange:
		return b.onStatusChange(c, a)
	case callback.PageSelect:
		return b.onPageSelect(c, a)
	case callback.Pagination:
		return b.onPagination(c, a)
	default:
		return c.Respond(&tele.CallbackResponse{Text: MsgUnknownAction})
	}
}

func (b *Bot) onStatusChange(c tele.Context, a callback.StatusChange) error {
	ctx, cancel := b.ctx()
	defer cancel()

	q, err := b.desk.ChangeStatus(ctx, a.QuestionID, a.Status)
	if errors.Is(err, questions.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(MsgNotFound, a.QuestionID), ShowAlert: true})
	}
	if err != nil {
		b.logger.Error("status change", zap.Int64("question_id", a.QuestionID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: MsgCallbackFailed})
	}

	if ref, ok := messageRef(c); ok {
		if err := b.desk.UpdateCard(ctx, ref, q); err != nil {
			b.logger.Warn("edit card", zap.Int64("question_id", q.ID), zap.Error(err))
		}
	}
	return c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf(MsgStatusToast, q.Status.Label())})
}

func (b *Bot) onPageSelect(c tele.Context, a callback.PageSelect) error {
	ctx, cancel := b.ctx()
	defer cancel()

	q, err := b.desk.Select(ctx, a.Page, a.Index, a.Filter)
	if errors.Is(err, questions.ErrNotFound) {
		return c.Respond(&tele.CallbackResponse{Text: MsgStaleList, ShowAlert: true})
	}
	if err != nil {
		b.logger.Error("select question", zap.Int("page", a.Page), zap.Int("index", a.Index), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: MsgCallbackFailed})
	}

	if err := b.desk.ShowCard(ctx, q); err != nil {
		b.logger.Error("show card", zap.Int64("question_id", q.ID), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: MsgCallbackFailed})
	}
	return c.Respond()
}

func (b *Bot) onPagination(c tele.Context, a callback.Pagination) error {
	ref, ok := messageRef(c)
	if !ok {
		return c.Respond()
	}
	ctx, cancel := b.ctx()
	defer cancel()

	if err := b.desk.RefreshList(ctx, ref, a.Page, a.Filter); err != nil {
		b.logger.Warn("refresh list", zap.Int("page", a.Page), zap.Error(err))
		return c.Respond(&tele.CallbackResponse{Text: MsgCallbackFailed})
	}
	return c.Respond()
}

func messageRef(c tele.Context) (relay.MessageRef, bool) {
	m := c.Message()
	if m == nil || m.Chat == nil {
		return relay.MessageRef{}, false
	}
	return relay.MessageRef{ChatID: m.Chat.ID, MessageID: m.ID}, true
}

func allowedStatuses() string {
	all := questions.Statuses()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

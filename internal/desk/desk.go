// Package desk runs the question lifecycle: intake from users and status
// changes from managers.
package desk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/eliseohh/helpdeskbot/internal/album"
	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/ratelimit"
	"github.com/eliseohh/helpdeskbot/internal/relay"
	"github.com/eliseohh/helpdeskbot/internal/render"
)

// User-facing replies.
const (
	MsgMissingText   = "Please send your question together with the file as a caption."
	MsgAccepted      = "Your question has been received! Number: %d"
	MsgRateLimited   = "⏳ Please wait %d seconds before sending another question."
	MsgInternalError = "Something went wrong, please try again later."
)

type QuestionStore interface {
	Create(ctx context.Context, nq questions.NewQuestion) (questions.Question, error)
	Get(ctx context.Context, id int64) (questions.Question, error)
	List(ctx context.Context, filter []questions.Status) ([]questions.Question, error)
	UpdateStatus(ctx context.Context, id int64, status questions.Status) (questions.Question, error)
}

type Desk struct {
	store    QuestionStore
	limiter  *ratelimit.Limiter
	relay    *relay.Relay
	renderer render.Renderer
	logger   *zap.Logger
	now      func() time.Time
}

func New(store QuestionStore, limiter *ratelimit.Limiter, r *relay.Relay, renderer render.Renderer, logger *zap.Logger) *Desk {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Desk{
		store:    store,
		limiter:  limiter,
		relay:    r,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit validates a merged submission, applies the cooldown, stores the
// question and forwards it to the work chat. A forwarding failure is logged
// and does not undo the stored question.
func (d *Desk) Submit(ctx context.Context, sub album.Submission) (questions.Question, error) {
	if strings.TrimSpace(sub.Text) == "" {
		return questions.Question{}, questions.ErrMissingText
	}
	if err := d.limiter.Allow(ctx, sub.UserID, d.now()); err != nil {
		return questions.Question{}, err
	}

	q, err := d.store.Create(ctx, questions.NewQuestion{
		UserID:   sub.UserID,
		Username: sub.Username,
		Text:     sub.Text,
		Media:    sub.Media,
	})
	if err != nil {
		return questions.Question{}, err
	}
	d.logger.Info("question created", zap.Int64("question_id", q.ID), zap.Int64("user_id", q.UserID), zap.Int("media", len(q.Media)))

	if err := d.relay.RelayToManagers(ctx, render.NewQuestionCard(q), q.Media, render.StatusKeyboard(q.ID)); err != nil {
		d.logger.Error("relay question to work chat", zap.Int64("question_id", q.ID), zap.Error(err))
	} else {
		d.logger.Info("question relayed", zap.Int64("question_id", q.ID))
	}
	return q, nil
}

// HandleSubmission is the aggregator flush target: it submits and answers
// the user in their chat.
func (d *Desk) HandleSubmission(sub album.Submission) {
	ctx := context.Background()
	q, err := d.Submit(ctx, sub)

	var reply string
	var rl *questions.RateLimitedError
	switch {
	case err == nil:
		reply = fmt.Sprintf(MsgAccepted, q.ID)
	case errors.Is(err, questions.ErrMissingText):
		reply = MsgMissingText
	case errors.As(err, &rl):
		d.logger.Info("submission rate limited", zap.Int64("user_id", sub.UserID), zap.Duration("wait", rl.Wait))
		reply = fmt.Sprintf(MsgRateLimited, rl.WaitSeconds())
	default:
		d.logger.Error("create question", zap.Int64("user_id", sub.UserID), zap.Error(err))
		reply = MsgInternalError
	}

	if err := d.relay.Reply(ctx, sub.ChatID, reply); err != nil {
		d.logger.Warn("reply to user", zap.Int64("chat_id", sub.ChatID), zap.Error(err))
	}
}

// ChangeStatus stores the new status and notifies the submitter. A failed
// notification is logged and discarded.
func (d *Desk) ChangeStatus(ctx context.Context, id int64, status questions.Status) (questions.Question, error) {
	q, err := d.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return questions.Question{}, err
	}
	d.logger.Info("status changed", zap.Int64("question_id", q.ID), zap.String("status", string(q.Status)))

	if err := d.relay.NotifyUser(ctx, q); err != nil {
		d.logger.Warn("notify user of status change",
			zap.Int64("question_id", q.ID),
			zap.Int64("user_id", q.UserID),
			zap.Bool("blocked", errors.Is(err, relay.ErrRecipientBlocked)),
			zap.Error(err))
	}
	return q, nil
}

// SetStatusByName backs the manual override command.
func (d *Desk) SetStatusByName(ctx context.Context, id int64, name string) (questions.Question, error) {
	status, err := questions.ParseStatus(name)
	if err != nil {
		return questions.Question{}, err
	}
	return d.ChangeStatus(ctx, id, status)
}

// Page renders one page of the question list.
func (d *Desk) Page(ctx context.Context, page int, filter questions.Filter) (render.Page, error) {
	qs, err := d.store.List(ctx, filter.Statuses())
	if err != nil {
		return render.Page{}, err
	}
	return d.renderer.ListPage(qs, page, filter), nil
}

// Select resolves the index-th item of a rendered page. Stale indexes give
// questions.ErrNotFound.
func (d *Desk) Select(ctx context.Context, page, index int, filter questions.Filter) (questions.Question, error) {
	qs, err := d.store.List(ctx, filter.Statuses())
	if err != nil {
		return questions.Question{}, err
	}
	items, _ := d.renderer.Slice(qs, page, filter)
	if index < 0 || index >= len(items) {
		return questions.Question{}, questions.ErrNotFound
	}
	return items[index], nil
}

// ShowCard posts a question card, with its media, to the work chat.
func (d *Desk) ShowCard(ctx context.Context, q questions.Question) error {
	return d.relay.RelayToManagers(ctx, render.Card(q), q.Media, render.StatusKeyboard(q.ID))
}

// PostCard posts the card text and status buttons without media.
func (d *Desk) PostCard(ctx context.Context, q questions.Question) error {
	return d.relay.RelayToManagers(ctx, render.Card(q), nil, render.StatusKeyboard(q.ID))
}

// UpdateCard rewrites an existing card message after a status change. A card
// that was split on send is shortened to fit the one message being edited.
func (d *Desk) UpdateCard(ctx context.Context, ref relay.MessageRef, q questions.Question) error {
	return d.relay.EditWithRetry(ctx, ref, render.Truncate(render.Card(q), render.MaxMessageLen), render.StatusKeyboard(q.ID))
}

// RefreshList replaces a list message with another page.
func (d *Desk) RefreshList(ctx context.Context, ref relay.MessageRef, page int, filter questions.Filter) error {
	p, err := d.Page(ctx, page, filter)
	if err != nil {
		return err
	}
	return d.relay.EditWithRetry(ctx, ref, p.Text, p.Keyboard)
}

package relay

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/render"
)

type Relay struct {
	m          Messenger
	workChatID int64
	logger     *zap.Logger
	sleep      func(ctx context.Context, d time.Duration) error
}

func New(m Messenger, workChatID int64, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{m: m, workChatID: workChatID, logger: logger, sleep: sleepCtx}
}

func (r *Relay) WorkChatID() int64 {
	return r.workChatID
}

// RelayToManagers posts a question to the work chat. Photos and videos go
// first as one album, then documents and audio one by one, then the text
// carrying the keyboard, since albums cannot hold inline buttons. Text over
// the message limit goes out in several parts with the keyboard on the last.
func (r *Relay) RelayToManagers(ctx context.Context, text string, media []questions.Media, kb render.Keyboard) error {
	var visual, files []questions.Media
	for _, m := range media {
		switch m.Type {
		case questions.MediaPhoto, questions.MediaVideo:
			visual = append(visual, m)
		case questions.MediaDocument, questions.MediaAudio:
			files = append(files, m)
		default:
			r.logger.Warn("skipping unknown media type", zap.String("type", string(m.Type)))
		}
	}

	if len(visual) > 0 {
		if err := r.m.SendAlbum(ctx, r.workChatID, visual); err != nil {
			return &DeliveryError{ChatID: r.workChatID, Err: err}
		}
	}
	for _, f := range files {
		var err error
		if f.Type == questions.MediaDocument {
			err = r.m.SendDocument(ctx, r.workChatID, f.FileID)
		} else {
			err = r.m.SendAudio(ctx, r.workChatID, f.FileID)
		}
		if err != nil {
			return &DeliveryError{ChatID: r.workChatID, Err: err}
		}
	}

	parts := render.Split(text, render.MaxMessageLen)
	for i, part := range parts {
		var partKB render.Keyboard
		if i == len(parts)-1 {
			partKB = kb
		}
		if _, err := r.m.SendText(ctx, r.workChatID, part, partKB); err != nil {
			return &DeliveryError{ChatID: r.workChatID, Err: err}
		}
	}
	return nil
}

// NotifyUser tells the submitter that their question changed status.
func (r *Relay) NotifyUser(ctx context.Context, q questions.Question) error {
	if _, err := r.m.SendText(ctx, q.UserID, render.StatusNotice(q), nil); err != nil {
		return &DeliveryError{ChatID: q.UserID, Err: err}
	}
	return nil
}

// Reply sends a plain text message to any chat.
func (r *Relay) Reply(ctx context.Context, chatID int64, text string) error {
	if _, err := r.m.SendText(ctx, chatID, text, nil); err != nil {
		return &DeliveryError{ChatID: chatID, Err: err}
	}
	return nil
}

// EditWithRetry edits a message, honouring one flood-control wait.
func (r *Relay) EditWithRetry(ctx context.Context, ref MessageRef, text string, kb render.Keyboard) error {
	err := r.m.EditText(ctx, ref, text, kb)
	var flood *FloodError
	if !errors.As(err, &flood) {
		return err
	}

	r.logger.Warn("flood control, waiting before retry",
		zap.Int64("chat_id", ref.ChatID),
		zap.Duration("retry_after", flood.RetryAfter))
	if err := r.sleep(ctx, flood.RetryAfter); err != nil {
		return err
	}
	return r.m.EditText(ctx, ref, text, kb)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

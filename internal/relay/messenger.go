// Package relay forwards questions to the work chat and notices to users.
package relay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/render"
)

// MessageRef points at a message that may later be edited.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Messenger is the outbound side of the chat platform.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, kb render.Keyboard) (MessageRef, error)
	SendAlbum(ctx context.Context, chatID int64, media []questions.Media) error
	SendDocument(ctx context.Context, chatID int64, fileID string) error
	SendAudio(ctx context.Context, chatID int64, fileID string) error
	EditText(ctx context.Context, ref MessageRef, text string, kb render.Keyboard) error
}

// ErrRecipientBlocked means the user has blocked the bot.
var ErrRecipientBlocked = errors.New("recipient blocked the bot")

// FloodError is the platform asking the caller to slow down.
type FloodError struct {
	RetryAfter time.Duration
}

func (e *FloodError) Error() string {
	return fmt.Sprintf("flood control: retry after %s", e.RetryAfter)
}

// DeliveryError wraps a failed send to a particular chat.
type DeliveryError struct {
	ChatID int64
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to chat %d: %v", e.ChatID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

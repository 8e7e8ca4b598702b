package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/relay"
	"github.com/eliseohh/helpdeskbot/internal/render"
)

// Messenger implements relay.Messenger on top of the Bot API client.
type Messenger struct {
	api *tele.Bot
}

var _ relay.Messenger = (*Messenger)(nil)

func NewMessenger(api *tele.Bot) *Messenger {
	return &Messenger{api: api}
}

func (m *Messenger) SendText(ctx context.Context, chatID int64, text string, kb render.Keyboard) (relay.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return relay.MessageRef{}, err
	}
	msg, err := m.api.Send(tele.ChatID(chatID), text, sendOptions(kb)...)
	if err != nil {
		return relay.MessageRef{}, translateError(err)
	}
	return relay.MessageRef{ChatID: msg.Chat.ID, MessageID: msg.ID}, nil
}

func (m *Messenger) SendAlbum(ctx context.Context, chatID int64, media []questions.Media) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	album := buildAlbum(media)
	if len(album) == 0 {
		return nil
	}
	_, err := m.api.SendAlbum(tele.ChatID(chatID), album)
	return translateError(err)
}

func (m *Messenger) SendDocument(ctx context.Context, chatID int64, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.api.Send(tele.ChatID(chatID), &tele.Document{File: tele.File{FileID: fileID}})
	return translateError(err)
}

func (m *Messenger) SendAudio(ctx context.Context, chatID int64, fileID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := m.api.Send(tele.ChatID(chatID), &tele.Audio{File: tele.File{FileID: fileID}})
	return translateError(err)
}

func (m *Messenger) EditText(ctx context.Context, ref relay.MessageRef, text string, kb render.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tele.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}
	_, err := m.api.Edit(msg, text, sendOptions(kb)...)
	return translateError(err)
}

func buildAlbum(media []questions.Media) tele.Album {
	var album tele.Album
	for _, md := range media {
		switch md.Type {
		case questions.MediaPhoto:
			album = append(album, &tele.Photo{File: tele.File{FileID: md.FileID}})
		case questions.MediaVideo:
			album = append(album, &tele.Video{File: tele.File{FileID: md.FileID}})
		}
	}
	return album
}

// inlineMarkup converts a rendered keyboard. Buttons carry raw callback
// data with no unique prefix so every press reaches the OnCallback route.
func inlineMarkup(kb render.Keyboard) *tele.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		btns := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		rows = append(rows, btns)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func sendOptions(kb render.Keyboard) []interface{} {
	if markup := inlineMarkup(kb); markup != nil {
		return []interface{}{markup}
	}
	return nil
}

// translateError maps Bot API failures onto the relay error vocabulary.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var flood tele.FloodError
	if errors.As(err, &flood) {
		return &relay.FloodError{RetryAfter: time.Duration(flood.RetryAfter) * time.Second}
	}
	if errors.Is(err, tele.ErrBlockedByUser) || errors.Is(err, tele.ErrUserIsDeactivated) {
		return fmt.Errorf("%w: %v", relay.ErrRecipientBlocked, err)
	}
	return err
}

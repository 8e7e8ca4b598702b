package bot

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
	"gopkg.in/telebot.v3/middleware"

	"github.com/eliseohh/helpdeskbot/internal/album"
	"github.com/eliseohh/helpdeskbot/internal/desk"
	"github.com/eliseohh/helpdeskbot/internal/questions"
)

// Reply keyboard labels.
const (
	BtnAsk       = "Ask a question"
	BtnQuestions = "📋 Questions"
)

const (
	MsgWelcomeUser    = "Hello! Press the button below to ask a question."
	MsgWelcomeManager = "Manager menu."
	MsgAskPrompt      = "Write your question in one message"
	MsgWorkChatOnly   = "This command is available only in the work chat."
	MsgNoActive       = "No active questions."
	MsgStatusUsage    = "Usage: /status <id> <status>"
)

const updateTimeout = 30 * time.Second

type Bot struct {
	api    *tele.Bot
	desk   *desk.Desk
	agg    *album.Aggregator
	cfg    Config
	logger *zap.Logger
}

type Config struct {
	WorkChatID int64
}

// NewAPI creates the long-polling client. It is separate from New so the
// outbound Messenger can be built before the desk that needs it.
func NewAPI(token string, logger *zap.Logger) (*tele.Bot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c tele.Context) {
			logger.Error("update handler failed", zap.Error(err))
		},
	}
	return tele.NewBot(pref)
}

func New(api *tele.Bot, d *desk.Desk, agg *album.Aggregator, cfg Config, logger *zap.Logger) *Bot {
	if logger == nil {
		logger = zap.NewNop()
	}
	bot := &Bot{api: api, desk: d, agg: agg, cfg: cfg, logger: logger}
	bot.register()
	return bot
}

// Start blocks until Stop is called.
func (b *Bot) Start() {
	b.logger.Info("bot started", zap.String("username", b.api.Me.Username), zap.Int64("work_chat_id", b.cfg.WorkChatID))
	b.api.Start()
}

func (b *Bot) Stop() {
	b.api.Stop()
}

func (b *Bot) register() {
	b.api.Use(middleware.Recover())

	b.api.Handle("/start", b.handleStart)
	b.api.Handle(&tele.Btn{Text: BtnAsk}, b.handleAsk)

	// Intake
	for _, ev := range []string{tele.OnText, tele.OnPhoto, tele.OnVideo, tele.OnDocument, tele.OnAudio} {
		b.api.Handle(ev, b.handleIntake)
	}

	b.registerManager()
}

func (b *Bot) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), updateTimeout)
}

func (b *Bot) inWorkChat(c tele.Context) bool {
	return c.Chat() != nil && c.Chat().ID == b.cfg.WorkChatID
}

func isPrivate(c tele.Context) bool {
	return c.Chat() != nil && c.Chat().Type == tele.ChatPrivate
}

func (b *Bot) handleStart(c tele.Context) error {
	switch {
	case b.inWorkChat(c):
		return c.Send(MsgWelcomeManager, managerMenu())
	case isPrivate(c):
		return c.Send(MsgWelcomeUser, userMenu())
	}
	return nil
}

func (b *Bot) handleAsk(c tele.Context) error {
	if !isPrivate(c) {
		return nil
	}
	return c.Send(MsgAskPrompt)
}

// handleIntake feeds every private message into the aggregator. Parts of
// one media group are merged there before a question is created.
func (b *Bot) handleIntake(c tele.Context) error {
	m := c.Message()
	if m == nil || !isPrivate(c) || c.Sender() == nil {
		return nil
	}
	if strings.HasPrefix(m.Text, "/") {
		return nil
	}

	part := album.Part{
		ChatID:   m.Chat.ID,
		Username: c.Sender().Username,
		Text:     m.Text,
		Media:    messageMedia(m),
	}
	if part.Text == "" {
		part.Text = m.Caption
	}

	b.logger.Debug("intake part",
		zap.Int64("user_id", c.Sender().ID),
		zap.String("album_id", m.AlbumID),
		zap.Int("media", len(part.Media)))
	b.agg.Enqueue(c.Sender().ID, m.AlbumID, part)
	return nil
}

func messageMedia(m *tele.Message) []questions.Media {
	var media []questions.Media
	switch {
	case m.Photo != nil:
		media = append(media, questions.Media{Type: questions.MediaPhoto, FileID: m.Photo.FileID})
	case m.Video != nil:
		media = append(media, questions.Media{Type: questions.MediaVideo, FileID: m.Video.FileID})
	case m.Document != nil:
		media = append(media, questions.Media{Type: questions.MediaDocument, FileID: m.Document.FileID})
	case m.Audio != nil:
		media = append(media, questions.Media{Type: questions.MediaAudio, FileID: m.Audio.FileID})
	}
	return media
}

func userMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnAsk)))
	return menu
}

func managerMenu() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{ResizeKeyboard: true}
	menu.Reply(menu.Row(menu.Text(BtnQuestions)))
	return menu
}

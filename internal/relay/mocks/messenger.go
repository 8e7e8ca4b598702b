package mocks

import (
	"context"
	"sync"

	"github.com/eliseohh/helpdeskbot/internal/questions"
	"github.com/eliseohh/helpdeskbot/internal/relay"
	"github.com/eliseohh/helpdeskbot/internal/render"
)

// Call records one outbound request made through the mock messenger.
type Call struct {
	Method   string
	ChatID   int64
	Text     string
	Keyboard render.Keyboard
	Media    []questions.Media
	FileID   string
	Ref      relay.MessageRef
}

// MockMessenger records calls in order and returns queued errors.
type MockMessenger struct {
	mu     sync.Mutex
	calls  []Call
	nextID int

	// Errs maps a method name to errors returned by successive calls.
	Errs map[string][]error
	// FailChats makes SendText to these chats fail with the given error.
	FailChats map[int64]error
}

func NewMockMessenger() *MockMessenger {
	return &MockMessenger{
		Errs:      make(map[string][]error),
		FailChats: make(map[int64]error),
	}
}

func (m *MockMessenger) record(c Call) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	if errs := m.Errs[c.Method]; len(errs) > 0 {
		m.Errs[c.Method] = errs[1:]
		return errs[0]
	}
	return nil
}

func (m *MockMessenger) SendText(ctx context.Context, chatID int64, text string, kb render.Keyboard) (relay.MessageRef, error) {
	if err := m.record(Call{Method: "SendText", ChatID: chatID, Text: text, Keyboard: kb}); err != nil {
		return relay.MessageRef{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailChats[chatID]; ok {
		return relay.MessageRef{}, err
	}
	m.nextID++
	return relay.MessageRef{ChatID: chatID, MessageID: m.nextID}, nil
}

func (m *MockMessenger) SendAlbum(ctx context.Context, chatID int64, media []questions.Media) error {
	return m.record(Call{Method: "SendAlbum", ChatID: chatID, Media: media})
}

func (m *MockMessenger) SendDocument(ctx context.Context, chatID int64, fileID string) error {
	return m.record(Call{Method: "SendDocument", ChatID: chatID, FileID: fileID})
}

func (m *MockMessenger) SendAudio(ctx context.Context, chatID int64, fileID string) error {
	return m.record(Call{Method: "SendAudio", ChatID: chatID, FileID: fileID})
}

func (m *MockMessenger) EditText(ctx context.Context, ref relay.MessageRef, text string, kb render.Keyboard) error {
	return m.record(Call{Method: "EditText", ChatID: ref.ChatID, Ref: ref, Text: text, Keyboard: kb})
}

// Calls returns a snapshot of recorded calls.
func (m *MockMessenger) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallsTo returns the recorded calls addressed to chatID.
func (m *MockMessenger) CallsTo(chatID int64) []Call {
	var out []Call
	for _, c := range m.Calls() {
		if c.ChatID == chatID {
			out = append(out, c)
		}
	}
	return out
}

func (m *MockMessenger) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

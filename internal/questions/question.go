package questions

import "time"

type MediaType string

const (
	MediaPhoto    MediaType = "photo"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
	MediaAudio    MediaType = "audio"
)

// Media references a file already uploaded to the chat platform.
type Media struct {
	Type   MediaType `json:"type"`
	FileID string    `json:"file_id"`
}

// Question is a user submission awaiting manager attention.
type Question struct {
	ID        int64
	UserID    int64
	Username  string // empty when the user has no public handle
	Text      string
	Media     []Media
	Status    Status
	CreatedAt time.Time
}

// NewQuestion carries the caller-supplied fields of a question to be created.
type NewQuestion struct {
	UserID   int64
	Username string
	Text     string
	Media    []Media
}

// Handle returns "@username", or a placeholder for users without one.
func (q Question) Handle() string {
	if q.Username == "" {
		return "@user"
	}
	return "@" + q.Username
}

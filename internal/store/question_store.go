package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eliseohh/helpdeskbot/internal/questions"
)

const questionColumns = `id, user_id, username, text, media, status, created_at`

// QuestionStore persists questions in the questions table.
type QuestionStore struct {
	db  *DB
	now func() time.Time
}

func NewQuestionStore(db *DB) *QuestionStore {
	return &QuestionStore{db: db, now: time.Now}
}

func (s *QuestionStore) Create(ctx context.Context, nq questions.NewQuestion) (questions.Question, error) {
	media, err := encodeMedia(nq.Media)
	if err != nil {
		return questions.Question{}, err
	}
	createdAt := s.now().UTC()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (user_id, username, text, media, status, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		nq.UserID, nullString(nq.Username), nq.Text, media, string(questions.StatusNew), createdAt)
	if err != nil {
		return questions.Question{}, fmt.Errorf("insert question: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return questions.Question{}, fmt.Errorf("insert question: %w", err)
	}

	return questions.Question{
		ID:        id,
		UserID:    nq.UserID,
		Username:  nq.Username,
		Text:      nq.Text,
		Media:     append([]questions.Media(nil), nq.Media...),
		Status:    questions.StatusNew,
		CreatedAt: createdAt,
	}, nil
}

func (s *QuestionStore) Get(ctx context.Context, id int64) (questions.Question, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return questions.Question{}, questions.ErrNotFound
		}
		return questions.Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// List returns questions oldest first. An empty filter returns every status.
func (s *QuestionStore) List(ctx context.Context, filter []questions.Status) ([]questions.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	args := make([]any, 0, len(filter))
	if len(filter) > 0 {
		marks := make([]string, len(filter))
		for i, st := range filter {
			marks[i] = "?"
			args = append(args, string(st))
		}
		query += ` WHERE status IN (` + strings.Join(marks, ", ") + `)`
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var out []questions.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return out, nil
}

// UpdateStatus sets the status of one question inside its own transaction.
func (s *QuestionStore) UpdateStatus(ctx context.Context, id int64, status questions.Status) (questions.Question, error) {
	if !status.Valid() {
		return questions.Question{}, &questions.ValidationError{Field: "status", Value: string(status), Reason: "unknown status"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return questions.Question{}, err
	}
	defer tx.Rollback()

	q, err := scanQuestion(tx.QueryRowContext(ctx, `SELECT `+questionColumns+` FROM questions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return questions.Question{}, questions.ErrNotFound
		}
		return questions.Question{}, fmt.Errorf("get question %d: %w", id, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE questions SET status = ? WHERE id = ?`, string(status), id); err != nil {
		return questions.Question{}, fmt.Errorf("update question %d: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return questions.Question{}, err
	}

	q.Status = status
	return q, nil
}

// CountByStatus reports how many questions sit in each status.
func (s *QuestionStore) CountByStatus(ctx context.Context) (map[questions.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM questions GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	counts := make(map[questions.Status]int)
	for _, st := range questions.Statuses() {
		counts[st] = 0
	}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		counts[questions.Status(st)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(sc scanner) (questions.Question, error) {
	var (
		q        questions.Question
		username sql.NullString
		media    sql.NullString
		status   string
	)
	if err := sc.Scan(&q.ID, &q.UserID, &username, &q.Text, &media, &status, &q.CreatedAt); err != nil {
		return questions.Question{}, err
	}
	q.Username = username.String
	q.Status = questions.Status(status)
	if media.Valid && media.String != "" {
		if err := json.Unmarshal([]byte(media.String), &q.Media); err != nil {
			return questions.Question{}, fmt.Errorf("decode media of question %d: %w", q.ID, err)
		}
	}
	return q, nil
}

func encodeMedia(media []questions.Media) (sql.NullString, error) {
	if len(media) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(media)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode media: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

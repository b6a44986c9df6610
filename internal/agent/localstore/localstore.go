// Package localstore реализует локальное хранилище агента на SQLite.
//
// Хранилище переживает перезапуски устройства и служит источником истины,
// пока удаленный сервер недоступен. Подписки хранятся как JSON-документы,
// очередь отложенной отправки — отдельной таблицей с одной записью на email.
package localstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS subscriptions (
	id       TEXT PRIMARY KEY,
	email    TEXT NOT NULL,
	position INTEGER NOT NULL,
	data     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_subscriptions_email ON subscriptions(email);

CREATE TABLE IF NOT EXISTS flush_queue (
	email      TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL
);
`

// Store локальное SQLite-хранилище подписок и очереди отправки.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open открывает (при необходимости создает) базу по указанному пути.
func Open(path string, log *slog.Logger) (*Store, error) {
	const op = "agent.localstore.Open"

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db, log: log}, nil
}

// Close закрывает базу.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadLocal возвращает локальный список подписок пользователя в том порядке,
// в котором он был сохранен. Ошибки чтения не фатальны: поврежденные записи
// пропускаются, при недоступности базы возвращается пустой список.
func (s *Store) LoadLocal(ctx context.Context, email string) []models.Subscription {
	const op = "agent.localstore.LoadLocal"

	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM subscriptions WHERE email = ? ORDER BY position", email)
	if err != nil {
		s.log.Error("failed to query local subscriptions", slog.String("op", op), sl.Err(err))
		return []models.Subscription{}
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Subscription{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			s.log.Error("failed to scan row", slog.String("op", op), sl.Err(err))
			continue
		}
		var sub models.Subscription
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			s.log.Error("skipping corrupted record", slog.String("op", op), sl.Err(err))
			continue
		}
		result = append(result, sub)
	}
	if err := rows.Err(); err != nil {
		s.log.Error("failed to iterate rows", slog.String("op", op), sl.Err(err))
	}
	return result
}

// SaveLocal полностью заменяет локальный список подписок пользователя.
func (s *Store) SaveLocal(ctx context.Context, email string, subs []models.Subscription) error {
	const op = "agent.localstore.SaveLocal"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE email = ?", email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	for i, sub := range subs {
		raw, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO subscriptions (id, email, position, data) VALUES (?, ?, ?, ?)",
			sub.ID, email, i, string(raw)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Enqueue добавляет задание на отправку в очередь. Повторная постановка
// для того же email обновляет отметку времени, дубликаты не создаются.
func (s *Store) Enqueue(ctx context.Context, job models.FlushJob) error {
	const op = "agent.localstore.Enqueue"

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO flush_queue (email, created_at) VALUES (?, ?)
		ON CONFLICT(email) DO UPDATE SET created_at = excluded.created_at`,
		job.Email, job.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Queue возвращает все задания очереди отправки.
func (s *Store) Queue(ctx context.Context) ([]models.FlushJob, error) {
	const op = "agent.localstore.Queue"

	rows, err := s.db.QueryContext(ctx,
		"SELECT email, created_at FROM flush_queue ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var jobs []models.FlushJob
	for rows.Next() {
		var email, createdAt string
		if err := rows.Scan(&email, &createdAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ts, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		jobs = append(jobs, models.FlushJob{ID: email, Email: email, CreatedAt: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return jobs, nil
}

// ClearQueue удаляет все задания очереди отправки.
func (s *Store) ClearQueue(ctx context.Context) error {
	const op = "agent.localstore.ClearQueue"

	if _, err := s.db.ExecContext(ctx, "DELETE FROM flush_queue"); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

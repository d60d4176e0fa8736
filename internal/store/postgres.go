package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{db: db}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) migrate(ctx context.Context) error {
	// Gateway and narrator start together; the advisory lock keeps one migrating.
	const lockID = 727274 // arbitrary number for this application's migration lock

	var acquired bool
	err := s.db.QueryRowContext(ctx, `SELECT pg_try_advisory_lock($1)`, lockID).Scan(&acquired)
	if err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	if !acquired {
		// Another service is running migrations; wait briefly and skip
		time.Sleep(2 * time.Second)
		return nil
	}
	defer func() {
		_, _ = s.db.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, lockID)
	}()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stories (
			id UUID PRIMARY KEY,
			topic TEXT NOT NULL,
			plan TEXT[] NOT NULL,
			parts TEXT[] NOT NULL,
			narration_status TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE TABLE IF NOT EXISTS narrations (
			story_id UUID PRIMARY KEY REFERENCES stories(id) ON DELETE CASCADE,
			audio BYTEA NOT NULL,
			content_type TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT now()
		);`,
		`CREATE INDEX IF NOT EXISTS stories_created_at_idx ON stories (created_at DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *PostgresStore) CreateStory(ctx context.Context, topic string, plan, parts []string, status NarrationStatus) (Story, error) {
	id := uuid.New()
	now := time.Now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO stories(id, topic, plan, parts, narration_status, created_at) VALUES($1,$2,$3,$4,$5,$6)`,
		id, topic, pq.Array(plan), pq.Array(parts), status, now)
	if err != nil {
		return Story{}, err
	}
	return Story{ID: id, Topic: topic, Plan: plan, Parts: parts, NarrationStatus: status, CreatedAt: now}, nil
}

func (s *PostgresStore) GetStory(ctx context.Context, id uuid.UUID) (Story, error) {
	st := Story{ID: id}
	var status string
	row := s.db.QueryRowContext(ctx,
		`SELECT topic, plan, parts, narration_status, created_at FROM stories WHERE id=$1`, id)
	if err := row.Scan(&st.Topic, pq.Array(&st.Plan), pq.Array(&st.Parts), &status, &st.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Story{}, ErrStoryNotFound
		}
		return Story{}, fmt.Errorf("failed to get story %s: %w", id, err)
	}
	st.NarrationStatus = NarrationStatus(status)
	return st, nil
}

func (s *PostgresStore) UpdateNarrationStatus(ctx context.Context, id uuid.UUID, status NarrationStatus) error {
	res, err := s.db.ExecContext(ctx, `UPDATE stories SET narration_status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotFound
	}
	return nil
}

// SaveAudio stores the narration and marks the story ready in one transaction.
func (s *PostgresStore) SaveAudio(ctx context.Context, audio Audio) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO narrations(story_id, audio, content_type)
		VALUES($1,$2,$3)
		ON CONFLICT (story_id) DO UPDATE SET audio=excluded.audio, content_type=excluded.content_type, created_at=now()`,
		audio.StoryID, audio.Data, audio.ContentType)
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `UPDATE stories SET narration_status=$1 WHERE id=$2`, NarrationReady, audio.StoryID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStoryNotFound
	}
	return tx.Commit()
}

func (s *PostgresStore) GetAudio(ctx context.Context, id uuid.UUID) (Audio, error) {
	a := Audio{StoryID: id}
	row := s.db.QueryRowContext(ctx, `SELECT audio, content_type FROM narrations WHERE story_id=$1`, id)
	if err := row.Scan(&a.Data, &a.ContentType); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Audio{}, ErrAudioNotFound
		}
		return Audio{}, fmt.Errorf("failed to get audio for story %s: %w", id, err)
	}
	return a, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

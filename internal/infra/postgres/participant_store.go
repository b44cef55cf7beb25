package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"study-session-service/internal/domain"
)

// ParticipantStore reads participant progress rows.
type ParticipantStore struct {
	pool *pgxpool.Pool
}

func NewParticipantStore(pool *pgxpool.Pool) *ParticipantStore {
	return &ParticipantStore{pool: pool}
}

func (s *ParticipantStore) GetProgress(ctx context.Context, userID string) (*domain.ParticipantProgress, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT user_id, consent_completed, pre_quiz_completed, interaction_completed,
		       post_quiz_completed, post_quiz_completed_at, study_completed
		FROM participants WHERE user_id=$1`, userID)
	progress, err := scanProgress(row)
	if err == pgx.ErrNoRows {
		return nil, domain.ErrParticipantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load participant: %w", err)
	}
	return progress, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProgress(row rowScanner) (*domain.ParticipantProgress, error) {
	var p domain.ParticipantProgress
	err := row.Scan(
		&p.UserID,
		&p.ConsentCompleted,
		&p.PreQuizCompleted,
		&p.InteractionCompleted,
		&p.PostQuizCompleted,
		&p.PostQuizCompletedAt,
		&p.StudyCompleted,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

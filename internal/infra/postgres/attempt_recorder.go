package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"study-session-service/internal/domain"
)

// AttemptRecorder persists finalized attempts and advances the participant's
// progress flags in one transaction. Flags only ever move forward; the SQL
// uses OR so a repeated completion cannot revert anything.
type AttemptRecorder struct {
	pool *pgxpool.Pool
}

func NewAttemptRecorder(pool *pgxpool.Pool) *AttemptRecorder {
	return &AttemptRecorder{pool: pool}
}

func (r *AttemptRecorder) RecordAttempt(ctx context.Context, attempt domain.QuizAttempt) (*domain.ParticipantProgress, error) {
	payload, err := json.Marshal(attempt)
	if err != nil {
		return nil, fmt.Errorf("marshal attempt: %w", err)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO quiz_attempts (session_id, user_id, phase, data, completed_at)
		VALUES ($1, $2, $3, $4, $5)`,
		attempt.SessionID, attempt.UserID, string(attempt.Phase), payload, attempt.CompletedAt)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO participants (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, attempt.UserID)
	if err != nil {
		return nil, fmt.Errorf("ensure participant: %w", err)
	}

	switch attempt.Phase {
	case domain.PhasePreAssessment:
		_, err = tx.Exec(ctx, `
			UPDATE participants SET pre_quiz_completed = TRUE WHERE user_id=$1`, attempt.UserID)
	case domain.PhaseImmediateRecall:
		_, err = tx.Exec(ctx, `
			UPDATE participants
			SET post_quiz_completed = TRUE,
			    post_quiz_completed_at = COALESCE(post_quiz_completed_at, $2)
			WHERE user_id=$1`, attempt.UserID, attempt.CompletedAt)
	case domain.PhaseTransfer:
		_, err = tx.Exec(ctx, `
			UPDATE participants SET study_completed = TRUE WHERE user_id=$1`, attempt.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("advance progress: %w", err)
	}

	row := tx.QueryRow(ctx, `
		SELECT user_id, consent_completed, pre_quiz_completed, interaction_completed,
		       post_quiz_completed, post_quiz_completed_at, study_completed
		FROM participants WHERE user_id=$1`, attempt.UserID)
	progress, err := scanProgress(row)
	if err != nil {
		return nil, fmt.Errorf("reload participant: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return progress, nil
}

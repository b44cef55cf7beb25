package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"study-session-service/internal/domain"
)

// ContentLoader loads per-phase quiz content stored as JSONB.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadContent(ctx context.Context, phase domain.Phase) (domain.QuizContent, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM phase_quizzes WHERE phase=$1`, string(phase)).Scan(&raw)
	if err == pgx.ErrNoRows {
		return domain.QuizContent{}, domain.ErrContentNotFound
	}
	if err != nil {
		return domain.QuizContent{}, fmt.Errorf("load quiz content: %w", err)
	}
	var content domain.QuizContent
	if err := json.Unmarshal(raw, &content); err != nil {
		return domain.QuizContent{}, fmt.Errorf("unmarshal quiz content: %w", err)
	}
	return content, nil
}

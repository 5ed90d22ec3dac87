package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"kyoto-kentei/internal/domain"
	"kyoto-kentei/internal/infra/bank"
)

// QuestionLoader loads the question bank from the questions table, where each
// row keeps its bank entry as JSONB.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

func (l *QuestionLoader) LoadQuestions(ctx context.Context) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM questions ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("%w: query questions: %v", domain.ErrQuestionBankLoad, err)
	}
	defer rows.Close()

	var doc bank.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("%w: scan question: %v", domain.ErrQuestionBankLoad, err)
		}
		var entry bank.Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			return nil, fmt.Errorf("%w: unmarshal question: %v", domain.ErrQuestionBankLoad, err)
		}
		doc.Questions = append(doc.Questions, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read questions: %v", domain.ErrQuestionBankLoad, err)
	}
	return doc.ToQuestions()
}

// ImportQuestions upserts every entry of doc in one transaction, keeping the
// document order. Entries are validated first; nothing is written if any fails.
// With replace set, rows missing from doc are deleted.
func ImportQuestions(ctx context.Context, pool *pgxpool.Pool, doc bank.Document, replace bool) (int, error) {
	if _, err := doc.ToQuestions(); err != nil {
		return 0, err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if replace {
		if _, err := tx.Exec(ctx, `DELETE FROM questions`); err != nil {
			return 0, fmt.Errorf("clear questions: %w", err)
		}
	}

	batch := &pgx.Batch{}
	for i, e := range doc.Questions {
		data, err := json.Marshal(e)
		if err != nil {
			return 0, fmt.Errorf("marshal question %s: %w", e.ID, err)
		}
		batch.Queue(`
			INSERT INTO questions (id, level, category, position, data, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (id) DO UPDATE SET
				level = EXCLUDED.level,
				category = EXCLUDED.category,
				position = EXCLUDED.position,
				data = EXCLUDED.data,
				updated_at = now()`,
			e.ID, e.Level, e.Category, i, data)
	}
	results := tx.SendBatch(ctx, batch)
	for range doc.Questions {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return 0, fmt.Errorf("upsert question: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return 0, fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(doc.Questions), nil
}

package s3_sentiment

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Repository handles data persistence for S3
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveCombined saves blended sentiment values for a run date
func (r *Repository) SaveCombined(ctx context.Context, runDate string, combined map[string]contracts.CombinedSentiment) error {
	query := `
		INSERT INTO data.ticker_sentiment (
			run_date,
			ticker,
			news_mean,
			news_count,
			forum_mean,
			forum_count,
			final_sentiment,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (run_date, ticker) DO UPDATE SET
			news_mean = EXCLUDED.news_mean,
			news_count = EXCLUDED.news_count,
			forum_mean = EXCLUDED.forum_mean,
			forum_count = EXCLUDED.forum_count,
			final_sentiment = EXCLUDED.final_sentiment,
			created_at = NOW()
	`

	for ticker, c := range combined {
		_, err := r.db.Exec(ctx, query,
			runDate,
			ticker,
			c.NewsMean,
			c.NewsCount,
			c.ForumMean,
			c.ForumCount,
			c.Final,
		)
		if err != nil {
			return fmt.Errorf("insert sentiment for %s: %w", ticker, err)
		}
	}
	return nil
}

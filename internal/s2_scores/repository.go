package s2_scores

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Repository handles data persistence for S2
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveScores saves accounting scores for a run date
func (r *Repository) SaveScores(ctx context.Context, runDate string, scores map[string]TickerScores) error {
	query := `
		INSERT INTO data.ticker_scores (
			run_date,
			ticker,
			f_score,
			f_score_valid,
			m_score,
			m_score_valid,
			m_indices,
			accounting_risk,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (run_date, ticker) DO UPDATE SET
			f_score = EXCLUDED.f_score,
			f_score_valid = EXCLUDED.f_score_valid,
			m_score = EXCLUDED.m_score,
			m_score_valid = EXCLUDED.m_score_valid,
			m_indices = EXCLUDED.m_indices,
			accounting_risk = EXCLUDED.accounting_risk,
			created_at = NOW()
	`

	for ticker, s := range scores {
		indicesJSON, err := json.Marshal(s.MScore.Indices)
		if err != nil {
			return fmt.Errorf("marshal indices for %s: %w", ticker, err)
		}
		_, err = r.db.Exec(ctx, query,
			runDate,
			ticker,
			s.FScore.Value,
			s.FScore.Valid,
			s.MScore.Value,
			s.MScore.Valid,
			indicesJSON,
			string(s.MScore.Flag()),
		)
		if err != nil {
			return fmt.Errorf("insert scores for %s: %w", ticker, err)
		}
	}
	return nil
}

// SaveTechnicals saves technical snapshots for a run date
func (r *Repository) SaveTechnicals(ctx context.Context, runDate string, snaps map[string]contracts.TechnicalSnapshot) error {
	query := `
		INSERT INTO data.ticker_technicals (
			run_date,
			ticker,
			price,
			rsi_14,
			sma_50,
			sma_200,
			rsi_estimated,
			signal,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (run_date, ticker) DO UPDATE SET
			price = EXCLUDED.price,
			rsi_14 = EXCLUDED.rsi_14,
			sma_50 = EXCLUDED.sma_50,
			sma_200 = EXCLUDED.sma_200,
			rsi_estimated = EXCLUDED.rsi_estimated,
			signal = EXCLUDED.signal,
			created_at = NOW()
	`

	for ticker, s := range snaps {
		_, err := r.db.Exec(ctx, query,
			runDate,
			ticker,
			s.Price,
			s.DisplayRSI(),
			s.SMA50,
			s.SMA200,
			s.RSIEstimated,
			string(s.State),
		)
		if err != nil {
			return fmt.Errorf("insert technicals for %s: %w", ticker, err)
		}
	}
	return nil
}

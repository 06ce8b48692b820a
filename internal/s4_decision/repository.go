package s4_decision

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Repository handles data persistence for S4
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveReport saves the final ranked report and its integrity summary
func (r *Repository) SaveReport(ctx context.Context, runDate string, rows []contracts.ReportRow, integrity contracts.IntegrityReport) error {
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal report rows: %w", err)
	}
	failuresJSON, err := json.Marshal(integrity.Failures)
	if err != nil {
		return fmt.Errorf("marshal failures: %w", err)
	}

	query := `
		INSERT INTO data.decision_reports (
			run_date,
			rows,
			row_count,
			total,
			succeeded,
			failed,
			failures,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (run_date) DO UPDATE SET
			rows = EXCLUDED.rows,
			row_count = EXCLUDED.row_count,
			total = EXCLUDED.total,
			succeeded = EXCLUDED.succeeded,
			failed = EXCLUDED.failed,
			failures = EXCLUDED.failures,
			created_at = NOW()
	`

	_, err = r.db.Exec(ctx, query,
		runDate,
		rowsJSON,
		len(rows),
		integrity.Total,
		integrity.Succeeded,
		integrity.Failed,
		failuresJSON,
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetLatestReport retrieves the most recent report with its integrity summary
func (r *Repository) GetLatestReport(ctx context.Context) ([]contracts.ReportRow, contracts.IntegrityReport, error) {
	query := `
		SELECT run_date, rows, total, succeeded, failed, failures, created_at
		FROM data.decision_reports
		ORDER BY run_date DESC
		LIMIT 1
	`

	var (
		runDate      string
		rowsJSON     []byte
		failuresJSON []byte
		integrity    contracts.IntegrityReport
	)
	err := r.db.QueryRow(ctx, query).Scan(
		&runDate,
		&rowsJSON,
		&integrity.Total,
		&integrity.Succeeded,
		&integrity.Failed,
		&failuresJSON,
		&integrity.RunAt,
	)
	if err != nil {
		return nil, contracts.IntegrityReport{}, fmt.Errorf("query latest report: %w", err)
	}

	var rows []contracts.ReportRow
	if err := json.Unmarshal(rowsJSON, &rows); err != nil {
		return nil, contracts.IntegrityReport{}, fmt.Errorf("unmarshal rows: %w", err)
	}
	if len(failuresJSON) > 0 {
		if err := json.Unmarshal(failuresJSON, &integrity.Failures); err != nil {
			return nil, contracts.IntegrityReport{}, fmt.Errorf("unmarshal failures: %w", err)
		}
	}
	return rows, integrity, nil
}

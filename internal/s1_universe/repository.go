package s1_universe

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/vquant/backend/internal/contracts"
)

// Repository handles data persistence for S1
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new Repository instance
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// SaveUniverse saves a universe snapshot to the database
func (r *Repository) SaveUniverse(ctx context.Context, universe *contracts.Universe) error {
	rowsJSON, err := json.Marshal(universe.Rows)
	if err != nil {
		return fmt.Errorf("marshal rows: %w", err)
	}
	ranksJSON, err := json.Marshal(universe.Ranks)
	if err != nil {
		return fmt.Errorf("marshal ranks: %w", err)
	}
	sectorsJSON, err := json.Marshal(universe.Sectors)
	if err != nil {
		return fmt.Errorf("marshal sectors: %w", err)
	}

	query := `
		INSERT INTO data.universe_snapshots (
			snapshot_date,
			rows,
			ranks,
			sectors,
			total_count,
			created_at
		) VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (snapshot_date) DO UPDATE SET
			rows = EXCLUDED.rows,
			ranks = EXCLUDED.ranks,
			sectors = EXCLUDED.sectors,
			total_count = EXCLUDED.total_count,
			created_at = NOW()
	`

	_, err = r.db.Exec(ctx, query,
		universe.Date,
		rowsJSON,
		ranksJSON,
		sectorsJSON,
		len(universe.Rows),
	)
	if err != nil {
		return fmt.Errorf("insert universe: %w", err)
	}

	return nil
}

// GetLatestUniverse retrieves the most recent universe snapshot
func (r *Repository) GetLatestUniverse(ctx context.Context) (*contracts.Universe, error) {
	query := `
		SELECT
			snapshot_date,
			rows,
			ranks,
			sectors
		FROM data.universe_snapshots
		ORDER BY snapshot_date DESC
		LIMIT 1
	`

	universe := &contracts.Universe{}

	var rowsJSON, ranksJSON, sectorsJSON []byte
	err := r.db.QueryRow(ctx, query).Scan(
		&universe.Date,
		&rowsJSON,
		&ranksJSON,
		&sectorsJSON,
	)
	if err != nil {
		return nil, fmt.Errorf("query latest universe: %w", err)
	}

	if err := json.Unmarshal(rowsJSON, &universe.Rows); err != nil {
		return nil, fmt.Errorf("unmarshal rows: %w", err)
	}
	if err := json.Unmarshal(ranksJSON, &universe.Ranks); err != nil {
		return nil, fmt.Errorf("unmarshal ranks: %w", err)
	}
	if err := json.Unmarshal(sectorsJSON, &universe.Sectors); err != nil {
		return nil, fmt.Errorf("unmarshal sectors: %w", err)
	}

	return universe, nil
}

// SaveTargets saves the conviction-screened target list for a run date
func (r *Repository) SaveTargets(ctx context.Context, runDate string, targets []Target) error {
	targetsJSON, err := json.Marshal(targets)
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	query := `
		INSERT INTO data.target_lists (run_date, targets, total_count, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (run_date) DO UPDATE SET
			targets = EXCLUDED.targets,
			total_count = EXCLUDED.total_count,
			created_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, runDate, targetsJSON, len(targets)); err != nil {
		return fmt.Errorf("insert targets: %w", err)
	}
	return nil
}

package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-editor/internal/models"
)

// VariantRepository persists the per-level variant list. Writes happen on
// the fire-and-forget side channel after each accepted edit, so the whole
// list is replaced atomically rather than diffed.
type VariantRepository struct {
	db *sqlx.DB
}

// NewVariantRepository constructs repository.
func NewVariantRepository(db *sqlx.DB) *VariantRepository {
	return &VariantRepository{db: db}
}

// Load returns the stored variant grids oldest-first plus the selected
// position, -1 when no variant is marked selected.
func (r *VariantRepository) Load(ctx context.Context, level string) ([]models.Grid, int, error) {
	const query = `SELECT id, level, position, selected, grid, created_at, updated_at
FROM schedule_variants WHERE level = $1 ORDER BY position`
	var records []models.VariantRecord
	if err := r.db.SelectContext(ctx, &records, query, level); err != nil {
		return nil, -1, fmt.Errorf("load schedule variants: %w", err)
	}

	grids := make([]models.Grid, 0, len(records))
	selected := -1
	for i, record := range records {
		var cells [][][]int
		if err := json.Unmarshal(record.Grid, &cells); err != nil {
			return nil, -1, fmt.Errorf("decode variant %s: %w", record.ID, err)
		}
		grid, err := models.GridFromCells(cells)
		if err != nil {
			return nil, -1, fmt.Errorf("decode variant %s: %w", record.ID, err)
		}
		grids = append(grids, grid)
		if record.Selected {
			selected = i
		}
	}
	return grids, selected, nil
}

// Save replaces the stored variant list for the level inside one
// transaction.
func (r *VariantRepository) Save(ctx context.Context, level string, grids []models.Grid, selected int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin variant save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_variants WHERE level = $1`, level); err != nil {
		return fmt.Errorf("clear schedule variants: %w", err)
	}

	now := time.Now().UTC()
	const insertQuery = `
INSERT INTO schedule_variants (id, level, position, selected, grid, created_at, updated_at)
VALUES (:id, :level, :position, :selected, :grid, :created_at, :updated_at)`
	for position, grid := range grids {
		payload, err := json.Marshal(grid.Cells())
		if err != nil {
			return fmt.Errorf("encode variant at position %d: %w", position, err)
		}
		record := models.VariantRecord{
			ID:        uuid.NewString(),
			Level:     level,
			Position:  position,
			Selected:  position == selected,
			Grid:      types.JSONText(payload),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := sqlx.NamedExecContext(ctx, tx, insertQuery, record); err != nil {
			return fmt.Errorf("insert variant at position %d: %w", position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit variant save: %w", err)
	}
	return nil
}

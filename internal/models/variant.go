package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// VariantRecord is the persisted form of one stored schedule variant.
// The grid is serialized as its raw cells array in the grid column.
type VariantRecord struct {
	ID        string         `db:"id" json:"id"`
	Level     string         `db:"level" json:"level"`
	Position  int            `db:"position" json:"position"`
	Selected  bool           `db:"selected" json:"selected"`
	Grid      types.JSONText `db:"grid" json:"grid"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

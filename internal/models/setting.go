package models

import (
	"database/sql"
	"time"
)

// Setting is the database representation of an admin-configurable setting.
type Setting struct {
	Key           string         `db:"key"`
	Value         string         `db:"value"`
	Description   sql.NullString `db:"description"`
	LastUpdatedAt time.Time      `db:"last_updated_at"`
	LastUpdatedBy sql.NullString `db:"last_updated_by"`
}

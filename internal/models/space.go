package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Space is the database representation of a bookable unit.
// Amenities map to a text[] column.
type Space struct {
	SpaceID     string          `db:"space_id"`
	Name        string          `db:"name"`
	Type        string          `db:"type"`
	Capacity    int             `db:"capacity"`
	HourlyRate  decimal.Decimal `db:"hourly_rate"`
	Amenities   []string        `db:"amenities"`
	Description sql.NullString  `db:"description"`
	Location    sql.NullString  `db:"location"`
	ImageURL    sql.NullString  `db:"image_url"`
	IsAvailable bool            `db:"is_available"`
	Status      string          `db:"status"`
	AuditFields
}

package postgres

import (
	"time"

	"github.com/lib/pq"
)

type officialTableModel struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Level            string         `db:"level"`
	AllowedDivisions pq.StringArray `db:"allowed_divisions"`
	HomeLatitude     float64        `db:"home_latitude"`
	HomeLongitude    float64        `db:"home_longitude"`
	HomePostalCode   string         `db:"home_postal_code"`
	HomeLabel        string         `db:"home_label"`
	MaxDistance      float64        `db:"max_distance"`
	IsAvailable      bool           `db:"is_available"`
	BaseWage         float64        `db:"base_wage"`
	Capabilities     pq.StringArray `db:"capabilities"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

type officialInsertModel struct {
	ID               string         `db:"id"`
	Name             string         `db:"name"`
	Level            string         `db:"level"`
	AllowedDivisions pq.StringArray `db:"allowed_divisions"`
	HomeLatitude     float64        `db:"home_latitude"`
	HomeLongitude    float64        `db:"home_longitude"`
	HomePostalCode   string         `db:"home_postal_code"`
	HomeLabel        string         `db:"home_label"`
	MaxDistance      float64        `db:"max_distance"`
	IsAvailable      bool           `db:"is_available"`
	BaseWage         float64        `db:"base_wage"`
	Capabilities     pq.StringArray `db:"capabilities"`
}

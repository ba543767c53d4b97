package postgres

import (
	"time"

	"github.com/lib/pq"
)

type assignmentTableModel struct {
	ID             string         `db:"id"`
	GameID         string         `db:"game_id"`
	OfficialID     string         `db:"official_id"`
	Position       string         `db:"position"`
	Status         string         `db:"status"`
	Origin         string         `db:"origin"`
	CreatedBy      string         `db:"created_by"`
	CalculatedWage float64        `db:"calculated_wage"`
	WageMultiplier float64        `db:"wage_multiplier"`
	WageReason     string         `db:"wage_reason"`
	Warnings       pq.StringArray `db:"warnings"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// assignmentInsertModel carries explicit timestamps so stored rows match
// the clock the use case stamped them with.
type assignmentInsertModel struct {
	ID             string         `db:"id"`
	GameID         string         `db:"game_id"`
	OfficialID     string         `db:"official_id"`
	Position       string         `db:"position"`
	Status         string         `db:"status"`
	Origin         string         `db:"origin"`
	CreatedBy      string         `db:"created_by"`
	CalculatedWage float64        `db:"calculated_wage"`
	WageMultiplier float64        `db:"wage_multiplier"`
	WageReason     string         `db:"wage_reason"`
	Warnings       pq.StringArray `db:"warnings"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type heldRowModel struct {
	AssignmentID string    `db:"assignment_id"`
	GameID       string    `db:"game_id"`
	StartAt      time.Time `db:"start_at"`
	EndAt        time.Time `db:"end_at"`
	Status       string    `db:"status"`
}

type activeSlotModel struct {
	OfficialID string `db:"official_id"`
	Position   string `db:"position"`
}

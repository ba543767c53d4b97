package postgres

import "time"

type gameTableModel struct {
	ID               string    `db:"id"`
	ScheduleID       string    `db:"schedule_id"`
	HomeTeamID       string    `db:"home_team_id"`
	AwayTeamID       string    `db:"away_team_id"`
	Division         string    `db:"division"`
	StartAt          time.Time `db:"start_at"`
	EndAt            time.Time `db:"end_at"`
	VenueLatitude    float64   `db:"venue_latitude"`
	VenueLongitude   float64   `db:"venue_longitude"`
	VenuePostalCode  string    `db:"venue_postal_code"`
	VenueLabel       string    `db:"venue_label"`
	PositionsNeeded  int       `db:"positions_needed"`
	WageMultiplier   float64   `db:"wage_multiplier"`
	MultiplierReason string    `db:"multiplier_reason"`
	Status           string    `db:"status"`
	Round            int       `db:"round"`
	Stage            string    `db:"stage"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

type gameInsertModel struct {
	ID               string    `db:"id"`
	ScheduleID       string    `db:"schedule_id"`
	HomeTeamID       string    `db:"home_team_id"`
	AwayTeamID       string    `db:"away_team_id"`
	Division         string    `db:"division"`
	StartAt          time.Time `db:"start_at"`
	EndAt            time.Time `db:"end_at"`
	VenueLatitude    float64   `db:"venue_latitude"`
	VenueLongitude   float64   `db:"venue_longitude"`
	VenuePostalCode  string    `db:"venue_postal_code"`
	VenueLabel       string    `db:"venue_label"`
	PositionsNeeded  int       `db:"positions_needed"`
	WageMultiplier   float64   `db:"wage_multiplier"`
	MultiplierReason string    `db:"multiplier_reason"`
	Status           string    `db:"status"`
	Round            int       `db:"round"`
	Stage            string    `db:"stage"`
}

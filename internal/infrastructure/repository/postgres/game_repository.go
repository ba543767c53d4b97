package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/synced-sports/internal/domain/game"
	"github.com/riskibarqy/synced-sports/internal/domain/location"
	qb "github.com/riskibarqy/synced-sports/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id string) (game.Game, bool, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game: %w", err)
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]game.Game, error) {
	query, args, err := gameBaseSelectBuilder().
		Where(qb.Eq("schedule_id", scheduleID)).
		OrderBy("start_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list games by schedule query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list games by schedule: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

// CreateBatch inserts every game in one statement, so a duplicate id
// leaves nothing behind.
func (r *GameRepository) CreateBatch(ctx context.Context, games []game.Game) error {
	if len(games) == 0 {
		return nil
	}

	models := make([]gameInsertModel, 0, len(games))
	for _, item := range games {
		if err := item.Validate(); err != nil {
			return err
		}
		models = append(models, gameToInsertModel(item))
	}

	query, args, err := qb.InsertModels("games", models, "")
	if err != nil {
		return fmt.Errorf("build insert games query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert games: %w", err)
	}
	return nil
}

func (r *GameRepository) UpdateStatus(ctx context.Context, id string, status game.Status) error {
	query, args, err := qb.Update("games").
		Set("status", string(status)).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game status query: %w", err)
	}

	return r.execOne(ctx, query, args, "update game status", id)
}

func (r *GameRepository) UpdateMultiplier(ctx context.Context, id string, multiplier float64, reason string) error {
	query, args, err := qb.Update("games").
		Set("wage_multiplier", multiplier).
		Set("multiplier_reason", reason).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update game multiplier query: %w", err)
	}

	return r.execOne(ctx, query, args, "update game multiplier", id)
}

func (r *GameRepository) execOne(ctx context.Context, query string, args []any, op, id string) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: game %s not found", op, id)
	}
	return nil
}

func gameBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"schedule_id",
		"home_team_id",
		"away_team_id",
		"division",
		"start_at",
		"end_at",
		"venue_latitude",
		"venue_longitude",
		"venue_postal_code",
		"venue_label",
		"positions_needed",
		"wage_multiplier",
		"multiplier_reason",
		"status",
		"round",
		"stage",
		"created_at",
		"updated_at",
	).From("games")
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		ScheduleID: row.ScheduleID,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		Division:   row.Division,
		StartAt:    row.StartAt.UTC(),
		EndAt:      row.EndAt.UTC(),
		Location: location.Location{
			Latitude:   row.VenueLatitude,
			Longitude:  row.VenueLongitude,
			PostalCode: row.VenuePostalCode,
			Label:      row.VenueLabel,
		},
		PositionsNeeded:  row.PositionsNeeded,
		WageMultiplier:   row.WageMultiplier,
		MultiplierReason: row.MultiplierReason,
		Status:           game.Status(row.Status),
		Round:            row.Round,
		Stage:            row.Stage,
	}
}

func gameToInsertModel(item game.Game) gameInsertModel {
	multiplier := item.WageMultiplier
	if multiplier == 0 {
		multiplier = 1
	}
	status := item.Status
	if status == "" {
		status = game.StatusUnassigned
	}

	return gameInsertModel{
		ID:               item.ID,
		ScheduleID:       item.ScheduleID,
		HomeTeamID:       item.HomeTeamID,
		AwayTeamID:       item.AwayTeamID,
		Division:         item.Division,
		StartAt:          item.StartAt.UTC().Truncate(time.Microsecond),
		EndAt:            item.EndAt.UTC().Truncate(time.Microsecond),
		VenueLatitude:    item.Location.Latitude,
		VenueLongitude:   item.Location.Longitude,
		VenuePostalCode:  item.Location.PostalCode,
		VenueLabel:       item.Location.Label,
		PositionsNeeded:  item.PositionsNeeded,
		WageMultiplier:   multiplier,
		MultiplierReason: item.MultiplierReason,
		Status:           string(status),
		Round:            item.Round,
		Stage:            item.Stage,
	}
}

package postgres

import (
	"context"
	"fmt"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/synced-sports/internal/domain/assignment"
	"github.com/riskibarqy/synced-sports/internal/domain/game"
	qb "github.com/riskibarqy/synced-sports/internal/platform/querybuilder"
)

var activeStatuses = []any{string(assignment.StatusPending), string(assignment.StatusAccepted)}

type AssignmentRepository struct {
	db *sqlx.DB
}

func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (assignment.Assignment, bool, error) {
	query, args, err := assignmentBaseSelectBuilder().
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return assignment.Assignment{}, false, fmt.Errorf("build get assignment query: %w", err)
	}

	var row assignmentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return assignment.Assignment{}, false, nil
		}
		return assignment.Assignment{}, false, fmt.Errorf("get assignment: %w", err)
	}

	return assignmentFromRow(row), true, nil
}

// ListHeldByOfficial returns the official's assignments on games whose
// interval overlaps [from, to), in any status.
func (r *AssignmentRepository) ListHeldByOfficial(ctx context.Context, officialID string, from, to time.Time) ([]assignment.Held, error) {
	query, args, err := qb.Select(
		"a.id AS assignment_id",
		"a.game_id",
		"g.start_at",
		"g.end_at",
		"a.status",
	).
		From("assignments a JOIN games g ON g.id = a.game_id").
		Where(
			qb.Eq("a.official_id", officialID),
			qb.Lt("g.start_at", to),
			qb.Gt("g.end_at", from),
		).
		OrderBy("g.start_at", "a.id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list held assignments query: %w", err)
	}

	var rows []heldRowModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list held assignments: %w", err)
	}

	out := make([]assignment.Held, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignment.Held{
			AssignmentID: row.AssignmentID,
			GameID:       row.GameID,
			StartAt:      row.StartAt.UTC(),
			EndAt:        row.EndAt.UTC(),
			Status:       assignment.Status(row.Status),
		})
	}
	return out, nil
}

func (r *AssignmentRepository) ListByGame(ctx context.Context, gameID string) ([]assignment.Assignment, error) {
	query, args, err := assignmentBaseSelectBuilder().
		Where(qb.Eq("game_id", gameID)).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list assignments by game query: %w", err)
	}

	var rows []assignmentTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments by game: %w", err)
	}

	out := make([]assignment.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}
	return out, nil
}

// Create locks the game row, re-checks the active assignments under that
// lock and inserts. Concurrent creates for one game serialize on the lock;
// the partial unique indexes back the same rules for any other writer.
func (r *AssignmentRepository) Create(ctx context.Context, item assignment.Assignment, positionsNeeded int) error {
	if err := item.ValidateBasic(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin create assignment tx")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	lockQuery, lockArgs, err := qb.Select("positions_needed").
		From("games").
		Where(qb.Eq("id", item.GameID)).
		ForUpdate().
		ToSQL()
	if err != nil {
		return fmt.Errorf("build lock game query: %w", err)
	}
	var stored int
	if err := tx.GetContext(ctx, &stored, lockQuery, lockArgs...); err != nil {
		if isNotFound(err) {
			return crerr.Newf("game %s not found", item.GameID)
		}
		return crerr.Wrapf(err, "lock game %s", item.GameID)
	}
	if positionsNeeded <= 0 {
		positionsNeeded = stored
	}

	activeQuery, activeArgs, err := qb.Select("official_id", "position").
		From("assignments").
		Where(
			qb.Eq("game_id", item.GameID),
			qb.In("status", activeStatuses...),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build active assignments query: %w", err)
	}
	var active []activeSlotModel
	if err := tx.SelectContext(ctx, &active, activeQuery, activeArgs...); err != nil {
		return crerr.Wrapf(err, "list active assignments for game %s", item.GameID)
	}
	if err := checkActiveSlots(item, active, positionsNeeded); err != nil {
		return err
	}

	query, args, err := qb.InsertModels("assignments", []assignmentInsertModel{assignmentToInsertModel(item)}, "")
	if err != nil {
		return fmt.Errorf("build insert assignment query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return mapAssignmentWriteError(crerr.Wrapf(err, "insert assignment %s", item.ID), item)
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrap(err, "commit create assignment tx")
	}
	return nil
}

// checkActiveSlots applies the same order as the in-memory store:
// double booking, then the position, then capacity.
func checkActiveSlots(item assignment.Assignment, active []activeSlotModel, positionsNeeded int) error {
	positionTaken := false
	for _, slot := range active {
		if slot.OfficialID == item.OfficialID {
			return crerr.Wrapf(assignment.ErrDoubleBooked, "official=%s game=%s", item.OfficialID, item.GameID)
		}
		if game.Position(slot.Position) == item.Position {
			positionTaken = true
		}
	}
	if positionTaken {
		return crerr.Wrapf(assignment.ErrPositionFilled, "game=%s position=%s", item.GameID, item.Position)
	}
	if len(active) >= positionsNeeded {
		return crerr.Wrapf(assignment.ErrCapacityExceeded, "game=%s", item.GameID)
	}
	return nil
}

// UpdateStatus only writes when the row is still in from, so a transition
// decided on a stale read affects nothing.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id string, from, to assignment.Status, at time.Time) error {
	query, args, err := qb.Update("assignments").
		Set("status", string(to)).
		Set("updated_at", at.UTC()).
		Where(
			qb.Eq("id", id),
			qb.Eq("status", string(from)),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update assignment status query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapAssignmentStatusError(crerr.Wrapf(err, "update assignment %s status", id), id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrap(err, "update assignment status rows affected")
	}
	if affected == 0 {
		return crerr.Wrapf(assignment.ErrInvalidTransition, "assignment %s is no longer %s", id, from)
	}
	return nil
}

func (r *AssignmentRepository) UpdateWage(ctx context.Context, id string, calculatedWage, multiplier float64, reason string, at time.Time) error {
	query, args, err := qb.Update("assignments").
		Set("calculated_wage", calculatedWage).
		Set("wage_multiplier", multiplier).
		Set("wage_reason", reason).
		Set("updated_at", at.UTC()).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update assignment wage query: %w", err)
	}

	return r.execOne(ctx, query, args, "update assignment wage", id)
}

func (r *AssignmentRepository) execOne(ctx context.Context, query string, args []any, op, id string) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: assignment %s not found", op, id)
	}
	return nil
}

func assignmentBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"game_id",
		"official_id",
		"position",
		"status",
		"origin",
		"created_by",
		"calculated_wage",
		"wage_multiplier",
		"wage_reason",
		"warnings",
		"created_at",
		"updated_at",
	).From("assignments")
}

func assignmentFromRow(row assignmentTableModel) assignment.Assignment {
	return assignment.Assignment{
		ID:             row.ID,
		GameID:         row.GameID,
		OfficialID:     row.OfficialID,
		Position:       game.Position(row.Position),
		Status:         assignment.Status(row.Status),
		Origin:         assignment.Origin(row.Origin),
		CreatedBy:      row.CreatedBy,
		CalculatedWage: row.CalculatedWage,
		WageMultiplier: row.WageMultiplier,
		WageReason:     row.WageReason,
		Warnings:       append([]string(nil), row.Warnings...),
		CreatedAt:      row.CreatedAt.UTC(),
		UpdatedAt:      row.UpdatedAt.UTC(),
	}
}

func assignmentToInsertModel(item assignment.Assignment) assignmentInsertModel {
	createdAt := item.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	status := item.Status
	if status == "" {
		status = assignment.StatusPending
	}

	return assignmentInsertModel{
		ID:             item.ID,
		GameID:         item.GameID,
		OfficialID:     item.OfficialID,
		Position:       string(item.Position),
		Status:         string(status),
		Origin:         string(item.Origin),
		CreatedBy:      item.CreatedBy,
		CalculatedWage: item.CalculatedWage,
		WageMultiplier: item.WageMultiplier,
		WageReason:     item.WageReason,
		Warnings:       pq.StringArray(nonNilStrings(item.Warnings)),
		CreatedAt:      createdAt.UTC(),
		UpdatedAt:      updatedAt.UTC(),
	}
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/synced-sports/internal/domain/location"
	"github.com/riskibarqy/synced-sports/internal/domain/official"
	qb "github.com/riskibarqy/synced-sports/internal/platform/querybuilder"
)

type OfficialRepository struct {
	db *sqlx.DB
}

func NewOfficialRepository(db *sqlx.DB) *OfficialRepository {
	return &OfficialRepository{db: db}
}

func (r *OfficialRepository) GetByID(ctx context.Context, id string) (official.Official, bool, error) {
	query, args, err := officialBaseSelectBuilder().
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return official.Official{}, false, fmt.Errorf("build get official query: %w", err)
	}

	var row officialTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return official.Official{}, false, nil
		}
		return official.Official{}, false, fmt.Errorf("get official: %w", err)
	}

	item, err := officialFromRow(row)
	if err != nil {
		return official.Official{}, false, err
	}
	return item, true, nil
}

func (r *OfficialRepository) ListAvailable(ctx context.Context) ([]official.Official, error) {
	query, args, err := officialBaseSelectBuilder().
		Where(qb.Eq("is_available", true)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list available officials query: %w", err)
	}

	var rows []officialTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list available officials: %w", err)
	}

	out := make([]official.Official, 0, len(rows))
	for _, row := range rows {
		item, err := officialFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *OfficialRepository) Upsert(ctx context.Context, item official.Official) error {
	if err := item.Validate(); err != nil {
		return err
	}

	query, args, err := qb.InsertModels("officials", []officialInsertModel{officialToInsertModel(item)}, `
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	level = EXCLUDED.level,
	allowed_divisions = EXCLUDED.allowed_divisions,
	home_latitude = EXCLUDED.home_latitude,
	home_longitude = EXCLUDED.home_longitude,
	home_postal_code = EXCLUDED.home_postal_code,
	home_label = EXCLUDED.home_label,
	max_distance = EXCLUDED.max_distance,
	is_available = EXCLUDED.is_available,
	base_wage = EXCLUDED.base_wage,
	capabilities = EXCLUDED.capabilities,
	updated_at = NOW()`)
	if err != nil {
		return fmt.Errorf("build upsert official query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert official %s: %w", item.ID, err)
	}
	return nil
}

func officialBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select(
		"id",
		"name",
		"level",
		"allowed_divisions",
		"home_latitude",
		"home_longitude",
		"home_postal_code",
		"home_label",
		"max_distance",
		"is_available",
		"base_wage",
		"capabilities",
		"created_at",
		"updated_at",
	).From("officials")
}

func officialFromRow(row officialTableModel) (official.Official, error) {
	level, err := official.ParseLevel(row.Level)
	if err != nil {
		return official.Official{}, fmt.Errorf("official %s: %w", row.ID, err)
	}

	return official.Official{
		ID:               row.ID,
		Name:             row.Name,
		Level:            level,
		AllowedDivisions: append([]string(nil), row.AllowedDivisions...),
		Home: location.Location{
			Latitude:   row.HomeLatitude,
			Longitude:  row.HomeLongitude,
			PostalCode: row.HomePostalCode,
			Label:      row.HomeLabel,
		},
		MaxDistance:  row.MaxDistance,
		IsAvailable:  row.IsAvailable,
		BaseWage:     row.BaseWage,
		Capabilities: append([]string(nil), row.Capabilities...),
	}, nil
}

func officialToInsertModel(item official.Official) officialInsertModel {
	return officialInsertModel{
		ID:               item.ID,
		Name:             item.Name,
		Level:            item.Level.String(),
		AllowedDivisions: pq.StringArray(nonNilStrings(item.AllowedDivisions)),
		HomeLatitude:     item.Home.Latitude,
		HomeLongitude:    item.Home.Longitude,
		HomePostalCode:   item.Home.PostalCode,
		HomeLabel:        item.Home.Label,
		MaxDistance:      item.MaxDistance,
		IsAvailable:      item.IsAvailable,
		BaseWage:         item.BaseWage,
		Capabilities:     pq.StringArray(nonNilStrings(item.Capabilities)),
	}
}

// text[] columns are NOT NULL; a nil slice would bind as NULL.
func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

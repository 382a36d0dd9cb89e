package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/health"
)

type HealthRepo struct {
	db *DB
}

func NewHealthRepo(db *DB) *HealthRepo {
	return &HealthRepo{db: db}
}

const healthColumns = `
	id, farm_id, pig_id, type, description,
	date, next_due, status, veterinarian, notes,
	completed_at, created_at, updated_at`

func (r *HealthRepo) Create(ctx context.Context, h health.Record) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO health_records (`+healthColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
	`),
		h.ID,
		h.FarmID,
		h.PigID,
		string(h.Type),
		h.Description,
		h.Date.UTC(),
		toNullTime(h.NextDue),
		string(h.Status),
		h.Veterinarian,
		h.Notes,
		toNullTime(h.CompletedAt),
		h.CreatedAt.UTC(),
		h.UpdatedAt.UTC(),
	)
	return err
}

func (r *HealthRepo) Update(ctx context.Context, h health.Record) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`
		UPDATE health_records
		SET
			type = $2,
			description = $3,
			date = $4,
			next_due = $5,
			status = $6,
			veterinarian = $7,
			notes = $8,
			completed_at = $9,
			updated_at = $10
		WHERE id = $1
	`),
		h.ID,
		string(h.Type),
		h.Description,
		h.Date.UTC(),
		toNullTime(h.NextDue),
		string(h.Status),
		h.Veterinarian,
		h.Notes,
		toNullTime(h.CompletedAt),
		h.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	return affected(res, health.ErrNotFound)
}

func (r *HealthRepo) GetByID(ctx context.Context, id string) (health.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return health.Record{}, health.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+healthColumns+`
		FROM health_records
		WHERE id = $1
	`), id)

	h, err := scanHealth(row)
	if errors.Is(err, sql.ErrNoRows) {
		return health.Record{}, health.ErrNotFound
	}
	return h, err
}

func (r *HealthRepo) ListByFarm(ctx context.Context, farmID string) ([]health.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT `+healthColumns+`
		FROM health_records
		WHERE farm_id = $1
		ORDER BY date DESC
	`), farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]health.Record, 0)
	for rows.Next() {
		h, err := scanHealth(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HealthRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`DELETE FROM health_records WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return affected(res, health.ErrNotFound)
}

func scanHealth(rs rowScanner) (health.Record, error) {
	var h health.Record
	var typ, status string
	var nextDue, completedAt sql.NullTime

	if err := rs.Scan(
		&h.ID,
		&h.FarmID,
		&h.PigID,
		&typ,
		&h.Description,
		&h.Date,
		&nextDue,
		&status,
		&h.Veterinarian,
		&h.Notes,
		&completedAt,
		&h.CreatedAt,
		&h.UpdatedAt,
	); err != nil {
		return health.Record{}, err
	}

	h.Type = health.Type(typ)
	h.Status = health.Status(status)
	h.Date = h.Date.UTC()
	h.NextDue = fromNullTime(nextDue)
	h.CompletedAt = fromNullTime(completedAt)
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return h, nil
}

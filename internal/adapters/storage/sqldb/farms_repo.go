package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/farms"
)

type FarmRepo struct {
	db *DB
}

func NewFarmRepo(db *DB) *FarmRepo {
	return &FarmRepo{db: db}
}

const farmColumns = `id, owner_user_id, name, location, created_at, updated_at`

func (r *FarmRepo) Create(ctx context.Context, f farms.Farm) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO farms (`+farmColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6)
	`),
		f.ID,
		f.OwnerUserID,
		f.Name,
		f.Location,
		f.CreatedAt.UTC(),
		f.UpdatedAt.UTC(),
	)
	return err
}

func (r *FarmRepo) Update(ctx context.Context, f farms.Farm) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`
		UPDATE farms
		SET
			name = $2,
			location = $3,
			updated_at = $4
		WHERE id = $1
	`),
		f.ID,
		f.Name,
		f.Location,
		f.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	return affected(res, farms.ErrNotFound)
}

func (r *FarmRepo) GetByID(ctx context.Context, id string) (farms.Farm, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return farms.Farm{}, farms.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+farmColumns+`
		FROM farms
		WHERE id = $1
	`), id)

	f, err := scanFarm(row)
	if errors.Is(err, sql.ErrNoRows) {
		return farms.Farm{}, farms.ErrNotFound
	}
	return f, err
}

func (r *FarmRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]farms.Farm, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT `+farmColumns+`
		FROM farms
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`), ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]farms.Farm, 0)
	for rows.Next() {
		f, err := scanFarm(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanFarm(rs rowScanner) (farms.Farm, error) {
	var f farms.Farm
	if err := rs.Scan(
		&f.ID,
		&f.OwnerUserID,
		&f.Name,
		&f.Location,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return farms.Farm{}, err
	}
	f.CreatedAt = f.CreatedAt.UTC()
	f.UpdatedAt = f.UpdatedAt.UTC()
	return f, nil
}

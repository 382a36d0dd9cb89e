package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/pens"
)

type PenRepo struct {
	db *DB
}

func NewPenRepo(db *DB) *PenRepo {
	return &PenRepo{db: db}
}

func (r *PenRepo) Create(ctx context.Context, p pens.Pen) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO pens (id, farm_id, name, row_name, capacity, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`),
		p.ID,
		p.FarmID,
		p.Name,
		p.RowName,
		p.Capacity,
		p.CreatedAt.UTC(),
	)
	return err
}

func (r *PenRepo) GetByID(ctx context.Context, id string) (pens.Pen, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pens.Pen{}, pens.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT id, farm_id, name, row_name, capacity, created_at
		FROM pens
		WHERE id = $1
	`), id)

	p, err := scanPen(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pens.Pen{}, pens.ErrNotFound
	}
	return p, err
}

func (r *PenRepo) ListByFarm(ctx context.Context, farmID string) ([]pens.Pen, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT id, farm_id, name, row_name, capacity, created_at
		FROM pens
		WHERE farm_id = $1
		ORDER BY row_name ASC, name ASC
	`), farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pens.Pen, 0)
	for rows.Next() {
		p, err := scanPen(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PenRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`DELETE FROM pens WHERE id = $1`), id)
	if err != nil {
		return err
	}
	return affected(res, pens.ErrNotFound)
}

func scanPen(rs rowScanner) (pens.Pen, error) {
	var p pens.Pen
	if err := rs.Scan(&p.ID, &p.FarmID, &p.Name, &p.RowName, &p.Capacity, &p.CreatedAt); err != nil {
		return pens.Pen{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

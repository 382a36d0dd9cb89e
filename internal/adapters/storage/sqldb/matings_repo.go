package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/matings"
)

type MatingRepo struct {
	db *DB
}

func NewMatingRepo(db *DB) *MatingRepo {
	return &MatingRepo{db: db}
}

const matingColumns = `
	id, farm_id, sow_id, boar_id, sow_name, boar_name,
	mating_date, expected_birth_date, actual_birth_date, litter_size,
	notes, created_by, created_at, updated_at`

func (r *MatingRepo) Create(ctx context.Context, m matings.Record) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO breeding_records (`+matingColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`),
		m.ID,
		m.FarmID,
		m.SowID,
		m.BoarID,
		m.SowName,
		m.BoarName,
		m.MatingDate.UTC(),
		m.ExpectedBirthDate.UTC(),
		toNullTime(m.ActualBirthDate),
		toNullInt(m.LitterSize),
		m.Notes,
		m.CreatedBy,
		m.CreatedAt.UTC(),
		m.UpdatedAt.UTC(),
	)
	return err
}

// Update solo toca lo que cambia después de la monta: el parto y las notas.
func (r *MatingRepo) Update(ctx context.Context, m matings.Record) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`
		UPDATE breeding_records
		SET
			actual_birth_date = $2,
			litter_size = $3,
			notes = $4,
			updated_at = $5
		WHERE id = $1
	`),
		m.ID,
		toNullTime(m.ActualBirthDate),
		toNullInt(m.LitterSize),
		m.Notes,
		m.UpdatedAt.UTC(),
	)
	if err != nil {
		return err
	}
	return affected(res, matings.ErrNotFound)
}

func (r *MatingRepo) GetByID(ctx context.Context, id string) (matings.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return matings.Record{}, matings.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+matingColumns+`
		FROM breeding_records
		WHERE id = $1
	`), id)

	m, err := scanMating(row)
	if errors.Is(err, sql.ErrNoRows) {
		return matings.Record{}, matings.ErrNotFound
	}
	return m, err
}

func (r *MatingRepo) ListByFarm(ctx context.Context, farmID string) ([]matings.Record, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT `+matingColumns+`
		FROM breeding_records
		WHERE farm_id = $1
		ORDER BY mating_date DESC
	`), farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]matings.Record, 0)
	for rows.Next() {
		m, err := scanMating(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanMating(rs rowScanner) (matings.Record, error) {
	var m matings.Record
	var actual sql.NullTime
	var litter sql.NullInt64

	if err := rs.Scan(
		&m.ID,
		&m.FarmID,
		&m.SowID,
		&m.BoarID,
		&m.SowName,
		&m.BoarName,
		&m.MatingDate,
		&m.ExpectedBirthDate,
		&actual,
		&litter,
		&m.Notes,
		&m.CreatedBy,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return matings.Record{}, err
	}

	m.MatingDate = m.MatingDate.UTC()
	m.ExpectedBirthDate = m.ExpectedBirthDate.UTC()
	m.ActualBirthDate = fromNullTime(actual)
	m.LitterSize = fromNullInt(litter)
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

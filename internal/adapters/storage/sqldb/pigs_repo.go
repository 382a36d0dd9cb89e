package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/breeding"
	"pig-farm/internal/domain/pigs"
)

type PigRepo struct {
	db *DB
}

func NewPigRepo(db *DB) *PigRepo {
	return &PigRepo{db: db}
}

const pigColumns = `
	id, farm_id, tag, name, gender, breed, color, weight,
	birth_date, pen_id, parent_male_id, parent_female_id,
	is_pregnant, pregnancy_start_date, expected_birth_date, actual_birth_date, mated_with,
	total_litters, total_piglets,
	status, removal_reason, removal_notes, removed_at,
	notes, created_at, updated_at`

func (r *PigRepo) Create(ctx context.Context, p pigs.Pig) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO pigs (`+pigColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26)
	`), pigArgs(p)...)
	return err
}

func (r *PigRepo) Update(ctx context.Context, p pigs.Pig) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`
		UPDATE pigs
		SET
			tag = $3,
			name = $4,
			gender = $5,
			breed = $6,
			color = $7,
			weight = $8,
			birth_date = $9,
			pen_id = $10,
			parent_male_id = $11,
			parent_female_id = $12,
			is_pregnant = $13,
			pregnancy_start_date = $14,
			expected_birth_date = $15,
			actual_birth_date = $16,
			mated_with = $17,
			total_litters = $18,
			total_piglets = $19,
			status = $20,
			removal_reason = $21,
			removal_notes = $22,
			removed_at = $23,
			notes = $24,
			created_at = $25,
			updated_at = $26
		WHERE id = $1 AND farm_id = $2
	`), pigArgs(p)...)
	if err != nil {
		return err
	}
	return affected(res, pigs.ErrNotFound)
}

// pigArgs sigue el orden de pigColumns.
func pigArgs(p pigs.Pig) []any {
	return []any{
		p.ID,
		p.FarmID,
		p.Tag,
		p.Name,
		string(p.Gender),
		p.Breed,
		p.Color,
		p.Weight,
		toNullTime(p.BirthDate),
		p.PenID,
		p.ParentMaleID,
		p.ParentFemaleID,
		p.IsPregnant,
		toNullTime(p.PregnancyStartDate),
		toNullTime(p.ExpectedBirthDate),
		toNullTime(p.ActualBirthDate),
		p.MatedWith,
		p.TotalLitters,
		p.TotalPiglets,
		string(p.Status),
		p.RemovalReason,
		p.RemovalNotes,
		toNullTime(p.RemovedAt),
		p.Notes,
		p.CreatedAt.UTC(),
		p.UpdatedAt.UTC(),
	}
}

func (r *PigRepo) GetByID(ctx context.Context, id string) (pigs.Pig, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pigs.Pig{}, pigs.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+pigColumns+`
		FROM pigs
		WHERE id = $1
	`), id)

	p, err := scanPig(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pigs.Pig{}, pigs.ErrNotFound
	}
	return p, err
}

func (r *PigRepo) ListByFarm(ctx context.Context, farmID string) ([]pigs.Pig, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT `+pigColumns+`
		FROM pigs
		WHERE farm_id = $1
		ORDER BY tag ASC
	`), farmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pigs.Pig, 0)
	for rows.Next() {
		p, err := scanPig(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPig(rs rowScanner) (pigs.Pig, error) {
	var p pigs.Pig
	var gender, status string
	var birth, pregStart, expected, actual, removed sql.NullTime

	if err := rs.Scan(
		&p.ID,
		&p.FarmID,
		&p.Tag,
		&p.Name,
		&gender,
		&p.Breed,
		&p.Color,
		&p.Weight,
		&birth,
		&p.PenID,
		&p.ParentMaleID,
		&p.ParentFemaleID,
		&p.IsPregnant,
		&pregStart,
		&expected,
		&actual,
		&p.MatedWith,
		&p.TotalLitters,
		&p.TotalPiglets,
		&status,
		&p.RemovalReason,
		&p.RemovalNotes,
		&removed,
		&p.Notes,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pigs.Pig{}, err
	}

	p.Gender = breeding.Gender(gender)
	p.Status = pigs.Status(status)
	p.BirthDate = fromNullTime(birth)
	p.PregnancyStartDate = fromNullTime(pregStart)
	p.ExpectedBirthDate = fromNullTime(expected)
	p.ActualBirthDate = fromNullTime(actual)
	p.RemovedAt = fromNullTime(removed)
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

func (r *PigRepo) CreateTransfer(ctx context.Context, t pigs.Transfer) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO pig_transfers (
			id, farm_id, pig_id, from_pen_id, to_pen_id,
			reason, notes, transferred_by, transferred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`),
		t.ID,
		t.FarmID,
		t.PigID,
		t.FromPenID,
		t.ToPenID,
		string(t.Reason),
		t.Notes,
		t.TransferredBy,
		t.TransferredAt.UTC(),
	)
	return err
}

func (r *PigRepo) ListTransfers(ctx context.Context, pigID string) ([]pigs.Transfer, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(`
		SELECT
			id, farm_id, pig_id, from_pen_id, to_pen_id,
			reason, notes, transferred_by, transferred_at
		FROM pig_transfers
		WHERE pig_id = $1
		ORDER BY transferred_at DESC
	`), pigID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pigs.Transfer, 0)
	for rows.Next() {
		var t pigs.Transfer
		var reason string
		if err := rows.Scan(
			&t.ID,
			&t.FarmID,
			&t.PigID,
			&t.FromPenID,
			&t.ToPenID,
			&reason,
			&t.Notes,
			&t.TransferredBy,
			&t.TransferredAt,
		); err != nil {
			return nil, err
		}
		t.Reason = pigs.TransferReason(reason)
		t.TransferredAt = t.TransferredAt.UTC()
		out = append(out, t)
	}
	return out, rows.Err()
}

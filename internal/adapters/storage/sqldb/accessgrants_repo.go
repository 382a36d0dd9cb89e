package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pig-farm/internal/domain/accessgrants"
)

type AccessGrantsRepo struct {
	db *DB
}

func NewAccessGrantsRepo(db *DB) *AccessGrantsRepo {
	return &AccessGrantsRepo{db: db}
}

const grantColumns = `
	id, farm_id, owner_user_id, grantee_user_id,
	scopes, status,
	created_at, updated_at, revoked_at`

func (r *AccessGrantsRepo) Create(ctx context.Context, g accessgrants.Grant) error {
	_, err := r.db.ExecContext(ctx, r.db.q(`
		INSERT INTO access_grants (`+grantColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`),
		g.ID,
		g.FarmID,
		g.OwnerUserID,
		g.GranteeUserID,
		joinScopes(g.Scopes),
		string(g.Status),
		g.CreatedAt.UTC(),
		g.UpdatedAt.UTC(),
		toNullTime(g.RevokedAt),
	)
	return err
}

func (r *AccessGrantsRepo) Update(ctx context.Context, g accessgrants.Grant) error {
	res, err := r.db.ExecContext(ctx, r.db.q(`
		UPDATE access_grants
		SET
			scopes = $2,
			status = $3,
			updated_at = $4,
			revoked_at = $5
		WHERE id = $1
	`),
		g.ID,
		joinScopes(g.Scopes),
		string(g.Status),
		g.UpdatedAt.UTC(),
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		return err
	}
	return affected(res, accessgrants.ErrNotFound)
}

func (r *AccessGrantsRepo) GetByID(ctx context.Context, id string) (accessgrants.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE id = $1
	`), id)
	return r.one(row)
}

func (r *AccessGrantsRepo) ListByFarm(ctx context.Context, farmID string) ([]accessgrants.Grant, error) {
	farmID = strings.TrimSpace(farmID)
	if farmID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE farm_id = $1
		ORDER BY created_at ASC
	`, farmID)
}

func (r *AccessGrantsRepo) ListByGrantee(ctx context.Context, granteeUserID string) ([]accessgrants.Grant, error) {
	granteeUserID = strings.TrimSpace(granteeUserID)
	if granteeUserID == "" {
		return nil, nil
	}
	return r.list(ctx, `
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE grantee_user_id = $1
		ORDER BY created_at ASC
	`, granteeUserID)
}

func (r *AccessGrantsRepo) GetActiveGrant(ctx context.Context, farmID, granteeUserID string) (accessgrants.Grant, error) {
	farmID = strings.TrimSpace(farmID)
	granteeUserID = strings.TrimSpace(granteeUserID)
	if farmID == "" || granteeUserID == "" {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, r.db.q(`
		SELECT `+grantColumns+`
		FROM access_grants
		WHERE farm_id = $1
		  AND grantee_user_id = $2
		  AND status = 'active'
		ORDER BY updated_at DESC
		LIMIT 1
	`), farmID, granteeUserID)
	return r.one(row)
}

func (r *AccessGrantsRepo) one(row *sql.Row) (accessgrants.Grant, error) {
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return accessgrants.Grant{}, accessgrants.ErrNotFound
	}
	return g, err
}

func (r *AccessGrantsRepo) list(ctx context.Context, query string, args ...any) ([]accessgrants.Grant, error) {
	rows, err := r.db.QueryContext(ctx, r.db.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]accessgrants.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func scanGrant(rs rowScanner) (accessgrants.Grant, error) {
	var g accessgrants.Grant
	var status, scopes string
	var revokedAt sql.NullTime

	if err := rs.Scan(
		&g.ID,
		&g.FarmID,
		&g.OwnerUserID,
		&g.GranteeUserID,
		&scopes,
		&status,
		&g.CreatedAt,
		&g.UpdatedAt,
		&revokedAt,
	); err != nil {
		return accessgrants.Grant{}, err
	}

	g.Status = accessgrants.Status(status)
	g.Scopes = splitScopes(scopes)
	g.CreatedAt = g.CreatedAt.UTC()
	g.UpdatedAt = g.UpdatedAt.UTC()
	g.RevokedAt = fromNullTime(revokedAt)
	return g, nil
}

// Los scopes se guardan como CSV para que el mismo schema sirva en sqlite.
func joinScopes(in []accessgrants.Scope) string {
	parts := make([]string, 0, len(in))
	for _, s := range in {
		parts = append(parts, string(s))
	}
	return strings.Join(parts, ",")
}

func splitScopes(raw string) []accessgrants.Scope {
	out := make([]accessgrants.Scope, 0)
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, accessgrants.Scope(p))
		}
	}
	return out
}

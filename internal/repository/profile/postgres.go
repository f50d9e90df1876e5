package profile

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"heven-store/internal/domain"
)

const profileColumns = `id::text, first_name, last_name, phone, role, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) CreateWithIdentity(ctx context.Context, email, passwordHash string, p domain.Profile) (*domain.Profile, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var identityID string
	err = tx.QueryRow(ctx, `
INSERT INTO identities (email, password_hash)
VALUES ($1, $2)
RETURNING id::text
`, strings.ToLower(email), passwordHash).Scan(&identityID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		return nil, err
	}

	role := p.Role
	if !role.Valid() {
		role = domain.RoleCustomer
	}
	created, err := scanProfile(tx.QueryRow(ctx, `
INSERT INTO profiles (id, first_name, last_name, phone, role)
VALUES ($1, $2, $3, $4, $5)
RETURNING `+profileColumns+`
`, identityID, p.FirstName, p.LastName, p.Phone, string(role)))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	const q = `
SELECT id::text, email, password_hash, created_at
FROM identities
WHERE email = lower($1)
`
	var id domain.Identity
	if err := r.pool.QueryRow(ctx, q, email).Scan(&id.ID, &id.Email, &id.PasswordHash, &id.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &id, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	const q = `
SELECT ` + profileColumns + `
FROM profiles
WHERE id = $1
`
	p, err := scanProfile(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Profile, error) {
	const q = `
UPDATE profiles
SET first_name = $1, last_name = $2, phone = $3
WHERE id = $4
RETURNING ` + profileColumns + `
`
	p, err := scanProfile(r.pool.QueryRow(ctx, q, in.FirstName, in.LastName, in.Phone, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) SetRole(ctx context.Context, id string, role domain.Role) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE profiles SET role = $1 WHERE id = $2`, string(role), id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	var role string
	if err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone, &role, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Role = domain.Role(role)
	return &p, nil
}

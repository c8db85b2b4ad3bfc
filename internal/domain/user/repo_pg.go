package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetclinic/vetclinic/internal/platform/db"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) Repository {
	return &userRepoPG{pool: pool}
}

const userCols = `id, email, password_hash, name, role, license_number, is_active, created_at, updated_at`

func (r *userRepoPG) scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.LicenseNumber, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("user")
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, name, role, license_number, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role, u.LicenseNumber, u.IsActive).
		Scan(&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httperr.Conflict("email already registered")
		}
		return err
	}
	return nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id = $1`, id))
}

func (r *userRepoPG) GetActiveByEmail(ctx context.Context, email string) (*User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1 AND is_active = true`, email))
}

func (r *userRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error) {
	where := ` FROM users WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Email != "" {
		where += fmt.Sprintf(` AND email ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.Email)
		idx++
	}
	if f.Role != "" {
		where += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, f.Role)
		idx++
	}
	if f.LicenseNumber != "" {
		where += fmt.Sprintf(` AND license_number = $%d`, idx)
		args = append(args, f.LicenseNumber)
		idx++
	}
	if f.IsActive != nil {
		where += fmt.Sprintf(` AND is_active = $%d`, idx)
		args = append(args, *f.IsActive)
		idx++
	}
	if f.CreatedAfter != nil {
		where += fmt.Sprintf(` AND created_at >= $%d`, idx)
		args = append(args, *f.CreatedAfter)
		idx++
	}
	if f.CreatedBefore != nil {
		where += fmt.Sprintf(` AND created_at <= $%d`, idx)
		args = append(args, *f.CreatedBefore)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userCols + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}

func (r *userRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	var sets []string
	var args []interface{}
	idx := 1

	set := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if v, ok := in.Email.Value(); ok {
		set("email", v)
	}
	if v, ok := in.Password.Value(); ok {
		// The service has already swapped the plaintext for a hash.
		set("password_hash", v)
	}
	if v, ok := in.Name.Value(); ok {
		set("name", v)
	}
	if v, ok := in.Role.Value(); ok {
		set("role", v)
	}
	if in.LicenseNumber.IsSet() {
		if in.LicenseNumber.IsNull() {
			sets = append(sets, "license_number = NULL")
		} else {
			v, _ := in.LicenseNumber.Value()
			set("license_number", v)
		}
	}
	if v, ok := in.IsActive.Value(); ok {
		set("is_active", v)
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userCols,
		strings.Join(sets, ", "), idx)

	u, err := r.scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httperr.Conflict("email already registered")
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepoPG) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET is_active = false, updated_at = NOW()
		WHERE id = $1 AND is_active = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("user")
	}
	return nil
}

func (r *userRepoPG) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, excludeID).Scan(&exists)
	return exists, err
}

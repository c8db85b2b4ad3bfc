package client

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

type clientRepoPG struct{ pool *pgxpool.Pool }

func NewClientRepoPG(pool *pgxpool.Pool) Repository {
	return &clientRepoPG{pool: pool}
}

const clientCols = `id, name, email, phone, address, notes, assigned_to, created_at, updated_at`

func (r *clientRepoPG) scanClient(row pgx.Row) (*Client, error) {
	var cl Client
	err := row.Scan(&cl.ID, &cl.Name, &cl.Email, &cl.Phone, &cl.Address,
		&cl.Notes, &cl.AssignedTo, &cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("client")
		}
		return nil, err
	}
	return &cl, nil
}

func (r *clientRepoPG) Create(ctx context.Context, cl *Client) error {
	cl.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO clients (id, name, email, phone, address, notes, assigned_to)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		cl.ID, cl.Name, cl.Email, cl.Phone, cl.Address, cl.Notes, cl.AssignedTo).
		Scan(&cl.CreatedAt, &cl.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httperr.Conflict("email already registered")
		}
		if db.IsForeignKeyViolation(err) {
			return httperr.Validation("assigned user does not exist")
		}
		return err
	}
	return nil
}

func (r *clientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	return r.scanClient(r.pool.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id = $1`, id))
}

func (r *clientRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error) {
	where := ` FROM clients WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Name != "" {
		where += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.Name)
		idx++
	}
	if f.Phone != "" {
		where += fmt.Sprintf(` AND phone = $%d`, idx)
		args = append(args, f.Phone)
		idx++
	}
	if f.AssignedTo != nil {
		where += fmt.Sprintf(` AND assigned_to = $%d`, idx)
		args = append(args, *f.AssignedTo)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + clientCols + where +
		fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Client
	for rows.Next() {
		cl, err := r.scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, rows.Err()
}

func (r *clientRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Client, error) {
	var sets []string
	var args []interface{}
	idx := 1

	set := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if v, ok := in.Name.Value(); ok {
		set("name", v)
	}
	if v, ok := in.Email.Value(); ok {
		set("email", v)
	}
	if v, ok := in.Phone.Value(); ok {
		set("phone", v)
	}
	if in.Address.IsSet() {
		if in.Address.IsNull() {
			sets = append(sets, "address = NULL")
		} else {
			v, _ := in.Address.Value()
			set("address", v)
		}
	}
	if in.Notes.IsSet() {
		if in.Notes.IsNull() {
			sets = append(sets, "notes = NULL")
		} else {
			v, _ := in.Notes.Value()
			set("notes", v)
		}
	}
	if in.AssignedTo.IsSet() {
		if in.AssignedTo.IsNull() {
			sets = append(sets, "assigned_to = NULL")
		} else {
			v, _ := in.AssignedTo.Value()
			set("assigned_to", v)
		}
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE clients SET %s WHERE id = $%d RETURNING `+clientCols,
		strings.Join(sets, ", "), idx)

	cl, err := r.scanClient(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httperr.Conflict("email already registered")
		}
		if db.IsForeignKeyViolation(err) {
			return nil, httperr.Validation("assigned user does not exist")
		}
		return nil, err
	}
	return cl, nil
}

func (r *clientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return httperr.Conflict("client has registered patients")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("client")
	}
	return nil
}

func (r *clientRepoPG) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM clients WHERE email = $1 AND id <> $2)`,
		email, excludeID).Scan(&exists)
	return exists, err
}

func (r *clientRepoPG) CountPatients(ctx context.Context, clientID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE client_id = $1`, clientID).Scan(&n)
	return n, err
}

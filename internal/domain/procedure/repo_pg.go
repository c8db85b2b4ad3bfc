package procedure

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

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) Repository {
	return &procedureRepoPG{pool: pool}
}

const procedureCols = `id, name, procedure_type, description, duration_minutes, created_at, updated_at`

func (r *procedureRepoPG) scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.Name, &p.ProcedureType, &p.Description,
		&p.DurationMinutes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("procedure")
		}
		return nil, err
	}
	p.Enrich()
	return &p, nil
}

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	p.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO procedures (id, name, procedure_type, description, duration_minutes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.ProcedureType, p.Description, p.DurationMinutes).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return err
	}
	p.Enrich()
	return nil
}

func (r *procedureRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return r.scanProcedure(r.pool.QueryRow(ctx,
		`SELECT `+procedureCols+` FROM procedures WHERE id = $1`, id))
}

func (r *procedureRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Procedure, int, error) {
	where := ` FROM procedures WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.NameContains != "" {
		where += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.NameContains)
		idx++
	}
	if f.ProcedureType != "" {
		where += fmt.Sprintf(` AND procedure_type = $%d`, idx)
		args = append(args, f.ProcedureType)
		idx++
	}
	if f.MinDuration != nil {
		where += fmt.Sprintf(` AND duration_minutes >= $%d`, idx)
		args = append(args, *f.MinDuration)
		idx++
	}
	if f.MaxDuration != nil {
		where += fmt.Sprintf(` AND duration_minutes <= $%d`, idx)
		args = append(args, *f.MaxDuration)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + procedureCols + where +
		fmt.Sprintf(` ORDER BY name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Procedure
	for rows.Next() {
		p, err := r.scanProcedure(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *procedureRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Procedure, error) {
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
	if v, ok := in.ProcedureType.Value(); ok {
		set("procedure_type", v)
	}
	if in.Description.IsSet() {
		set("description", in.Description.Ptr())
	}
	if in.DurationMinutes.IsSet() {
		set("duration_minutes", in.DurationMinutes.Ptr())
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE procedures SET %s WHERE id = $%d RETURNING `+procedureCols,
		strings.Join(sets, ", "), idx)

	return r.scanProcedure(r.pool.QueryRow(ctx, query, args...))
}

func (r *procedureRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM procedures WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return httperr.Conflict("procedure has recorded history entries")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("procedure")
	}
	return nil
}

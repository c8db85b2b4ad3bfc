package procedurelog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetclinic/vetclinic/internal/platform/db"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
)

type entryRepoPG struct{ pool *pgxpool.Pool }

func NewEntryRepoPG(pool *pgxpool.Pool) Repository {
	return &entryRepoPG{pool: pool}
}

// Reads join the referenced tables so responses carry names without per-row
// lookups. Missing references fall back to a placeholder instead of failing
// the response.
const entryCols = `pp.id, pp.patient_id, COALESCE(pa.name, 'Unknown Patient'),
	pp.procedure_id, COALESCE(pr.name, 'Unknown Procedure'),
	pp.veterinarian_id, u.name,
	pp.date, pp.next_due_date, pp.notes, pp.created_at, pp.updated_at`

const entryFrom = ` FROM patient_procedures pp
	LEFT JOIN patients pa ON pa.id = pp.patient_id
	LEFT JOIN procedures pr ON pr.id = pp.procedure_id
	LEFT JOIN users u ON u.id = pp.veterinarian_id`

func (r *entryRepoPG) scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var date time.Time
	var nextDue *time.Time
	err := row.Scan(&e.ID, &e.PatientID, &e.PatientName, &e.ProcedureID, &e.ProcedureName,
		&e.VeterinarianID, &e.VeterinarianName, &date, &nextDue, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("patient procedure")
		}
		return nil, err
	}
	e.Date = date.Format(validate.DateLayout)
	if nextDue != nil {
		d := nextDue.Format(validate.DateLayout)
		e.NextDueDate = &d
	}
	if e.VeterinarianID != nil && e.VeterinarianName == nil {
		fallback := "Unknown Veterinarian"
		e.VeterinarianName = &fallback
	}
	return &e, nil
}

func (r *entryRepoPG) mapWriteError(err error) error {
	if db.IsForeignKeyViolation(err) {
		switch db.ConstraintName(err) {
		case "patient_procedures_patient_id_fkey":
			return httperr.Validation("patient does not exist")
		case "patient_procedures_procedure_id_fkey":
			return httperr.Validation("procedure does not exist")
		case "patient_procedures_veterinarian_id_fkey":
			return httperr.Validation("veterinarian does not exist")
		}
	}
	return err
}

func (r *entryRepoPG) Create(ctx context.Context, e *Entry) error {
	e.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patient_procedures (id, patient_id, procedure_id, veterinarian_id, date, next_due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.PatientID, e.ProcedureID, e.VeterinarianID, e.Date, e.NextDueDate, e.Notes)
	if err != nil {
		return r.mapWriteError(err)
	}

	created, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

func (r *entryRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Entry, error) {
	return r.scanEntry(r.pool.QueryRow(ctx,
		`SELECT `+entryCols+entryFrom+` WHERE pp.id = $1`, id))
}

func (r *entryRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Entry, int, error) {
	where := entryFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != nil {
		where += fmt.Sprintf(` AND pp.patient_id = $%d`, idx)
		args = append(args, *f.PatientID)
		idx++
	}
	if f.ProcedureID != nil {
		where += fmt.Sprintf(` AND pp.procedure_id = $%d`, idx)
		args = append(args, *f.ProcedureID)
		idx++
	}
	if f.VeterinarianID != nil {
		where += fmt.Sprintf(` AND pp.veterinarian_id = $%d`, idx)
		args = append(args, *f.VeterinarianID)
		idx++
	}
	if f.StartDate != nil {
		where += fmt.Sprintf(` AND pp.date >= $%d`, idx)
		args = append(args, *f.StartDate)
		idx++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(` AND pp.date <= $%d`, idx)
		args = append(args, *f.EndDate)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + entryCols + where +
		fmt.Sprintf(` ORDER BY pp.date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Entry
	for rows.Next() {
		e, err := r.scanEntry(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}

func (r *entryRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Entry, error) {
	var sets []string
	var args []interface{}
	idx := 1

	set := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if v, ok := in.PatientID.Value(); ok {
		set("patient_id", v)
	}
	if v, ok := in.ProcedureID.Value(); ok {
		set("procedure_id", v)
	}
	if in.VeterinarianID.IsSet() {
		set("veterinarian_id", in.VeterinarianID.Ptr())
	}
	if v, ok := in.Date.Value(); ok {
		set("date", v)
	}
	if in.NextDueDate.IsSet() {
		set("next_due_date", in.NextDueDate.Ptr())
	}
	if in.Notes.IsSet() {
		set("notes", in.Notes.Ptr())
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE patient_procedures SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), idx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("patient procedure")
	}
	return r.GetByID(ctx, id)
}

func (r *entryRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patient_procedures WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("patient procedure")
	}
	return nil
}

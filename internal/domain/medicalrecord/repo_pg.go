package medicalrecord

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

type recordRepoPG struct{ pool *pgxpool.Pool }

func NewRecordRepoPG(pool *pgxpool.Pool) Repository {
	return &recordRepoPG{pool: pool}
}

// Reads join the referenced tables so responses carry names without per-row
// lookups. A missing reference falls back to a placeholder instead of
// failing the response.
const recordCols = `mr.id, mr.patient_id, COALESCE(pa.name, 'Unknown Patient'),
	mr.veterinarian_id, COALESCE(u.name, 'Unknown Veterinarian'),
	mr.date, mr.diagnosis, mr.treatment, mr.notes, mr.weight_at_visit,
	mr.created_at, mr.updated_at`

const recordFrom = ` FROM medical_records mr
	LEFT JOIN patients pa ON pa.id = mr.patient_id
	LEFT JOIN users u ON u.id = mr.veterinarian_id`

func (r *recordRepoPG) scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.PatientName,
		&rec.VeterinarianID, &rec.VeterinarianName,
		&rec.Date, &rec.Diagnosis, &rec.Treatment, &rec.Notes, &rec.WeightAtVisit,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("medical record")
		}
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepoPG) mapWriteError(err error) error {
	if db.IsForeignKeyViolation(err) {
		switch db.ConstraintName(err) {
		case "medical_records_patient_id_fkey":
			return httperr.Validation("patient does not exist")
		case "medical_records_veterinarian_id_fkey":
			return httperr.Validation("veterinarian does not exist")
		}
	}
	return err
}

func (r *recordRepoPG) Create(ctx context.Context, rec *Record) error {
	rec.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medical_records (id, patient_id, veterinarian_id, date, diagnosis, treatment, notes, weight_at_visit)
		VALUES ($1, $2, $3, NOW(), $4, $5, $6, $7)`,
		rec.ID, rec.PatientID, rec.VeterinarianID, rec.Diagnosis, rec.Treatment, rec.Notes, rec.WeightAtVisit)
	if err != nil {
		return r.mapWriteError(err)
	}

	created, err := r.GetByID(ctx, rec.ID)
	if err != nil {
		return err
	}
	*rec = *created
	return nil
}

func (r *recordRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	return r.scanRecord(r.pool.QueryRow(ctx,
		`SELECT `+recordCols+recordFrom+` WHERE mr.id = $1`, id))
}

func (r *recordRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Record, int, error) {
	where := recordFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != nil {
		where += fmt.Sprintf(` AND mr.patient_id = $%d`, idx)
		args = append(args, *f.PatientID)
		idx++
	}
	if f.VeterinarianID != nil {
		where += fmt.Sprintf(` AND mr.veterinarian_id = $%d`, idx)
		args = append(args, *f.VeterinarianID)
		idx++
	}
	if f.StartDate != nil {
		where += fmt.Sprintf(` AND mr.date >= $%d`, idx)
		args = append(args, *f.StartDate)
		idx++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(` AND mr.date <= $%d`, idx)
		args = append(args, *f.EndDate)
		idx++
	}
	if f.DiagnosisContains != "" {
		where += fmt.Sprintf(` AND mr.diagnosis ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.DiagnosisContains)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + recordCols + where +
		fmt.Sprintf(` ORDER BY mr.date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Record
	for rows.Next() {
		rec, err := r.scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, rec)
	}
	return items, total, rows.Err()
}

func (r *recordRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Record, error) {
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
	if v, ok := in.VeterinarianID.Value(); ok {
		set("veterinarian_id", v)
	}
	if v, ok := in.Diagnosis.Value(); ok {
		set("diagnosis", v)
	}
	if in.Treatment.IsSet() {
		set("treatment", in.Treatment.Ptr())
	}
	if in.Notes.IsSet() {
		set("notes", in.Notes.Ptr())
	}
	if in.WeightAtVisit.IsSet() {
		set("weight_at_visit", in.WeightAtVisit.Ptr())
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE medical_records SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), idx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("medical record")
	}
	return r.GetByID(ctx, id)
}

func (r *recordRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("medical record")
	}
	return nil
}

package scheduling

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
)

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) Repository {
	return &appointmentRepoPG{pool: pool}
}

// Reads join the referenced tables so responses carry names without per-row
// lookups. The veterinarian is required, so a missing row falls back to a
// placeholder in SQL; patient and client are optional and handled in the
// scanner.
const appointmentCols = `a.id, a.patient_id, pa.name, a.client_id, cl.name,
	a.veterinarian_id, COALESCE(u.name, 'Unknown Veterinarian'),
	a.start_time, a.end_time, a.status, a.reason, a.created_at, a.updated_at`

const appointmentFrom = ` FROM appointments a
	LEFT JOIN patients pa ON pa.id = a.patient_id
	LEFT JOIN clients cl ON cl.id = a.client_id
	LEFT JOIN users u ON u.id = a.veterinarian_id`

func (r *appointmentRepoPG) scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.PatientName, &a.ClientID, &a.ClientName,
		&a.VeterinarianID, &a.VeterinarianName,
		&a.StartTime, &a.EndTime, &a.Status, &a.Reason, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("appointment")
		}
		return nil, err
	}
	if a.PatientID != nil && a.PatientName == nil {
		name := "Unknown Patient"
		a.PatientName = &name
	}
	if a.ClientID != nil && a.ClientName == nil {
		name := "Unknown Client"
		a.ClientName = &name
	}
	a.Enrich()
	return &a, nil
}

// mapWriteError translates constraint failures into API errors. The
// exclusion constraint on (veterinarian_id, time range) is the final
// authority on double booking; hitting it reads the same as losing the
// availability check.
func (r *appointmentRepoPG) mapWriteError(err error) error {
	if db.IsExclusionViolation(err) {
		return httperr.Conflict(msgVetUnavailable)
	}
	if db.IsForeignKeyViolation(err) {
		switch db.ConstraintName(err) {
		case "appointments_patient_id_fkey":
			return httperr.Validation("patient does not exist")
		case "appointments_client_id_fkey":
			return httperr.Validation("client does not exist")
		case "appointments_veterinarian_id_fkey":
			return httperr.Validation("veterinarian does not exist")
		}
	}
	return err
}

func (r *appointmentRepoPG) Create(ctx context.Context, appt *Appointment) error {
	appt.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, patient_id, client_id, veterinarian_id, start_time, end_time, status, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		appt.ID, appt.PatientID, appt.ClientID, appt.VeterinarianID,
		appt.StartTime, appt.EndTime, appt.Status, appt.Reason)
	if err != nil {
		return r.mapWriteError(err)
	}

	created, err := r.GetByID(ctx, appt.ID)
	if err != nil {
		return err
	}
	*appt = *created
	return nil
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return r.scanAppointment(r.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+appointmentFrom+` WHERE a.id = $1`, id))
}

func (r *appointmentRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Appointment, int, error) {
	where := appointmentFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.PatientID != nil {
		where += fmt.Sprintf(` AND a.patient_id = $%d`, idx)
		args = append(args, *f.PatientID)
		idx++
	}
	if f.ClientID != nil {
		where += fmt.Sprintf(` AND a.client_id = $%d`, idx)
		args = append(args, *f.ClientID)
		idx++
	}
	if f.VeterinarianID != nil {
		where += fmt.Sprintf(` AND a.veterinarian_id = $%d`, idx)
		args = append(args, *f.VeterinarianID)
		idx++
	}
	if f.Status != "" {
		where += fmt.Sprintf(` AND a.status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}
	if f.StartDate != nil {
		where += fmt.Sprintf(` AND a.start_time >= $%d`, idx)
		args = append(args, *f.StartDate)
		idx++
	}
	if f.EndDate != nil {
		where += fmt.Sprintf(` AND a.start_time <= $%d`, idx)
		args = append(args, *f.EndDate)
		idx++
	}
	if f.ReasonContains != "" {
		where += fmt.Sprintf(` AND a.reason ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.ReasonContains)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + appointmentCols + where +
		fmt.Sprintf(` ORDER BY a.start_time DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Appointment
	for rows.Next() {
		appt, err := r.scanAppointment(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, appt)
	}
	return items, total, rows.Err()
}

func (r *appointmentRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Appointment, error) {
	var sets []string
	var args []interface{}
	idx := 1

	set := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, idx))
		args = append(args, val)
		idx++
	}

	if in.PatientID.IsSet() {
		set("patient_id", in.PatientID.Ptr())
	}
	if in.ClientID.IsSet() {
		set("client_id", in.ClientID.Ptr())
	}
	if v, ok := in.VeterinarianID.Value(); ok {
		set("veterinarian_id", v)
	}
	if v, ok := in.StartTime.Value(); ok {
		set("start_time", v)
	}
	if v, ok := in.EndTime.Value(); ok {
		set("end_time", v)
	}
	if v, ok := in.Status.Value(); ok {
		set("status", v)
	}
	if v, ok := in.Reason.Value(); ok {
		set("reason", v)
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE appointments SET %s WHERE id = $%d`,
		strings.Join(sets, ", "), idx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("appointment")
	}
	return r.GetByID(ctx, id)
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepoPG) HasOverlap(ctx context.Context, vetID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) (bool, error) {
	var overlap bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE veterinarian_id = $1
			  AND start_time < $3
			  AND end_time > $2
			  AND ($4::uuid IS NULL OR id != $4)
		)`, vetID, start, end, excludeID).Scan(&overlap)
	if err != nil {
		return false, err
	}
	return overlap, nil
}

package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type statsRepoPG struct{ pool *pgxpool.Pool }

func NewStatsRepoPG(pool *pgxpool.Pool) Repository {
	return &statsRepoPG{pool: pool}
}

func (r *statsRepoPG) AppointmentsByMonth(ctx context.Context, start, end *time.Time) ([]MonthCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT TO_CHAR(start_time, 'YYYY-MM') AS month, COUNT(*)
		FROM appointments
		WHERE ($1::date IS NULL OR start_time::date >= $1::date)
		  AND ($2::date IS NULL OR start_time::date <= $2::date)
		GROUP BY month
		ORDER BY month ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MonthCount
	for rows.Next() {
		var mc MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, err
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

// UserCounts only counts active accounts; deactivated staff stay out of the
// headcount.
func (r *statsRepoPG) UserCounts(ctx context.Context) (*UserCounts, error) {
	var uc UserCounts
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE role = 'veterinarian'),
			COUNT(*) FILTER (WHERE role = 'assistant'),
			COUNT(*) FILTER (WHERE role = 'admin')
		FROM users
		WHERE is_active = TRUE`).
		Scan(&uc.TotalUsers, &uc.Veterinarians, &uc.Assistants, &uc.Admins)
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *statsRepoPG) ProceduresByType(ctx context.Context, start, end *time.Time) ([]TypeCount, error) {
	return r.typeCounts(ctx, `
		SELECT p.procedure_type, COUNT(*)
		FROM patient_procedures pp
		JOIN procedures p ON p.id = pp.procedure_id
		WHERE ($1::date IS NULL OR pp.date >= $1::date)
		  AND ($2::date IS NULL OR pp.date <= $2::date)
		GROUP BY p.procedure_type
		ORDER BY COUNT(*) DESC`, start, end)
}

func (r *statsRepoPG) PatientsBySpecies(ctx context.Context) ([]SpeciesCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT species, COUNT(*)
		FROM patients
		GROUP BY species
		ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpeciesCounts(rows)
}

func (r *statsRepoPG) AppointmentsByStatus(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]StatusCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*)
		FROM appointments
		WHERE veterinarian_id = $1
		  AND ($2::date IS NULL OR start_time::date >= $2::date)
		  AND ($3::date IS NULL OR start_time::date <= $3::date)
		GROUP BY status`, vetID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StatusCount
	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (r *statsRepoPG) ProceduresPerformed(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]TypeCount, error) {
	return r.typeCounts(ctx, `
		SELECT p.procedure_type, COUNT(*)
		FROM patient_procedures pp
		JOIN procedures p ON p.id = pp.procedure_id
		WHERE pp.veterinarian_id = $1
		  AND ($2::date IS NULL OR pp.date >= $2::date)
		  AND ($3::date IS NULL OR pp.date <= $3::date)
		GROUP BY p.procedure_type`, vetID, start, end)
}

func (r *statsRepoPG) MedicalRecordsCreated(ctx context.Context, vetID uuid.UUID, start, end *time.Time) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM medical_records
		WHERE veterinarian_id = $1
		  AND ($2::date IS NULL OR date::date >= $2::date)
		  AND ($3::date IS NULL OR date::date <= $3::date)`,
		vetID, start, end).Scan(&count)
	return count, err
}

func (r *statsRepoPG) PatientsAttended(ctx context.Context, vetID uuid.UUID, start, end *time.Time) ([]SpeciesCount, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT pa.species, COUNT(DISTINCT pa.id)
		FROM appointments a
		JOIN patients pa ON pa.id = a.patient_id
		WHERE a.veterinarian_id = $1
		  AND ($2::date IS NULL OR a.start_time::date >= $2::date)
		  AND ($3::date IS NULL OR a.start_time::date <= $3::date)
		GROUP BY pa.species`, vetID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanSpeciesCounts(rows)
}

func (r *statsRepoPG) typeCounts(ctx context.Context, query string, args ...interface{}) ([]TypeCount, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TypeCount
	for rows.Next() {
		var tc TypeCount
		if err := rows.Scan(&tc.ProcedureType, &tc.Count); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

func scanSpeciesCounts(rows pgx.Rows) ([]SpeciesCount, error) {
	var out []SpeciesCount
	for rows.Next() {
		var sc SpeciesCount
		if err := rows.Scan(&sc.Species, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

package patient

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

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) Repository {
	return &patientRepoPG{pool: pool}
}

// Reads join the breed catalog so responses carry the breed name without a
// per-row lookup.
const patientCols = `p.id, p.name, p.species, p.breed_id, b.name, p.birth_date,
	p.gender, p.weight_kg, p.client_id, p.photo_url, p.created_at, p.updated_at`

const patientFrom = ` FROM patients p LEFT JOIN breeds b ON b.id = p.breed_id`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	var birth *time.Time
	err := row.Scan(&p.ID, &p.Name, &p.Species, &p.BreedID, &p.BreedName, &birth,
		&p.Gender, &p.WeightKg, &p.ClientID, &p.PhotoURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("patient")
		}
		return nil, err
	}
	if birth != nil {
		d := birth.Format("2006-01-02")
		p.BirthDate = &d
	}
	return &p, nil
}

func (r *patientRepoPG) mapWriteError(err error) error {
	if db.IsForeignKeyViolation(err) {
		switch db.ConstraintName(err) {
		case "patients_client_id_fkey":
			return httperr.Validation("client does not exist")
		case "patients_breed_id_fkey":
			return httperr.Validation("breed does not exist")
		}
	}
	return err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO patients (id, name, species, breed_id, birth_date, gender, weight_kg, client_id, photo_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Species, p.BreedID, p.BirthDate, p.Gender, p.WeightKg, p.ClientID, p.PhotoURL)
	if err != nil {
		return r.mapWriteError(err)
	}

	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.pool.QueryRow(ctx,
		`SELECT `+patientCols+patientFrom+` WHERE p.id = $1`, id))
}

func (r *patientRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Patient, int, error) {
	where := patientFrom + ` WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Name != "" {
		where += fmt.Sprintf(` AND p.name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.Name)
		idx++
	}
	if f.Species != "" {
		where += fmt.Sprintf(` AND p.species = $%d`, idx)
		args = append(args, f.Species)
		idx++
	}
	if f.BreedID != nil {
		where += fmt.Sprintf(` AND p.breed_id = $%d`, idx)
		args = append(args, *f.BreedID)
		idx++
	}
	if f.ClientID != nil {
		where += fmt.Sprintf(` AND p.client_id = $%d`, idx)
		args = append(args, *f.ClientID)
		idx++
	}
	if f.Gender != "" {
		where += fmt.Sprintf(` AND p.gender = $%d`, idx)
		args = append(args, f.Gender)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + patientCols + where +
		fmt.Sprintf(` ORDER BY p.name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *patientRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Patient, error) {
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
	if v, ok := in.Species.Value(); ok {
		set("species", v)
	}
	// A nil pointer from Ptr clears the column.
	if in.BreedID.IsSet() {
		set("breed_id", in.BreedID.Ptr())
	}
	if in.BirthDate.IsSet() {
		set("birth_date", in.BirthDate.Ptr())
	}
	if in.Gender.IsSet() {
		set("gender", in.Gender.Ptr())
	}
	if in.WeightKg.IsSet() {
		set("weight_kg", in.WeightKg.Ptr())
	}
	if v, ok := in.ClientID.Value(); ok {
		set("client_id", v)
	}
	if in.PhotoURL.IsSet() {
		set("photo_url", in.PhotoURL.Ptr())
	}

	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE patients SET %s WHERE id = $%d`, strings.Join(sets, ", "), idx)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, r.mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, httperr.NotFound("patient")
	}
	return r.GetByID(ctx, id)
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("patient")
	}
	return nil
}

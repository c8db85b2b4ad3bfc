package breed

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

type breedRepoPG struct{ pool *pgxpool.Pool }

func NewBreedRepoPG(pool *pgxpool.Pool) Repository {
	return &breedRepoPG{pool: pool}
}

const breedCols = `id, species, name, created_at, updated_at`

func (r *breedRepoPG) scanBreed(row pgx.Row) (*Breed, error) {
	var b Breed
	err := row.Scan(&b.ID, &b.Species, &b.Name, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, httperr.NotFound("breed")
		}
		return nil, err
	}
	return &b, nil
}

func (r *breedRepoPG) Create(ctx context.Context, b *Breed) error {
	b.ID = uuid.New()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO breeds (id, species, name)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		b.ID, b.Species, b.Name).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return httperr.Conflict("breed already exists")
		}
		return err
	}
	return nil
}

func (r *breedRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Breed, error) {
	return r.scanBreed(r.pool.QueryRow(ctx, `SELECT `+breedCols+` FROM breeds WHERE id = $1`, id))
}

func (r *breedRepoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Breed, int, error) {
	where := ` FROM breeds WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Species != "" {
		where += fmt.Sprintf(` AND species = $%d`, idx)
		args = append(args, f.Species)
		idx++
	}
	if f.Name != "" {
		where += fmt.Sprintf(` AND name ILIKE '%%' || $%d || '%%'`, idx)
		args = append(args, f.Name)
		idx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + breedCols + where +
		fmt.Sprintf(` ORDER BY species ASC, name ASC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Breed
	for rows.Next() {
		b, err := r.scanBreed(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (r *breedRepoPG) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Breed, error) {
	var sets []string
	var args []interface{}
	idx := 1

	if sp, ok := in.Species.Value(); ok {
		sets = append(sets, fmt.Sprintf("species = $%d", idx))
		args = append(args, sp)
		idx++
	}
	if name, ok := in.Name.Value(); ok {
		sets = append(sets, fmt.Sprintf("name = $%d", idx))
		args = append(args, name)
		idx++
	}
	if len(sets) == 0 {
		return r.GetByID(ctx, id)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE breeds SET %s WHERE id = $%d RETURNING `+breedCols,
		strings.Join(sets, ", "), idx)

	b, err := r.scanBreed(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, httperr.Conflict("breed already exists")
		}
		return nil, err
	}
	return b, nil
}

func (r *breedRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM breeds WHERE id = $1`, id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return httperr.Conflict("breed has registered patients")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return httperr.NotFound("breed")
	}
	return nil
}

func (r *breedRepoPG) ExistsBySpeciesAndName(ctx context.Context, species, name string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM breeds
			WHERE species = $1 AND LOWER(name) = LOWER($2) AND id <> $3
		)`, species, name, excludeID).Scan(&exists)
	return exists, err
}

func (r *breedRepoPG) CountPatients(ctx context.Context, breedID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM patients WHERE breed_id = $1`, breedID).Scan(&n)
	return n, err
}

package user

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for staff accounts and login.
type Service struct {
	users     Repository
	jwtSecret []byte
}

// NewService creates a user service. jwtSecret signs login tokens.
func NewService(users Repository, jwtSecret []byte) *Service {
	return &Service{users: users, jwtSecret: jwtSecret}
}

func (s *Service) CreateUser(ctx context.Context, in CreateInput) (*User, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	var v validate.Violations
	v.Email("email", in.Email)
	v.MaxLength("email", in.Email, 255)
	v.StringLength("password", in.Password, 8, 72)
	v.StringLength("name", in.Name, 2, 100)
	v.OneOf("role", in.Role, AllRoles)
	if in.LicenseNumber != nil {
		v.MaxLength("license_number", *in.LicenseNumber, 50)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, httperr.Conflict("email already registered")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, httperr.Internal(err)
	}

	u := &User{
		Email:         in.Email,
		PasswordHash:  hash,
		Name:          in.Name,
		Role:          in.Role,
		LicenseNumber: in.LicenseNumber,
		IsActive:      true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser returns an active account; deactivated accounts read as missing.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, httperr.NotFound("user")
	}
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, f Filter, limit, offset int) ([]*User, int, error) {
	var v validate.Violations
	if f.Role != "" {
		v.OneOf("role", f.Role, AllRoles)
	}
	if err := v.Err(); err != nil {
		return nil, 0, err
	}
	return s.users.List(ctx, f, limit, offset)
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	var v validate.Violations

	if in.Email.IsSet() {
		if in.Email.IsNull() {
			v.NotRemovable("email")
		} else {
			email, _ := in.Email.Value()
			email = strings.TrimSpace(email)
			in.Email = patch.NewValue(email)
			v.Email("email", email)
			v.MaxLength("email", email, 255)
		}
	}
	if in.Password.IsSet() {
		if in.Password.IsNull() {
			v.NotRemovable("password")
		} else {
			pw, _ := in.Password.Value()
			v.StringLength("password", pw, 8, 72)
		}
	}
	if in.Name.IsSet() {
		if in.Name.IsNull() {
			v.NotRemovable("name")
		} else {
			name, _ := in.Name.Value()
			name = strings.TrimSpace(name)
			in.Name = patch.NewValue(name)
			v.StringLength("name", name, 2, 100)
		}
	}
	if in.Role.IsSet() {
		if in.Role.IsNull() {
			v.NotRemovable("role")
		} else {
			role, _ := in.Role.Value()
			v.OneOf("role", role, AllRoles)
		}
	}
	if ln, ok := in.LicenseNumber.Value(); ok {
		v.MaxLength("license_number", ln, 50)
	}
	if in.IsActive.IsNull() {
		v.NotRemovable("is_active")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := in.Email.Value(); ok && email != current.Email {
		exists, err := s.users.ExistsByEmail(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, httperr.Conflict("email already registered")
		}
	}

	if pw, ok := in.Password.Value(); ok {
		hash, err := auth.HashPassword(pw)
		if err != nil {
			return nil, httperr.Internal(err)
		}
		in.Password = patch.NewValue(hash)
	}

	return s.users.Update(ctx, id, in)
}

// DeleteUser deactivates the account. The record stays in storage.
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.users.Deactivate(ctx, id)
}

// Login verifies credentials and issues a signed token. Failures are
// reported uniformly so callers cannot probe which part was wrong.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	in.Email = strings.TrimSpace(in.Email)

	var v validate.Violations
	v.Email("email", in.Email)
	v.StringLength("password", in.Password, 8, 72)
	if err := v.Err(); err != nil {
		return nil, err
	}

	u, err := s.users.GetActiveByEmail(ctx, in.Email)
	if err != nil {
		if httperr.IsNotFound(err) {
			return nil, httperr.Unauthorized("invalid credentials")
		}
		return nil, err
	}

	if !auth.VerifyPassword(u.PasswordHash, in.Password) {
		return nil, httperr.Unauthorized("invalid credentials")
	}

	token, err := auth.IssueToken(s.jwtSecret, u.ID, u.Role)
	if err != nil {
		return nil, httperr.Internal(err)
	}

	return &LoginResult{Token: token, User: u}, nil
}

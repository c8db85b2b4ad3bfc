package client

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/internal/platform/validate"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// Service provides business logic for clients.
type Service struct {
	clients Repository
}

// NewService creates a client service.
func NewService(clients Repository) *Service {
	return &Service{clients: clients}
}

func (s *Service) CreateClient(ctx context.Context, in CreateInput) (*Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Email != nil {
		trimmed := strings.TrimSpace(*in.Email)
		in.Email = &trimmed
	}

	var v validate.Violations
	v.StringLength("name", in.Name, 3, 100)
	if in.Email != nil {
		v.Email("email", *in.Email)
		v.MaxLength("email", *in.Email, 255)
	}
	v.StringLength("phone", in.Phone, 10, 20)
	if in.Address != nil {
		v.MaxLength("address", *in.Address, 500)
	}
	if in.Notes != nil {
		v.MaxLength("notes", *in.Notes, 1000)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	if in.Email != nil {
		exists, err := s.clients.ExistsByEmail(ctx, *in.Email, uuid.Nil)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, httperr.Conflict("email already registered")
		}
	}

	cl := &Client{
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		Notes:      in.Notes,
		AssignedTo: in.AssignedTo,
	}
	if err := s.clients.Create(ctx, cl); err != nil {
		return nil, err
	}
	return cl, nil
}

func (s *Service) GetClient(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *Service) ListClients(ctx context.Context, f Filter, limit, offset int) ([]*Client, int, error) {
	return s.clients.List(ctx, f, limit, offset)
}

func (s *Service) UpdateClient(ctx context.Context, id uuid.UUID, in UpdateInput) (*Client, error) {
	var v validate.Violations

	if in.Name.IsSet() {
		if in.Name.IsNull() {
			v.NotRemovable("name")
		} else {
			name, _ := in.Name.Value()
			name = strings.TrimSpace(name)
			in.Name = patch.NewValue(name)
			v.StringLength("name", name, 3, 100)
		}
	}
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
	if in.Phone.IsSet() {
		if in.Phone.IsNull() {
			v.NotRemovable("phone")
		} else {
			phone, _ := in.Phone.Value()
			v.StringLength("phone", phone, 10, 20)
		}
	}
	if addr, ok := in.Address.Value(); ok {
		v.MaxLength("address", addr, 500)
	}
	if notes, ok := in.Notes.Value(); ok {
		v.MaxLength("notes", notes, 1000)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	current, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if email, ok := in.Email.Value(); ok {
		if current.Email == nil || *current.Email != email {
			exists, err := s.clients.ExistsByEmail(ctx, email, id)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, httperr.Conflict("email already registered")
			}
		}
	}

	return s.clients.Update(ctx, id, in)
}

func (s *Service) DeleteClient(ctx context.Context, id uuid.UUID) error {
	if _, err := s.clients.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.clients.CountPatients(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return httperr.Conflict("client has registered patients")
	}
	return s.clients.Delete(ctx, id)
}

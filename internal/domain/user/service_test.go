package user

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vetclinic/vetclinic/internal/platform/auth"
	"github.com/vetclinic/vetclinic/internal/platform/httperr"
	"github.com/vetclinic/vetclinic/pkg/patch"
)

// =========== Mock Repository ===========

type mockUserRepo struct {
	store map[uuid.UUID]*User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{store: make(map[uuid.UUID]*User)}
}

func (m *mockUserRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	stored := *u
	m.store[u.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("user")
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) GetActiveByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.store {
		if u.IsActive && strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, httperr.NotFound("user")
}

func (m *mockUserRepo) List(_ context.Context, f Filter, limit, offset int) ([]*User, int, error) {
	var items []*User
	for _, u := range m.store {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.IsActive != nil && u.IsActive != *f.IsActive {
			continue
		}
		out := *u
		items = append(items, &out)
	}
	return items, len(items), nil
}

func (m *mockUserRepo) Update(_ context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, httperr.NotFound("user")
	}
	if email, ok := in.Email.Value(); ok {
		u.Email = email
	}
	if hash, ok := in.Password.Value(); ok {
		u.PasswordHash = hash
	}
	if name, ok := in.Name.Value(); ok {
		u.Name = name
	}
	if role, ok := in.Role.Value(); ok {
		u.Role = role
	}
	if in.LicenseNumber.IsNull() {
		u.LicenseNumber = nil
	} else if ln, ok := in.LicenseNumber.Value(); ok {
		u.LicenseNumber = &ln
	}
	if active, ok := in.IsActive.Value(); ok {
		u.IsActive = active
	}
	u.UpdatedAt = time.Now()
	out := *u
	return &out, nil
}

func (m *mockUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	u, ok := m.store[id]
	if !ok || !u.IsActive {
		return httperr.NotFound("user")
	}
	u.IsActive = false
	return nil
}

func (m *mockUserRepo) ExistsByEmail(_ context.Context, email string, excludeID uuid.UUID) (bool, error) {
	for id, u := range m.store {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// =========== Helpers ===========

func newTestService() (*Service, *mockUserRepo) {
	repo := newMockUserRepo()
	return NewService(repo, []byte("test-secret")), repo
}

func mustCreateUser(t *testing.T, svc *Service, email, role string) *User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    email,
		Password: "hunter2hunter2",
		Name:     "Dr. Ana Souza",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return u
}

// =========== Tests ===========

func TestCreateUser_Success(t *testing.T) {
	svc, _ := newTestService()
	u, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    "ana@clinic.test",
		Password: "hunter2hunter2",
		Name:     "Dr. Ana Souza",
		Role:     RoleVeterinarian,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.ID == uuid.Nil {
		t.Fatal("expected an assigned id")
	}
	if !u.IsActive {
		t.Fatal("new accounts must start active")
	}
	if u.PasswordHash == "" || u.PasswordHash == "hunter2hunter2" {
		t.Fatal("password must be stored hashed")
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService()
	mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	_, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    "ana@clinic.test",
		Password: "hunter2hunter2",
		Name:     "Another Ana",
		Role:     RoleAssistant,
	})
	if !httperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateUser_CollectsAllViolations(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateUser(context.Background(), CreateInput{
		Email:    "not-an-email",
		Password: "short",
		Name:     "A",
		Role:     "janitor",
	})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr *httperr.Error
	errors.As(err, &apiErr)
	if len(apiErr.Violations) != 4 {
		t.Fatalf("expected 4 violations, got %v", apiErr.Violations)
	}
}

func TestGetUser_DeactivatedReadsAsMissing(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	if err := svc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetUser(context.Background(), u.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteUser_Twice(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	if err := svc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.DeleteUser(context.Background(), u.ID); !httperr.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestUpdateUser_NullEmailRejected(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	_, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{Email: patch.NewNull[string]()})
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	var apiErr *httperr.Error
	errors.As(err, &apiErr)
	if len(apiErr.Violations) != 1 || apiErr.Violations[0] != "email cannot be removed, only updated" {
		t.Fatalf("unexpected violations: %v", apiErr.Violations)
	}
}

func TestUpdateUser_ClearLicenseNumber(t *testing.T) {
	svc, _ := newTestService()
	license := "CRMV-12345"
	u, err := svc.CreateUser(context.Background(), CreateInput{
		Email:         "ana@clinic.test",
		Password:      "hunter2hunter2",
		Name:          "Dr. Ana Souza",
		Role:          RoleVeterinarian,
		LicenseNumber: &license,
	})
	if err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{LicenseNumber: patch.NewNull[string]()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.LicenseNumber != nil {
		t.Fatalf("expected cleared license number, got %q", *got.LicenseNumber)
	}
}

func TestUpdateUser_EmailTakenByAnotherAccount(t *testing.T) {
	svc, _ := newTestService()
	mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)
	u := mustCreateUser(t, svc, "bruno@clinic.test", RoleAssistant)

	_, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{Email: patch.NewValue("ana@clinic.test")})
	if !httperr.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	svc, repo := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	_, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{Password: patch.NewValue("correct-horse-battery")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := repo.store[u.ID]
	if stored.PasswordHash == "correct-horse-battery" {
		t.Fatal("password must be stored hashed")
	}
	if !auth.VerifyPassword(stored.PasswordHash, "correct-horse-battery") {
		t.Fatal("stored hash does not verify against the new password")
	}
}

func TestUpdateUser_EmptyPatchIsNoop(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	got, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != u.Email || got.Name != u.Name || got.Role != u.Role {
		t.Fatalf("empty patch changed the account: %+v", got)
	}
}

func TestUpdateUser_Reactivate(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)
	if err := svc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatal(err)
	}

	got, err := svc.UpdateUser(context.Background(), u.ID, UpdateInput{IsActive: patch.NewValue(true)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.IsActive {
		t.Fatal("expected reactivated account")
	}
	if _, err := svc.GetUser(context.Background(), u.ID); err != nil {
		t.Fatalf("reactivated account should be readable: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _ := newTestService()
	mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	result, err := svc.Login(context.Background(), LoginInput{Email: "ana@clinic.test", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Token == "" {
		t.Fatal("expected a signed token")
	}
	if result.User == nil || result.User.Email != "ana@clinic.test" {
		t.Fatalf("unexpected user in login result: %+v", result.User)
	}

	claims, err := auth.ParseToken([]byte("test-secret"), result.Token)
	if err != nil {
		t.Fatalf("token does not parse: %v", err)
	}
	if claims.Role != RoleVeterinarian {
		t.Fatalf("expected role claim %q, got %q", RoleVeterinarian, claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newTestService()
	mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@clinic.test", Password: "wrong-password"})
	if !httperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Login(context.Background(), LoginInput{Email: "ghost@clinic.test", Password: "hunter2hunter2"})
	if !httperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("unknown email must not be distinguishable: %q", err.Error())
	}
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	svc, _ := newTestService()
	u := mustCreateUser(t, svc, "ana@clinic.test", RoleVeterinarian)
	if err := svc.DeleteUser(context.Background(), u.ID); err != nil {
		t.Fatal(err)
	}

	_, err := svc.Login(context.Background(), LoginInput{Email: "ana@clinic.test", Password: "hunter2hunter2"})
	if !httperr.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestListUsers_InvalidRoleFilter(t *testing.T) {
	svc, _ := newTestService()
	_, _, err := svc.ListUsers(context.Background(), Filter{Role: "janitor"}, 50, 0)
	if !httperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

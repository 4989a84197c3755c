package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ATS-backend/internal/testutil"
)

var testSecret = []byte("test-secret")

func newTestService(t *testing.T) *Service {
	t.Helper()
	d := testutil.OpenDB(t)
	return NewService(d, testSecret, time.Hour)
}

func register(t *testing.T, svc *Service, name, email, role, dept string) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Name: name, Email: email, Password: "hunter22", Role: role, Department: dept,
	})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return u
}

func TestRegisterAssignsSequentialEmployeeIDs(t *testing.T) {
	svc := newTestService(t)

	u1 := register(t, svc, "Alice", "alice@example.com", RoleEmployee, "Engineering")
	register(t, svc, "Bob", "bob@example.com", RoleEmployee, "Engineering")
	register(t, svc, "Carol", "carol@example.com", RoleManager, "Sales")
	u4 := register(t, svc, "Dave", "dave@example.com", "", "Sales")

	if u1.EmployeeID != "EMP001" {
		t.Fatalf("first id = %s, want EMP001", u1.EmployeeID)
	}
	if u4.EmployeeID != "EMP004" {
		t.Fatalf("fourth id = %s, want EMP004", u4.EmployeeID)
	}
	if u4.Role != RoleEmployee {
		t.Fatalf("default role = %s, want employee", u4.Role)
	}
	if u1.PasswordHash == "hunter22" {
		t.Fatal("password stored in the clear")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	register(t, svc, "Alice", "alice@example.com", RoleEmployee, "Engineering")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Imposter", Email: "alice@example.com", Password: "hunter22",
	})
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "hunter22", Role: "admin",
	})
	if err == nil {
		t.Fatal("expected unknown role to fail")
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "Alice", "alice@example.com", RoleManager, "Engineering")
	ctx := context.Background()

	signed, got, err := svc.Login(ctx, "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("user = %s, want %s", got.ID, u.ID)
	}

	token, err := jwt.Parse(signed, func(*jwt.Token) (any, error) { return testSecret, nil },
		jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["sub"] != u.ID {
		t.Fatalf("sub = %v, want %s", claims["sub"], u.ID)
	}
	if claims["role"] != RoleManager {
		t.Fatalf("role = %v, want manager", claims["role"])
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "ghost@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestMe(t *testing.T) {
	svc := newTestService(t)
	u := register(t, svc, "Alice", "alice@example.com", RoleEmployee, "Engineering")
	ctx := context.Background()

	got, err := svc.Me(ctx, u.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if got.Email != "alice@example.com" || got.EmployeeID != "EMP001" {
		t.Fatalf("profile = %+v", got)
	}

	if _, err := svc.Me(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id err = %v", err)
	}
}

package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"qless/internal/domain/account"
)

type loginAcctStore struct {
	accounts map[string]account.Account
	saved    []account.Account
}

func newLoginAcctStore() *loginAcctStore {
	return &loginAcctStore{accounts: make(map[string]account.Account)}
}

func (s *loginAcctStore) GetByEmail(_ context.Context, email string) (account.Account, error) {
	acct, ok := s.accounts[email]
	if !ok {
		return account.Account{}, errors.New("account not found")
	}
	return acct, nil
}

func (s *loginAcctStore) Save(_ context.Context, a account.Account) error {
	s.accounts[a.Email] = a
	s.saved = append(s.saved, a)
	return nil
}

func (s *loginAcctStore) add(t *testing.T, email, password, role string) {
	t.Helper()
	acct := account.Account{ID: "acct-" + email, Email: email, Name: "Test", Role: role}
	if err := acct.SetPassword(password); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	s.accounts[email] = acct
}

func TestLogin_Success(t *testing.T) {
	store := newLoginAcctStore()
	store.add(t, "student@iiti.ac.in", "student123", account.RoleStudent)

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "student@iiti.ac.in",
		Password: "student123",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Email != "student@iiti.ac.in" || result.Role != account.RoleStudent {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newLoginAcctStore()
	store.add(t, "student@iiti.ac.in", "student123", account.RoleStudent)

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "student@iiti.ac.in",
		Password: "not-the-password",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	// Failure must be recorded.
	if store.accounts["student@iiti.ac.in"].FailedLogins != 1 {
		t.Errorf("FailedLogins = %d, want 1", store.accounts["student@iiti.ac.in"].FailedLogins)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newLoginAcctStore()

	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "nobody@iiti.ac.in",
		Password: "whatever1",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_EmptyInput(t *testing.T) {
	store := newLoginAcctStore()

	for _, input := range []LoginInput{
		{Email: "", Password: "student123"},
		{Email: "student@iiti.ac.in", Password: ""},
	} {
		if _, err := ExecuteLogin(context.Background(), input, LoginDeps{AccountStore: store}); !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("input %+v: expected ErrInvalidCredentials, got %v", input, err)
		}
	}
}

func TestLogin_LockedAccount(t *testing.T) {
	store := newLoginAcctStore()
	store.add(t, "student@iiti.ac.in", "student123", account.RoleStudent)

	acct := store.accounts["student@iiti.ac.in"]
	acct.FailedLogins = 5
	acct.LockedUntil = time.Now().Add(10 * time.Minute)
	store.accounts["student@iiti.ac.in"] = acct

	// Even the correct password is rejected while locked.
	_, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "student@iiti.ac.in",
		Password: "student123",
	}, LoginDeps{AccountStore: store})
	if !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked, got %v", err)
	}
}

func TestLogin_LockoutAfterRepeatedFailures(t *testing.T) {
	store := newLoginAcctStore()
	store.add(t, "student@iiti.ac.in", "student123", account.RoleStudent)

	for i := 0; i < 5; i++ {
		_, err := ExecuteLogin(context.Background(), LoginInput{
			Email:    "student@iiti.ac.in",
			Password: "not-the-password",
		}, LoginDeps{AccountStore: store})
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i+1, err)
		}
	}

	locked := store.accounts["student@iiti.ac.in"]
	if !locked.IsLocked() {
		t.Error("account should be locked after 5 failed attempts")
	}
}

func TestLogin_SuccessResetsFailureCount(t *testing.T) {
	store := newLoginAcctStore()
	store.add(t, "student@iiti.ac.in", "student123", account.RoleStudent)

	acct := store.accounts["student@iiti.ac.in"]
	acct.FailedLogins = 3
	store.accounts["student@iiti.ac.in"] = acct

	if _, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "student@iiti.ac.in",
		Password: "student123",
	}, LoginDeps{AccountStore: store}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := store.accounts["student@iiti.ac.in"].FailedLogins; got != 0 {
		t.Errorf("FailedLogins = %d, want 0 after success", got)
	}
}

// TestLogin_MissingRoleDowngradesToStudent covers accounts persisted without
// a role: they log in as students rather than being blocked.
func TestLogin_MissingRoleDowngradesToStudent(t *testing.T) {
	store := newLoginAcctStore()
	acct := account.Account{ID: "acct-1", Email: "legacy@iiti.ac.in", Name: "Legacy", Role: ""}
	if err := acct.SetPassword("legacy123"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	store.accounts[acct.Email] = acct

	result, err := ExecuteLogin(context.Background(), LoginInput{
		Email:    "legacy@iiti.ac.in",
		Password: "legacy123",
	}, LoginDeps{AccountStore: store})
	if err != nil {
		t.Fatalf("login with missing role must succeed: %v", err)
	}
	if result.Role != account.RoleStudent {
		t.Errorf("Role = %q, want %q", result.Role, account.RoleStudent)
	}
}

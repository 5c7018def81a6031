package orchestrators

import (
	"context"
	"errors"
	"testing"

	"qless/internal/domain/account"
)

// crAcctStore is a change-role test double keyed by account ID.
type crAcctStore struct {
	accounts map[string]account.Account
}

// GetByID implements AccountStoreForChangeRole.
// POST: Returns the entity or an error if not found
func (s *crAcctStore) GetByID(ctx context.Context, id string) (account.Account, error) {
	if a, ok := s.accounts[id]; ok {
		return a, nil
	}
	return account.Account{}, errors.New("not found")
}

// Save implements AccountStoreForChangeRole.
// POST: Entity is persisted
func (s *crAcctStore) Save(ctx context.Context, a account.Account) error {
	s.accounts[a.ID] = a
	return nil
}

func newCRStore() *crAcctStore {
	return &crAcctStore{accounts: map[string]account.Account{
		"acct-sa": {ID: "acct-sa", Email: "superadmin@iiti.ac.in", Role: account.RoleSuperAdmin},
		"acct-s":  {ID: "acct-s", Email: "student@iiti.ac.in", Role: account.RoleStudent},
	}}
}

func TestChangeRole_Promote(t *testing.T) {
	store := newCRStore()
	input := ChangeRoleInput{ActorID: "acct-sa", AccountID: "acct-s", NewRole: account.RoleAdmin}

	if err := ExecuteChangeRole(context.Background(), input, ChangeRoleDeps{AccountStore: store}); err != nil {
		t.Fatalf("ExecuteChangeRole failed: %v", err)
	}
	if got := store.accounts["acct-s"].Role; got != account.RoleAdmin {
		t.Errorf("role = %q, want admin", got)
	}
}

func TestChangeRole_Demote(t *testing.T) {
	store := newCRStore()
	store.accounts["acct-a"] = account.Account{ID: "acct-a", Email: "admin@iiti.ac.in", Role: account.RoleAdmin}
	input := ChangeRoleInput{ActorID: "acct-sa", AccountID: "acct-a", NewRole: account.RoleStudent}

	if err := ExecuteChangeRole(context.Background(), input, ChangeRoleDeps{AccountStore: store}); err != nil {
		t.Fatalf("ExecuteChangeRole failed: %v", err)
	}
	if got := store.accounts["acct-a"].Role; got != account.RoleStudent {
		t.Errorf("role = %q, want student", got)
	}
}

func TestChangeRole_OwnRoleRejected(t *testing.T) {
	store := newCRStore()
	input := ChangeRoleInput{ActorID: "acct-sa", AccountID: "acct-sa", NewRole: account.RoleStudent}

	err := ExecuteChangeRole(context.Background(), input, ChangeRoleDeps{AccountStore: store})
	if !errors.Is(err, ErrCannotChangeOwnRole) {
		t.Errorf("expected ErrCannotChangeOwnRole, got %v", err)
	}
	if got := store.accounts["acct-sa"].Role; got != account.RoleSuperAdmin {
		t.Errorf("own role must be unchanged, got %q", got)
	}
}

// TestChangeRole_UnknownRole verifies explicit assignment rejects roles
// outside the known set. This is stricter than the login gate, which
// silently downgrades stored unknown roles to student.
func TestChangeRole_UnknownRole(t *testing.T) {
	store := newCRStore()
	input := ChangeRoleInput{ActorID: "acct-sa", AccountID: "acct-s", NewRole: "root"}

	err := ExecuteChangeRole(context.Background(), input, ChangeRoleDeps{AccountStore: store})
	if !errors.Is(err, ErrUnknownRole) {
		t.Errorf("expected ErrUnknownRole, got %v", err)
	}
	if got := store.accounts["acct-s"].Role; got != account.RoleStudent {
		t.Errorf("role must be unchanged, got %q", got)
	}
}

func TestChangeRole_UnknownAccount(t *testing.T) {
	store := newCRStore()
	input := ChangeRoleInput{ActorID: "acct-sa", AccountID: "acct-missing", NewRole: account.RoleAdmin}

	if err := ExecuteChangeRole(context.Background(), input, ChangeRoleDeps{AccountStore: store}); err == nil {
		t.Error("expected error for unknown account")
	}
}

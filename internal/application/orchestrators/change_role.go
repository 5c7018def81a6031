package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"qless/internal/domain/account"
)

// AccountStoreForChangeRole defines the store interface needed by ChangeRole.
type AccountStoreForChangeRole interface {
	GetByID(ctx context.Context, id string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
}

// ChangeRoleInput carries input for the change-role orchestrator.
type ChangeRoleInput struct {
	ActorID   string // super-admin performing the change
	AccountID string
	NewRole   string
}

// ChangeRoleDeps holds dependencies for ChangeRole.
type ChangeRoleDeps struct {
	AccountStore AccountStoreForChangeRole
}

var (
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrUnknownRole         = errors.New("unknown role")
)

// ExecuteChangeRole assigns a new role to an account. Unlike the login
// gate's silent downgrade, an explicit assignment must name a valid role.
// PRE: Caller holds the super_admin role (enforced at the route)
// POST: Account persisted with the new role
func ExecuteChangeRole(ctx context.Context, input ChangeRoleInput, deps ChangeRoleDeps) error {
	if input.AccountID == "" {
		return errors.New("account id is required")
	}
	if input.ActorID == input.AccountID {
		return ErrCannotChangeOwnRole
	}

	valid := false
	for _, r := range account.ValidRoles {
		if r == input.NewRole {
			valid = true
			break
		}
	}
	if !valid {
		return ErrUnknownRole
	}

	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	oldRole := acct.Role
	acct.Role = input.NewRole
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "role_changed", "email", acct.Email, "old_role", oldRole, "new_role", input.NewRole)
	return nil
}

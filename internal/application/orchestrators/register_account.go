package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"qless/internal/domain/account"
)

// AccountStoreForRegister defines the store interface needed by RegisterAccount.
type AccountStoreForRegister interface {
	Create(ctx context.Context, a account.Account) error
}

// RegisterAccountInput carries input for the orchestrator.
type RegisterAccountInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// RegisterAccountDeps holds dependencies for RegisterAccount.
type RegisterAccountDeps struct {
	AccountStore AccountStoreForRegister
}

// ExecuteRegisterAccount coordinates account registration.
// PRE: Valid email, password >= 8 chars; empty role downgrades to student
// POST: Account created with hashed password and unique email
func ExecuteRegisterAccount(ctx context.Context, input RegisterAccountInput, deps RegisterAccountDeps) (string, error) {
	if input.Email == "" {
		return "", errors.New("email cannot be empty")
	}
	if input.Password == "" {
		return "", errors.New("password cannot be empty")
	}

	acct := account.Account{
		ID:        uuid.New().String(),
		Email:     input.Email,
		Name:      input.Name,
		Role:      account.RoleOrStudent(input.Role),
		CreatedAt: time.Now(),
	}

	// Validate domain rules
	if err := acct.Validate(); err != nil {
		return "", err
	}

	// Set password (handles hashing and length validation)
	if err := acct.SetPassword(input.Password); err != nil {
		return "", err
	}

	// Create in store — email uniqueness is enforced there
	if err := deps.AccountStore.Create(ctx, acct); err != nil {
		return "", err
	}

	slog.Info("auth_event", "event", "account_registered", "email", input.Email, "role", acct.Role)

	return acct.ID, nil
}

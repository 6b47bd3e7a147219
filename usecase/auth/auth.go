package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/internal/infrastructure/identity"
)

// Provider is the slice of the identity client the gateway needs.
type Provider interface {
	AdminCreateUser(ctx context.Context, email, password, name string) (*identity.Account, error)
}

type UseCase struct {
	provider Provider
	logger   *zap.Logger
}

func New(provider Provider, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		provider: provider,
		logger:   logger,
	}
}

// Signup creates a pre-confirmed account through the provider's
// administrative interface. Login is not handled here: clients use the
// provider's password grant directly.
func (uc *UseCase) Signup(ctx context.Context, email, password, name string) (*identity.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "email and password are required")
	}

	account, err := uc.provider.AdminCreateUser(ctx, email, password, name)
	if err != nil {
		uc.logger.Warn("signup rejected", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	uc.logger.Info("account created", zap.String("account_id", account.ID))
	return account, nil
}

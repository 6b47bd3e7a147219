package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskmaster/backend/domain"
	"github.com/taskmaster/backend/internal/infrastructure/identity"
)

type fakeProvider struct {
	calls int
	err   error
}

func (f *fakeProvider) AdminCreateUser(ctx context.Context, email, password, name string) (*identity.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &identity.Account{ID: "acct-1", Email: email}, nil
}

func TestSignup(t *testing.T) {
	provider := &fakeProvider{}
	uc := New(provider, nil)

	account, err := uc.Signup(context.Background(), "user@example.com", "hunter22", "User")
	require.NoError(t, err)
	assert.Equal(t, "acct-1", account.ID)
	assert.Equal(t, "user@example.com", account.Email)
}

func TestSignupRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"missing email", "", "secret"},
		{"blank email", "   ", "secret"},
		{"missing password", "user@example.com", ""},
		{"both missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{}
			uc := New(provider, nil)

			_, err := uc.Signup(context.Background(), tt.email, tt.password, "")
			assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
			assert.Zero(t, provider.calls, "validation must reject before calling the provider")
		})
	}
}

func TestSignupPropagatesProviderRejection(t *testing.T) {
	provider := &fakeProvider{err: domain.NewError(domain.ErrCodeInvalid, "email already registered")}
	uc := New(provider, nil)

	_, err := uc.Signup(context.Background(), "dup@example.com", "secret", "")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

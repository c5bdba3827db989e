package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/smallbiznis/hotelbill/internal/clock"
	"github.com/smallbiznis/hotelbill/internal/config"
	"github.com/smallbiznis/hotelbill/internal/kvstore"
	orgdomain "github.com/smallbiznis/hotelbill/internal/organization/domain"
	"github.com/smallbiznis/hotelbill/internal/organization/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, store kvstore.Store) orgdomain.Service {
	t.Helper()

	return NewService(ServiceParam{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)),
		Repo:     repository.NewRepository(store),
		Defaults: mustHolder(t),
	})
}

func mustHolder(t *testing.T) *config.OrganizationConfigHolder {
	t.Helper()

	holder, err := config.NewOrganizationConfigHolder(config.Config{OrganizationConfigDir: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	return holder
}

func strPtr(s string) *string { return &s }

func TestGetFallsBackToConfiguredProfile(t *testing.T) {
	svc := newTestService(t, kvstore.NewMemoryStore())

	profile, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel & Restaurant", profile.Name)
	assert.Equal(t, "29ABCDE1234F1Z5", profile.GST)
	assert.Nil(t, profile.UpdatedAt)
}

func TestUpdatePersistsProfile(t *testing.T) {
	store := kvstore.NewMemoryStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	updated, err := svc.Update(ctx, orgdomain.UpdateProfileRequest{
		Name:  strPtr("  Lake View Inn "),
		Phone: strPtr("+91-44-0000"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Lake View Inn", updated.Name)
	assert.Equal(t, "info@grandhotel.com", updated.Email)
	require.NotNil(t, updated.UpdatedAt)

	reloaded := newTestService(t, store)
	got, err := reloaded.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Lake View Inn", got.Name)
	assert.Equal(t, "+91-44-0000", got.Phone)
}

func TestUpdateValidation(t *testing.T) {
	svc := newTestService(t, kvstore.NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Update(ctx, orgdomain.UpdateProfileRequest{Name: strPtr(" ")})
	assert.ErrorIs(t, err, orgdomain.ErrInvalidName)

	_, err = svc.Update(ctx, orgdomain.UpdateProfileRequest{Email: strPtr("not-an-email")})
	assert.ErrorIs(t, err, orgdomain.ErrInvalidEmail)

	_, err = svc.Update(ctx, orgdomain.UpdateProfileRequest{GST: strPtr("12345")})
	assert.ErrorIs(t, err, orgdomain.ErrInvalidGST)

	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel & Restaurant", profile.Name)
}

func TestCorruptStoredProfileIgnored(t *testing.T) {
	store := kvstore.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), repository.ProfileKey, []byte("{")))

	profile, err := newTestService(t, store).Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Grand Hotel & Restaurant", profile.Name)
}

type unavailableStore struct {
	kvstore.Store
}

func (unavailableStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("dial tcp 10.0.0.5:6379: connect: connection refused")
}

func TestStoreOutageDoesNotOverwriteSavedProfile(t *testing.T) {
	inner := kvstore.NewMemoryStore()
	ctx := context.Background()
	_, err := newTestService(t, inner).Update(ctx, orgdomain.UpdateProfileRequest{Name: strPtr("Hotel Saravana")})
	require.NoError(t, err)

	degraded := NewService(ServiceParam{
		Log:      zap.NewNop(),
		Clock:    clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Repo:     repository.NewRepository(unavailableStore{Store: inner}),
		Defaults: mustHolder(t),
	})

	_, err = degraded.Get(ctx)
	require.Error(t, err)
	_, err = degraded.Update(ctx, orgdomain.UpdateProfileRequest{Phone: strPtr("+91 80 1234 5678")})
	require.Error(t, err)
	assert.NotErrorIs(t, err, orgdomain.ErrProfileCorrupt)

	profile, err := newTestService(t, inner).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hotel Saravana", profile.Name)
}

package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smallbiznis/hotelbill/internal/kvstore"
	orgdomain "github.com/smallbiznis/hotelbill/internal/organization/domain"
)

const ProfileKey = "organization"

type repo struct {
	store kvstore.Store
}

func NewRepository(store kvstore.Store) orgdomain.Repository {
	return &repo{store: store}
}

func (r *repo) Load(ctx context.Context) (orgdomain.Profile, error) {
	raw, err := r.store.Get(ctx, ProfileKey)
	if err != nil {
		switch {
		case errors.Is(err, kvstore.ErrNotFound):
			return orgdomain.Profile{}, orgdomain.ErrProfileNotStored
		case errors.Is(err, kvstore.ErrCorruptValue):
			return orgdomain.Profile{}, fmt.Errorf("decode %s: %w: %w", ProfileKey, orgdomain.ErrProfileCorrupt, err)
		default:
			return orgdomain.Profile{}, fmt.Errorf("read %s: %w", ProfileKey, err)
		}
	}

	var profile orgdomain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return orgdomain.Profile{}, fmt.Errorf("decode %s: %w: %w", ProfileKey, orgdomain.ErrProfileCorrupt, err)
	}
	if profile.Name == "" {
		return orgdomain.Profile{}, fmt.Errorf("decode %s: %w: missing name", ProfileKey, orgdomain.ErrProfileCorrupt)
	}
	return profile, nil
}

func (r *repo) Save(ctx context.Context, profile orgdomain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return r.store.Set(ctx, ProfileKey, raw)
}

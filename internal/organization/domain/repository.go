package domain

import (
	"context"
	"errors"
)

var (
	ErrProfileNotStored = errors.New("organization_profile_not_stored")
	ErrProfileCorrupt   = errors.New("organization_profile_corrupt")
)

type Repository interface {
	Load(ctx context.Context) (Profile, error)
	Save(ctx context.Context, profile Profile) error
}

package domain

import (
	"context"
	"errors"
)

type Service interface {
	Get(ctx context.Context) (Profile, error)
	Update(ctx context.Context, req UpdateProfileRequest) (Profile, error)
}

// UpdateProfileRequest replaces only the fields that are set.
type UpdateProfileRequest struct {
	Name    *string `json:"name"`
	GST     *string `json:"gst"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidGST   = errors.New("invalid_gst")
)

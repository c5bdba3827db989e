// Package domain contains core types for the sign-in session service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Session is a persisted login. Only the token hash is stored.
type Session struct {
	ID               snowflake.ID `json:"id"`
	UserID           string       `json:"user_id"`
	DisplayName      string       `json:"display_name"`
	Role             string       `json:"role"`
	EmployeeID       *int64       `json:"employee_id,omitempty"`
	SessionTokenHash string       `json:"session_token_hash"`
	UserAgent        string       `json:"user_agent"`
	IPAddress        string       `json:"ip_address"`
	ExpiresAt        time.Time    `json:"expires_at"`
	RevokedAt        *time.Time   `json:"revoked_at,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	LastSeenAt       time.Time    `json:"last_seen_at"`
}

// SessionView is returned to clients without exposing token values.
type SessionView struct {
	UserID      string    `json:"user_id"`
	ExternalID  string    `json:"external_id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	EmployeeID  *int64    `json:"employee_id,omitempty"`
	ExpiresAt   time.Time `json:"expires_at"`
}

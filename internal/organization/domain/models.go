package domain

import "time"

// Profile identifies the hotel on receipts and the settings page.
type Profile struct {
	Name      string     `json:"name"`
	GST       string     `json:"gst"`
	Address   string     `json:"address"`
	Phone     string     `json:"phone"`
	Email     string     `json:"email"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

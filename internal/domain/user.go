package domain

import "time"

// User represents a registered member of the network.
type User struct {
	ID            string
	FirstName     string
	LastName      string
	Email         string
	PasswordHash  string
	PicturePath   string
	Friends       []string
	Location      string
	Occupation    string
	ViewedProfile int
	Impressions   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

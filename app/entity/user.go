package entity

import "time"

type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	Activated    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

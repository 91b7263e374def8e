package domain

import "time"

type User struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string // unique
	PasswordHash string // argon2id PHC string
	IsConfirmed  bool
	ConfirmOTP   *string // set only while unconfirmed
	Status       bool    // false disables login
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the public view of a user returned to clients.
type Profile struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
	}
}

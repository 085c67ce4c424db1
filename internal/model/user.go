package model

import "time"

type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Name               string    `json:"name"`
	HashedRefreshToken *string   `json:"-"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// HasRefreshDigest reports whether the user currently holds a valid refresh token.
func (u User) HasRefreshDigest() bool {
	return u.HashedRefreshToken != nil && *u.HashedRefreshToken != ""
}

type NewUser struct {
	Email        string
	PasswordHash string
	Name         string
}

type UserProfile struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

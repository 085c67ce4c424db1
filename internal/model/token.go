package model

type TokenClass string

const (
	TokenClassAccess  TokenClass = "access"
	TokenClassRefresh TokenClass = "refresh"
)

// TokenPayload is the signed content of both access and refresh tokens.
// Nonce is set on refresh tokens only.
type TokenPayload struct {
	UserID int64
	Email  string
	Class  TokenClass
	Nonce  string
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Identity is the authenticated caller extracted from an access token.
type Identity struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

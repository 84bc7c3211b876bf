package domain

import "time"

// Token describes an issued access token. Tokens are never persisted.
type Token struct {
	Value     string
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasExpiry reports whether the token carries an exp claim.
func (t Token) HasExpiry() bool {
	return !t.ExpiresAt.IsZero()
}

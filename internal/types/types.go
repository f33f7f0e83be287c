package types

import "github.com/google/uuid"

// TokenClaims is the validated identity extracted from a JWT.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

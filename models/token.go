package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims are the JWT claims issued by the auth service: the standard
// registered set plus the user's email.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Token bundles a parsed or freshly signed JWT with the identity fields
// extracted from its claims.
type Token struct {
	Token        *jwt.Token `json:"-"`
	SignedString string     `json:"token"`
	UserID       uuid.UUID  `json:"userId"`
	Email        string     `json:"email"`
}

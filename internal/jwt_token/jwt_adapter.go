package jwttoken

import (
	"errors"

	"sybilguard/pkg/platform/middleware/admin"
)

var errMissingSubject = errors.New("token has no subject")

// AdminValidator adapts a JWTService to admin.JWTValidator. Tokens without a
// subject are rejected so every admin action has an attributable actor.
type AdminValidator func(token string) (*Claims, error)

// ForAdmin returns the admin middleware view of service.
func ForAdmin(service *JWTService) AdminValidator {
	return service.ValidateToken
}

func (v AdminValidator) ValidateToken(token string) (*admin.JWTClaims, error) {
	claims, err := v(token)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errMissingSubject
	}
	return &admin.JWTClaims{Subject: claims.Subject, Role: claims.Role}, nil
}

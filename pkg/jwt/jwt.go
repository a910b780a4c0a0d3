package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT indica que el token no tiene forma de JWT (el backend puede emitir tokens opacos).
var ErrNotJWT = errors.New("jwt: el token no es un JWT")

// Claims claims que el cliente puede leer del token emitido por el backend.
// El cliente no conoce el secreto: nunca verifica la firma, solo inspecciona.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
	Role   string `json:"role,omitempty"`
}

// Inspect decodifica el token sin verificar la firma.
func Inspect(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("jwt: token vacío")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}
	return claims, nil
}

// Expired indica si el token tiene `exp` anterior a now.
// Tokens opacos o sin `exp` se consideran vigentes: la última palabra la tiene el backend.
func Expired(tokenString string, now time.Time) bool {
	claims, err := Inspect(tokenString)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(claims.ExpiresAt.Time)
}

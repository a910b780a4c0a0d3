package inventory

import (
	"strings"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

var unitLookup = func() map[string]string {
	m := make(map[string]string, len(entity.Units()))
	for _, u := range entity.Units() {
		m[strings.ToUpper(u)] = u
	}
	return m
}()

// CanonicalUnit resuelve (sin distinguir mayúsculas) una de {Lt, Kg, Mts, Und}.
func CanonicalUnit(value string) (string, bool) {
	u, ok := unitLookup[strings.ToUpper(strings.TrimSpace(value))]
	return u, ok
}

// EnsureUnit unidad canónica o fallback si no hay coincidencia.
func EnsureUnit(value, fallback string) string {
	if u, ok := CanonicalUnit(value); ok {
		return u
	}
	return fallback
}

package entity

import "strings"

// Profile usuario autenticado devuelto por perfilActual.
type Profile struct {
	ID            string `json:"id"`
	Nombre        string `json:"nombre"`
	NombreUsuario string `json:"nombreUsuario"`
	Rol           string `json:"rol"`
}

// DisplayName nombre para el encabezado.
func (p Profile) DisplayName() string {
	if s := strings.TrimSpace(p.Nombre); s != "" {
		return s
	}
	if p.NombreUsuario != "" {
		return p.NombreUsuario
	}
	return "operador"
}

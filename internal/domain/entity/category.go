package entity

// Category clasifica items. La eliminación en cascada la resuelve el backend.
type Category struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

package entity

// Location ubicación física donde se guardan los items.
type Location struct {
	ID          string `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

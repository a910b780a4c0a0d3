package dto

// ErrorResponse cuerpo de error HTTP. Fields lleva los errores por campo de un formulario.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ListResponse listado de una colección con su estado de carga.
type ListResponse[T any] struct {
	Items   []T  `json:"items"`
	Total   int  `json:"total"`
	Loading bool `json:"loading"`
}

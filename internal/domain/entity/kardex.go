package entity

import "github.com/shopspring/decimal"

// Kardex proyección de solo lectura por código de material, calculada por el backend.
type Kardex struct {
	CodigoMaterial string           `json:"codigoMaterial"`
	NombreMaterial string           `json:"nombreMaterial"`
	StockActual    decimal.Decimal  `json:"stockActual"`
	Movimientos    []KardexMovement `json:"movimientos"`
}

// KardexMovement registro ordenado del kardex.
type KardexMovement struct {
	Fecha         string          `json:"fecha"`
	Tipo          string          `json:"tipo"` // entrada / salida según el backend
	Referencia    string          `json:"referencia"`
	Descripcion   string          `json:"descripcion"`
	Observaciones string          `json:"observaciones"`
	Cantidad      decimal.Decimal `json:"cantidad"`
	UnidadMedida  string          `json:"unidadMedida"`
	Origen        string          `json:"origen"`
	RegistroID    string          `json:"registroId"`
	EsSinRegistro bool            `json:"esSinRegistro"`
}

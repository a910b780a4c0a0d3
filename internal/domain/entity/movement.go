package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento tal como los nombra el backend y el flujo de ajuste.
const (
	MovementRecepcion = "recepcion" // entrada
	MovementEntrega   = "entrega"   // salida
)

// Receipt recepción (movimiento de entrada) con instantánea desnormalizada del item.
type Receipt struct {
	ID                  string          `json:"id"`
	ItemID              string          `json:"itemId"`
	Fecha               string          `json:"fecha"`
	RecibidoDe          string          `json:"recibidoDe"`
	CodigoMaterial      string          `json:"codigoMaterial"`
	DescripcionMaterial string          `json:"descripcionMaterial"`
	CantidadRecibida    decimal.Decimal `json:"cantidadRecibida"`
	UnidadMedida        string          `json:"unidadMedida"`
	Observaciones       string          `json:"observaciones"`
	EsSinRegistro       bool            `json:"esSinRegistro"`
}

// Delivery entrega (movimiento de salida). No puede superar el stock del item.
type Delivery struct {
	ID                  string          `json:"id"`
	ItemID              string          `json:"itemId"`
	Fecha               string          `json:"fecha"`
	EntregadoA          string          `json:"entregadoA"`
	CodigoMaterial      string          `json:"codigoMaterial"`
	DescripcionMaterial string          `json:"descripcionMaterial"`
	CantidadEntregada   decimal.Decimal `json:"cantidadEntregada"`
	UnidadMedida        string          `json:"unidadMedida"`
	Observaciones       string          `json:"observaciones"`
	EsSinRegistro       bool            `json:"esSinRegistro"`
}

// ParseFecha interpreta las fechas que envía el backend (RFC3339 o solo día).
// ok=false si el valor está vacío o no se puede interpretar.
func ParseFecha(value string, loc *time.Location) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}
	// Sin zona explícita: se interpreta en la zona local configurada.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

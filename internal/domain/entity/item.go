package entity

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Unidades de medida permitidas (enumeración cerrada).
const (
	UnitLitro  = "Lt"
	UnitKilo   = "Kg"
	UnitMetro  = "Mts"
	UnitUnidad = "Und"
)

// Units devuelve las unidades válidas en el orden en que se muestran.
func Units() []string {
	return []string{UnitLitro, UnitKilo, UnitMetro, UnitUnidad}
}

// Item representa un material del inventario.
// CantidadStock es el saldo autoritativo que calcula el backend; el cliente solo lo edita
// por el flujo protegido de ajuste de stock.
type Item struct {
	ID                  string          `json:"id"`
	CategoriaID         string          `json:"categoriaId"`
	UbicacionID         string          `json:"ubicacionId"`
	CodigoMaterial      string          `json:"codigoMaterial"`      // clave de negocio, sin distinguir mayúsculas
	NombreMaterial      string          `json:"nombreMaterial"`      // etiqueta de categoría desnormalizada
	DescripcionMaterial string          `json:"descripcionMaterial"` // nombre visible del item
	CantidadStock       decimal.Decimal `json:"cantidadStock"`
	Localizacion        string          `json:"localizacion"` // etiqueta de ubicación desnormalizada
	UnidadMedida        string          `json:"unidadMedida"`
}

// NormalizedCode código comparable: sin espacios alrededor y en mayúsculas.
func (i Item) NormalizedCode() string {
	return NormalizeCode(i.CodigoMaterial)
}

// DisplayName nombre amigable: descripción, categoría o código, en ese orden.
func (i Item) DisplayName() string {
	if s := strings.TrimSpace(i.DescripcionMaterial); s != "" {
		return s
	}
	if s := strings.TrimSpace(i.NombreMaterial); s != "" {
		return s
	}
	return strings.TrimSpace(i.CodigoMaterial)
}

// NormalizeCode normaliza un código de material para comparaciones.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

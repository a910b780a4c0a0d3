package dto

import (
	"github.com/shopspring/decimal"

	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// LoginRequest body de POST /api/sesion/login.
type LoginRequest struct {
	Usuario  string `json:"usuario"`
	Password string `json:"password"`
}

// ItemRequest body de POST /api/items. ID vacío = alta.
type ItemRequest struct {
	ID                  string           `json:"id"`
	CategoriaID         string           `json:"categoriaId"`
	UbicacionID         string           `json:"ubicacionId"`
	CodigoMaterial      string           `json:"codigoMaterial"`
	DescripcionMaterial string           `json:"descripcionMaterial"`
	CantidadStock       string           `json:"cantidadStock"`
	UnidadMedida        string           `json:"unidadMedida"`
	OriginalStock       *decimal.Decimal `json:"originalStock,omitempty"` // stock al abrir la edición
	Force               bool             `json:"force"`
	SkipDuplicateCheck  bool             `json:"skipDuplicateCheck"`
}

// Form aplica los sanitizadores de cada campo.
func (r ItemRequest) Form() dominv.ItemForm {
	return dominv.ItemForm{
		CategoriaID:         r.CategoriaID,
		UbicacionID:         r.UbicacionID,
		CodigoMaterial:      dominv.SanitizeCode(r.CodigoMaterial, dominv.MaxCodigoMaterial, dominv.CodeOptions{AllowSpaces: true}),
		DescripcionMaterial: dominv.SanitizePlainText(r.DescripcionMaterial, dominv.MaxDescripcionMaterial, dominv.TextOptions{}),
		CantidadStock:       dominv.SanitizeDecimal(r.CantidadStock, dominv.StockLimits),
		UnidadMedida:        r.UnidadMedida,
	}
}

// QuickMovementRequest formulario corto del aviso de ajuste.
type QuickMovementRequest struct {
	Cantidad      string `json:"cantidad"`
	Contraparte   string `json:"contraparte"`
	Observaciones string `json:"observaciones"`
}

// AdjustmentRequest body de POST /api/items/pendientes/:id/ajuste.
// Decision: "without-record", "register-movement" o "cancel".
type AdjustmentRequest struct {
	Decision  string                `json:"decision"`
	QuickForm *QuickMovementRequest `json:"quickForm,omitempty"`
}

// DuplicateRequest body de POST /api/items/pendientes/:id/duplicado.
type DuplicateRequest struct {
	SaveAnyway bool `json:"saveAnyway"`
}

// ReceiptRequest body de POST /api/recepciones. ID vacío = alta.
type ReceiptRequest struct {
	ID                  string `json:"id"`
	ItemID              string `json:"itemId"`
	RecibidoDe          string `json:"recibidoDe"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	CantidadRecibida    string `json:"cantidadRecibida"`
	UnidadMedida        string `json:"unidadMedida"`
	Observaciones       string `json:"observaciones"`
}

// Form aplica los sanitizadores de cada campo.
func (r ReceiptRequest) Form() dominv.ReceiptForm {
	return dominv.ReceiptForm{
		ItemID:              r.ItemID,
		RecibidoDe:          dominv.SanitizePlainText(r.RecibidoDe, dominv.MaxRecibidoDe, dominv.TextOptions{TitleCase: true}),
		CodigoMaterial:      dominv.SanitizeCode(r.CodigoMaterial, dominv.MaxCodigoMaterial, dominv.CodeOptions{AllowSpaces: true}),
		DescripcionMaterial: dominv.SanitizePlainText(r.DescripcionMaterial, dominv.MaxDescripcionMaterial, dominv.TextOptions{}),
		CantidadRecibida:    dominv.SanitizeDecimal(r.CantidadRecibida, dominv.MovementLimits),
		UnidadMedida:        r.UnidadMedida,
		Observaciones:       dominv.SanitizeOptionalText(r.Observaciones, dominv.MaxObservaciones, dominv.TextOptions{}),
	}
}

// DeliveryRequest body de POST /api/entregas. ID vacío = alta.
type DeliveryRequest struct {
	ID                  string `json:"id"`
	ItemID              string `json:"itemId"`
	EntregadoA          string `json:"entregadoA"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	CantidadEntregada   string `json:"cantidadEntregada"`
	UnidadMedida        string `json:"unidadMedida"`
	Observaciones       string `json:"observaciones"`
}

// Form aplica los sanitizadores de cada campo.
func (r DeliveryRequest) Form() dominv.DeliveryForm {
	return dominv.DeliveryForm{
		ItemID:              r.ItemID,
		EntregadoA:          dominv.SanitizePlainText(r.EntregadoA, dominv.MaxEntregadoA, dominv.TextOptions{TitleCase: true}),
		CodigoMaterial:      dominv.SanitizeCode(r.CodigoMaterial, dominv.MaxCodigoMaterial, dominv.CodeOptions{AllowSpaces: true}),
		DescripcionMaterial: dominv.SanitizePlainText(r.DescripcionMaterial, dominv.MaxDescripcionMaterial, dominv.TextOptions{}),
		CantidadEntregada:   dominv.SanitizeDecimal(r.CantidadEntregada, dominv.MovementLimits),
		UnidadMedida:        r.UnidadMedida,
		Observaciones:       dominv.SanitizeOptionalText(r.Observaciones, dominv.MaxObservaciones, dominv.TextOptions{}),
	}
}

// NameRequest body de POST /api/categorias y /api/ubicaciones. ID vacío = alta.
type NameRequest struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}

// CategoryForm nombre sanitizado con el límite de la categoría (nombreMaterial).
func (r NameRequest) CategoryForm() dominv.NameForm {
	return dominv.NameForm{Nombre: dominv.SanitizePlainText(r.Nombre, dominv.MaxNombreMaterial, dominv.TextOptions{})}
}

// LocationForm nombre sanitizado con el límite de la localización.
func (r NameRequest) LocationForm() dominv.NameForm {
	return dominv.NameForm{Nombre: dominv.SanitizePlainText(r.Nombre, dominv.MaxLocalizacion, dominv.TextOptions{})}
}

// DeleteRequest body de DELETE /api/:recurso/:id. Para items, Confirmacion debe repetir el código.
type DeleteRequest struct {
	Confirmacion string `json:"confirmacion"`
}

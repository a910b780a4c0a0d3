package inventory

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

var codeWithSpacesRe = regexp.MustCompile(`^[A-Z0-9- ]+$`)

// Mensajes de validación por campo.
const (
	MsgRequiredCode        = "Este campo no puede quedar vacío."
	MsgInvalidCode         = "Usa letras, números, guiones o espacios."
	MsgRequiredCategory    = "Selecciona una categoría existente."
	MsgRequiredLocation    = "Selecciona una ubicación disponible."
	MsgRequiredDescription = "Este campo es obligatorio."
	MsgInvalidNumber       = "Ingresa un número válido."
	MsgInvalidUnit         = "Selecciona una unidad válida."
	MsgCategoryName        = "Dale un nombre descriptivo a la categoría."
	MsgLocationName        = "Asigna un nombre descriptivo."
	MsgReceiptItem         = "Selecciona un item del inventario."
	MsgReceiptSource       = "Indica quién entrega el material."
	MsgDeliveryItem        = "Selecciona un item con stock."
	MsgDeliveryDestination = "Indica a quién se entrega el material."
)

// ItemForm estado del formulario de item (valores ya saneados).
type ItemForm struct {
	CategoriaID         string `json:"categoriaId"`
	UbicacionID         string `json:"ubicacionId"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	CantidadStock       string `json:"cantidadStock"`
	UnidadMedida        string `json:"unidadMedida"`
}

// NameForm formulario de categoría o ubicación: solo nombre.
type NameForm struct {
	Nombre string `json:"nombre"`
}

// ReceiptForm formulario de recepción.
type ReceiptForm struct {
	ItemID              string `json:"itemId"`
	RecibidoDe          string `json:"recibidoDe"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	CantidadRecibida    string `json:"cantidadRecibida"`
	UnidadMedida        string `json:"unidadMedida"`
	Observaciones       string `json:"observaciones"`
}

// DeliveryForm formulario de entrega.
type DeliveryForm struct {
	ItemID              string `json:"itemId"`
	EntregadoA          string `json:"entregadoA"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	CantidadEntregada   string `json:"cantidadEntregada"`
	UnidadMedida        string `json:"unidadMedida"`
	Observaciones       string `json:"observaciones"`
}

// Validation resultado de un validador. Quantity es cero cuando no se pudo interpretar.
type Validation struct {
	Errors         map[string]string `json:"errors"`
	IsValid        bool              `json:"isValid"`
	Quantity       decimal.Decimal   `json:"quantity"`
	AvailableStock *decimal.Decimal  `json:"availableStock,omitempty"`
}

func newValidation(errs map[string]string, qty *decimal.Decimal) Validation {
	v := Validation{Errors: errs, IsValid: len(errs) == 0}
	if qty != nil {
		v.Quantity = *qty
	}
	return v
}

// RangeMessage mensaje para cantidades fuera de rango.
func RangeMessage(limits QuantityLimits) string {
	return fmt.Sprintf("Ingresa un número entre %s y %s.", limits.Min.String(), limits.Max.String())
}

// InsufficientStockMessage mensaje cuando la entrega supera el stock disponible.
func InsufficientStockMessage(available decimal.Decimal, unit string) string {
	return fmt.Sprintf("Solo hay %s %s disponibles.", available.StringFixed(2), unit)
}

func checkQuantity(errs map[string]string, field string, qty *decimal.Decimal, limits QuantityLimits) bool {
	if qty == nil {
		errs[field] = MsgInvalidNumber
		return false
	}
	if qty.LessThan(limits.Min) || qty.GreaterThan(limits.Max) {
		errs[field] = RangeMessage(limits)
		return false
	}
	return true
}

// ValidateItem valida el formulario de item.
func ValidateItem(form ItemForm) Validation {
	errs := map[string]string{}

	switch {
	case form.CodigoMaterial == "":
		errs["codigoMaterial"] = MsgRequiredCode
	case !codeWithSpacesRe.MatchString(form.CodigoMaterial):
		errs["codigoMaterial"] = MsgInvalidCode
	}
	if form.CategoriaID == "" {
		errs["categoriaId"] = MsgRequiredCategory
	}
	if form.UbicacionID == "" {
		errs["ubicacionId"] = MsgRequiredLocation
	}
	if form.DescripcionMaterial == "" {
		errs["descripcionMaterial"] = MsgRequiredDescription
	}

	qty := ParseDecimal(form.CantidadStock)
	checkQuantity(errs, "cantidadStock", qty, StockLimits)

	if _, ok := CanonicalUnit(form.UnidadMedida); !ok {
		errs["unidadMedida"] = MsgInvalidUnit
	}
	return newValidation(errs, qty)
}

// ValidateCategory valida el formulario de categoría.
func ValidateCategory(form NameForm) Validation {
	errs := map[string]string{}
	if form.Nombre == "" {
		errs["nombre"] = MsgCategoryName
	}
	return newValidation(errs, nil)
}

// ValidateLocation valida el formulario de ubicación.
func ValidateLocation(form NameForm) Validation {
	errs := map[string]string{}
	if form.Nombre == "" {
		errs["nombre"] = MsgLocationName
	}
	return newValidation(errs, nil)
}

// ValidateReceipt valida una recepción contra el índice de items actual.
func ValidateReceipt(form ReceiptForm, itemsByID map[string]entity.Item) Validation {
	errs := map[string]string{}
	qty := ParseDecimal(form.CantidadRecibida)

	if _, ok := lookupItem(form.ItemID, itemsByID); !ok {
		errs["codigoMaterial"] = MsgReceiptItem
	}
	if form.RecibidoDe == "" {
		errs["recibidoDe"] = MsgReceiptSource
	}
	checkQuantity(errs, "cantidadRecibida", qty, MovementLimits)
	return newValidation(errs, qty)
}

// ValidateDelivery valida una entrega; además exige que no supere el stock del item.
func ValidateDelivery(form DeliveryForm, itemsByID map[string]entity.Item) Validation {
	errs := map[string]string{}
	qty := ParseDecimal(form.CantidadEntregada)
	item, found := lookupItem(form.ItemID, itemsByID)

	if !found {
		errs["codigoMaterial"] = MsgDeliveryItem
	}
	if form.EntregadoA == "" {
		errs["entregadoA"] = MsgDeliveryDestination
	}
	if checkQuantity(errs, "cantidadEntregada", qty, MovementLimits) && found && qty.GreaterThan(item.CantidadStock) {
		errs["cantidadEntregada"] = InsufficientStockMessage(item.CantidadStock, item.UnidadMedida)
	}

	v := newValidation(errs, qty)
	if found {
		stock := item.CantidadStock
		v.AvailableStock = &stock
	}
	return v
}

// IsInsufficientStock indica si el error de cantidad es por stock insuficiente.
func (v Validation) IsInsufficientStock() bool {
	msg, ok := v.Errors["cantidadEntregada"]
	return ok && strings.HasPrefix(msg, "Solo hay ")
}

func lookupItem(id string, itemsByID map[string]entity.Item) (entity.Item, bool) {
	if id == "" {
		return entity.Item{}, false
	}
	item, ok := itemsByID[id]
	return item, ok
}

package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

func validItemForm() inventory.ItemForm {
	return inventory.ItemForm{
		CodigoMaterial:      "AB-1",
		CategoriaID:         "c1",
		UbicacionID:         "u1",
		DescripcionMaterial: "x",
		CantidadStock:       "10",
		UnidadMedida:        "Kg",
	}
}

func TestValidateItem_Valido(t *testing.T) {
	v := inventory.ValidateItem(validItemForm())
	assert.True(t, v.IsValid)
	assert.Empty(t, v.Errors)
	assert.True(t, decimal.NewFromInt(10).Equal(v.Quantity))
}

func TestValidateItem_CategoriaVacia_UnSoloError(t *testing.T) {
	form := validItemForm()
	form.CategoriaID = ""

	v := inventory.ValidateItem(form)
	assert.False(t, v.IsValid)
	require.Len(t, v.Errors, 1)
	assert.Equal(t, inventory.MsgRequiredCategory, v.Errors["categoriaId"])
}

func TestValidateItem_Campos(t *testing.T) {
	form := inventory.ItemForm{CodigoMaterial: "ab_1", CantidadStock: "1000000", UnidadMedida: "caja"}
	v := inventory.ValidateItem(form)

	assert.False(t, v.IsValid)
	assert.Equal(t, inventory.MsgInvalidCode, v.Errors["codigoMaterial"])
	assert.Equal(t, inventory.MsgRequiredLocation, v.Errors["ubicacionId"])
	assert.Equal(t, inventory.MsgRequiredDescription, v.Errors["descripcionMaterial"])
	assert.Equal(t, "Ingresa un número entre 0 y 999999.", v.Errors["cantidadStock"])
	assert.Equal(t, inventory.MsgInvalidUnit, v.Errors["unidadMedida"])

	form.CodigoMaterial = ""
	form.CantidadStock = "x"
	v = inventory.ValidateItem(form)
	assert.Equal(t, inventory.MsgRequiredCode, v.Errors["codigoMaterial"])
	assert.Equal(t, inventory.MsgInvalidNumber, v.Errors["cantidadStock"])
	assert.True(t, v.Quantity.IsZero())
}

func TestValidateNombre(t *testing.T) {
	assert.Equal(t, inventory.MsgCategoryName, inventory.ValidateCategory(inventory.NameForm{}).Errors["nombre"])
	assert.Equal(t, inventory.MsgLocationName, inventory.ValidateLocation(inventory.NameForm{}).Errors["nombre"])
	assert.True(t, inventory.ValidateLocation(inventory.NameForm{Nombre: "Silo 3"}).IsValid)
}

func itemsIndex() map[string]entity.Item {
	return map[string]entity.Item{
		"i1": {ID: "i1", CodigoMaterial: "ACE-01", CantidadStock: decimal.NewFromInt(5), UnidadMedida: "Lt"},
	}
}

func TestValidateReceipt(t *testing.T) {
	v := inventory.ValidateReceipt(inventory.ReceiptForm{CantidadRecibida: "0"}, itemsIndex())
	assert.False(t, v.IsValid)
	assert.Equal(t, inventory.MsgReceiptItem, v.Errors["codigoMaterial"])
	assert.Equal(t, inventory.MsgReceiptSource, v.Errors["recibidoDe"])
	assert.Equal(t, "Ingresa un número entre 0.01 y 999999.", v.Errors["cantidadRecibida"])

	v = inventory.ValidateReceipt(inventory.ReceiptForm{ItemID: "i1", RecibidoDe: "Proveedor", CantidadRecibida: "100"}, itemsIndex())
	assert.True(t, v.IsValid, "las recepciones no dependen del stock")
}

func TestValidateDelivery_StockInsuficiente(t *testing.T) {
	form := inventory.DeliveryForm{ItemID: "i1", EntregadoA: "Taller", CantidadEntregada: "6"}
	v := inventory.ValidateDelivery(form, itemsIndex())

	assert.False(t, v.IsValid)
	msg := v.Errors["cantidadEntregada"]
	assert.Contains(t, msg, "5.00")
	assert.Contains(t, msg, "Lt")
	assert.True(t, v.IsInsufficientStock())
	require.NotNil(t, v.AvailableStock)
	assert.True(t, decimal.NewFromInt(5).Equal(*v.AvailableStock))
}

func TestValidateDelivery_ExactoAlStock(t *testing.T) {
	form := inventory.DeliveryForm{ItemID: "i1", EntregadoA: "Taller", CantidadEntregada: "5"}
	v := inventory.ValidateDelivery(form, itemsIndex())
	assert.True(t, v.IsValid)
}

func TestValidateDelivery_SinItem(t *testing.T) {
	v := inventory.ValidateDelivery(inventory.DeliveryForm{ItemID: "nope", EntregadoA: "x", CantidadEntregada: "1"}, itemsIndex())
	assert.Equal(t, inventory.MsgDeliveryItem, v.Errors["codigoMaterial"])
	assert.Nil(t, v.AvailableStock)
	assert.False(t, v.IsInsufficientStock())
}

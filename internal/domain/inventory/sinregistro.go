package inventory

import "strings"

// SinRegistroPlaceholder texto que se muestra en observaciones de movimientos sin registro.
const SinRegistroPlaceholder = "S/R"

// IsSinRegistroLabel indica si el valor es literalmente "S/R".
func IsSinRegistroLabel(value string) bool {
	return strings.ToUpper(strings.TrimSpace(value)) == SinRegistroPlaceholder
}

// ResolveMovementDetail ignora el marcador S/R y usa fallback en su lugar.
func ResolveMovementDetail(value, fallback string) string {
	if value == "" || IsSinRegistroLabel(value) {
		return fallback
	}
	return value
}

func usePlaceholder(value string) bool {
	return strings.TrimSpace(value) == "" || IsSinRegistroLabel(value)
}

// ObservationDisplay observación para mostrar: S/R cuando el movimiento no tiene registro y está vacía.
func ObservationDisplay(value string, esSinRegistro bool) string {
	if esSinRegistro && usePlaceholder(value) {
		return SinRegistroPlaceholder
	}
	return value
}

// ObservationEditable observación para precargar un formulario (nunca el marcador).
func ObservationEditable(value string, esSinRegistro bool) string {
	if esSinRegistro && usePlaceholder(value) {
		return ""
	}
	return value
}

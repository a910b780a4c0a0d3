package inventory

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Longitudes máximas por campo (las mismas que aplica el backend).
const (
	MaxCodigoMaterial      = 25
	MaxNombreMaterial      = 60
	MaxDescripcionMaterial = 140
	MaxLocalizacion        = 40
	MaxUnidadMedida        = 10
	MaxRecibidoDe          = 60
	MaxEntregadoA          = 60
	MaxObservaciones       = 220
)

// QuantityLimits límites de un campo de cantidad.
type QuantityLimits struct {
	Min         decimal.Decimal
	Max         decimal.Decimal
	MaxInteger  int
	MaxDecimals int
}

var (
	// StockLimits cantidad en stock de un item: [0, 999999].
	StockLimits = QuantityLimits{Min: decimal.Zero, Max: decimal.NewFromInt(999999), MaxInteger: 6, MaxDecimals: 2}
	// MovementLimits cantidad de una recepción/entrega: [0.01, 999999].
	MovementLimits = QuantityLimits{Min: decimal.New(1, -2), Max: decimal.NewFromInt(999999), MaxInteger: 6, MaxDecimals: 2}
)

// MinDelta diferencia mínima de stock que se considera un cambio real.
var MinDelta = decimal.New(1, -2)

// CodeOptions opciones de SanitizeCode.
type CodeOptions struct {
	AllowSpaces           bool // permite espacios internos (colapsados)
	PreserveTrailingSpace bool // conserva un espacio final mientras el usuario escribe
}

// TextOptions opciones de SanitizePlainText.
type TextOptions struct {
	TitleCase             bool
	PreserveTrailingSpace bool
}

var (
	upperES = cases.Upper(language.Spanish)
	lowerES = cases.Lower(language.Spanish)
)

// SanitizeCode pasa a mayúsculas y deja solo [A-Z0-9-] (y espacios simples si AllowSpaces).
// Es idempotente: SanitizeCode(SanitizeCode(x)) == SanitizeCode(x).
func SanitizeCode(value string, max int, opts CodeOptions) string {
	if value == "" {
		return ""
	}
	hadTrailing := opts.AllowSpaces && opts.PreserveTrailingSpace && endsWithSpace(value)

	var b strings.Builder
	for _, r := range strings.ToUpper(value) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case opts.AllowSpaces && unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	cleaned := b.String()
	if opts.AllowSpaces {
		cleaned = collapseSpaces(cleaned)
	} else {
		cleaned = strings.TrimSpace(cleaned)
	}

	// Solo quedan caracteres ASCII: cortar por bytes es seguro.
	if len(cleaned) > max {
		cleaned = strings.TrimRight(cleaned[:max], " ")
	}
	if hadTrailing && cleaned != "" && len(cleaned) < max {
		cleaned += " "
	}
	return cleaned
}

// SanitizePlainText normaliza texto libre: NFKC, espacios colapsados, lista de caracteres
// permitidos (letras latinas con tildes del español, dígitos, . , ( ) ' - y espacio),
// recorte a max runas y capitalización opcional por palabra.
func SanitizePlainText(value string, max int, opts TextOptions) string {
	if value == "" {
		return ""
	}
	hadTrailing := opts.PreserveTrailingSpace && endsWithSpace(value)

	normalized := collapseSpaces(norm.NFKC.String(value))
	normalized = collapseSpaces(strings.Map(func(r rune) rune {
		if isPlainTextRune(r) {
			return r
		}
		return -1
	}, normalized))

	normalized = strings.TrimRight(truncateRunes(normalized, max), " ")
	if opts.TitleCase && normalized != "" {
		normalized = TitleCase(normalized)
	}
	if hadTrailing && normalized != "" && utf8.RuneCountInString(normalized) < max {
		normalized += " "
	}
	return normalized
}

// SanitizeOptionalText igual que SanitizePlainText; vacío entra, vacío sale.
func SanitizeOptionalText(value string, max int, opts TextOptions) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return SanitizePlainText(value, max, opts)
}

// TitleCase capitaliza la primera letra de cada palabra separada por espacios y baja el resto.
func TitleCase(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = upperES.String(string(r)) + lowerES.String(w[size:])
	}
	return strings.Join(words, " ")
}

// SanitizeDecimal deja solo dígitos y un separador decimal (las comas pasan a punto),
// con a lo sumo limits.MaxInteger dígitos enteros y limits.MaxDecimals decimales.
func SanitizeDecimal(value string, limits QuantityLimits) string {
	if value == "" {
		return ""
	}
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == ',':
			return '.'
		case r == '.', r >= '0' && r <= '9':
			return r
		}
		return -1
	}, value)
	if cleaned == "" {
		return ""
	}

	parts := strings.Split(cleaned, ".")
	integer := parts[0]
	if len(integer) > limits.MaxInteger {
		integer = integer[:limits.MaxInteger]
	}
	decimals := strings.Join(parts[1:], "")
	if len(decimals) > limits.MaxDecimals {
		decimals = decimals[:limits.MaxDecimals]
	}
	if decimals != "" {
		return integer + "." + decimals
	}
	return integer
}

// ParseDecimal convierte el texto a decimal redondeado a 2 decimales.
// Devuelve nil si está vacío o no es numérico.
func ParseDecimal(value string) *decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil
	}
	d = d.Round(2)
	return &d
}

// FormatQuantity representación canónica de una cantidad para los formularios.
func FormatQuantity(d decimal.Decimal) string {
	return d.Round(2).String()
}

func isPlainTextRune(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	return strings.ContainsRune("ÁÉÍÓÚÜÑáéíóúüñ.,()'-", r)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func endsWithSpace(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return unicode.IsSpace(r)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

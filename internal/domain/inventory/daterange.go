package inventory

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/inventario-silo/internal/domain"
)

// Mensajes de rango de fechas.
const (
	MsgRangeMissing  = "Selecciona ambas fechas para generar el reporte"
	MsgRangeFormat   = "Formato de fecha inválido"
	MsgRangeInverted = `La fecha "hasta" debe ser mayor o igual a la fecha "desde"`

	MsgRangeUndefined = "Rango sin definir"
)

// DayLayout formato de las fechas de los filtros.
const DayLayout = "2006-01-02"

// isoMillis formato que espera el backend para DateTime (UTC con milisegundos).
const isoMillis = "2006-01-02T15:04:05.000Z"

// DateRange par de fechas de un filtro (YYYY-MM-DD), ambas inclusivas.
type DateRange struct {
	From string `json:"desde"`
	To   string `json:"hasta"`
}

// RangeError rango inválido; Message es el texto visible para el usuario.
type RangeError struct {
	Message string
}

func (e *RangeError) Error() string { return e.Message }

func (e *RangeError) Unwrap() error { return domain.ErrInvalidRange }

// ParseDay interpreta una fecha de filtro en loc y la lleva al inicio (o al final) del día.
// Acepta YYYY-MM-DD o un instante RFC3339.
func ParseDay(value string, loc *time.Location, endOfDay bool) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DayLayout, value, loc)
	if err != nil {
		instant, err2 := time.Parse(time.RFC3339Nano, value)
		if err2 != nil {
			return time.Time{}, false
		}
		t = instant.In(loc)
	}
	y, m, d := t.Date()
	if endOfDay {
		return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc), true
	}
	return time.Date(y, m, d, 0, 0, 0, 0, loc), true
}

// Resolve valida el rango y devuelve inicio del primer día y fin del último, en loc.
func (r DateRange) Resolve(loc *time.Location) (time.Time, time.Time, error) {
	if strings.TrimSpace(r.From) == "" || strings.TrimSpace(r.To) == "" {
		return time.Time{}, time.Time{}, &RangeError{Message: MsgRangeMissing}
	}
	from, ok1 := ParseDay(r.From, loc, false)
	to, ok2 := ParseDay(r.To, loc, true)
	if !ok1 || !ok2 {
		return time.Time{}, time.Time{}, &RangeError{Message: MsgRangeFormat}
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, &RangeError{Message: MsgRangeInverted}
	}
	return from, to, nil
}

// Variables variables GraphQL desde/hasta en UTC.
func (r DateRange) Variables(loc *time.Location) (map[string]any, error) {
	from, to, err := r.Resolve(loc)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"desde": from.UTC().Format(isoMillis),
		"hasta": to.UTC().Format(isoMillis),
	}, nil
}

// Label texto "Del <desde> al <hasta>" para títulos de reportes.
func (r DateRange) Label(loc *time.Location) string {
	from, to, err := r.Resolve(loc)
	if err != nil {
		return MsgRangeUndefined
	}
	return fmt.Sprintf("Del %s al %s", from.Format("02/01/2006"), to.Format("02/01/2006"))
}

// MonthToDate rango por defecto del reporte: primer día del mes hasta hoy.
func MonthToDate(now time.Time) DateRange {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return DateRange{From: first.Format(DayLayout), To: now.Format(DayLayout)}
}

// LastDays rango por defecto del kardex: los últimos n días hasta hoy.
func LastDays(now time.Time, n int) DateRange {
	return DateRange{From: now.AddDate(0, 0, -n).Format(DayLayout), To: now.Format(DayLayout)}
}

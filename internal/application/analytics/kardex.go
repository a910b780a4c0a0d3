package analytics

import (
	"time"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// FilterKardexMovements filtra los movimientos al rango (extremos vacíos = abierto).
// Los movimientos sin fecha o con fecha ilegible se conservan.
func FilterKardexMovements(k *entity.Kardex, rng dominv.DateRange, loc *time.Location) []dto.KardexMovementDTO {
	if k == nil {
		return []dto.KardexMovementDTO{}
	}
	from, fromOK := dominv.ParseDay(rng.From, loc, false)
	to, toOK := dominv.ParseDay(rng.To, loc, true)

	out := make([]dto.KardexMovementDTO, 0, len(k.Movimientos))
	for _, mov := range k.Movimientos {
		if at, ok := entity.ParseFecha(mov.Fecha, loc); ok {
			if fromOK && at.Before(from) {
				continue
			}
			if toOK && at.After(to) {
				continue
			}
		}
		out = append(out, dto.KardexMovementDTO{
			KardexMovement:      mov,
			ObservacionMostrada: dominv.ObservationDisplay(mov.Observaciones, mov.EsSinRegistro),
		})
	}
	return out
}

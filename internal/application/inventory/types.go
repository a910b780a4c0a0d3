package inventory

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// State etapa de un envío de item.
type State string

const (
	StateValidating       State = "validating"
	StateDuplicateCheck   State = "duplicate-check"
	StateDeltaCheck       State = "delta-check"
	StateAwaitingDecision State = "awaiting-decision"
	StatePersisting       State = "persisting"
	StateDone             State = "done"
	StateFailed           State = "failed"
	StateCancelled        State = "cancelled"
)

// ErrUnknownSubmission el id no corresponde a ningún envío suspendido.
var ErrUnknownSubmission = errors.New("no hay un envío pendiente con ese id")

// ErrWrongPrompt la decisión no corresponde al aviso abierto del envío.
var ErrWrongPrompt = errors.New("el envío no espera esa decisión")

// ItemDraft formulario de item más el contexto del modal. ID vacío = alta.
type ItemDraft struct {
	ID            string           `json:"id,omitempty"`
	Form          dominv.ItemForm  `json:"form"`
	OriginalStock *decimal.Decimal `json:"originalStock,omitempty"` // stock al abrir la edición
}

// Editing indica si el borrador edita un item existente.
func (d ItemDraft) Editing() bool { return d.ID != "" }

// SubmitOptions modificadores de SubmitItem.
type SubmitOptions struct {
	Force              bool            `json:"force"`
	SkipDuplicateCheck bool            `json:"skipDuplicateCheck"`
	Movement           *MovementIntent `json:"movement,omitempty"`
}

// ItemSnapshot campos visibles del item que viajan con un movimiento.
type ItemSnapshot struct {
	ID                  string `json:"id"`
	CodigoMaterial      string `json:"codigoMaterial"`
	DescripcionMaterial string `json:"descripcionMaterial"`
	UnidadMedida        string `json:"unidadMedida"`
}

// QuickMovementForm formulario corto del aviso de ajuste.
type QuickMovementForm struct {
	Cantidad      string `json:"cantidad"`
	Contraparte   string `json:"contraparte"`
	Observaciones string `json:"observaciones"`
}

// MovementIntent movimiento implícito en un cambio de stock.
// Type es entity.MovementRecepcion si el stock sube y entity.MovementEntrega si baja.
type MovementIntent struct {
	Type             string             `json:"type"`
	Amount           decimal.Decimal    `json:"amount"`
	Item             ItemSnapshot       `json:"snapshot"`
	OverrideQuantity *decimal.Decimal   `json:"overrideQuantity,omitempty"`
	TargetQuantity   decimal.Decimal    `json:"targetQuantity"`
	Quick            *QuickMovementForm `json:"quickForm,omitempty"`
}

// DuplicatePrompt aviso de código repetido.
type DuplicatePrompt struct {
	Title    string      `json:"title"`
	Code     string      `json:"code"`
	Details  string      `json:"details"`
	Conflict entity.Item `json:"conflict"`
}

// ItemSubmission estado de un envío. Si State es awaiting-decision, ID identifica el envío
// para ResolveDuplicate o ResolveAdjustment.
type ItemSubmission struct {
	ID         string            `json:"id,omitempty"`
	State      State             `json:"state"`
	Steps      []State           `json:"steps"`
	Draft      ItemDraft         `json:"draft"`
	Options    SubmitOptions     `json:"options"`
	Validation dominv.Validation `json:"validation"`
	Duplicate  *DuplicatePrompt  `json:"duplicate,omitempty"`
	Adjustment *MovementIntent   `json:"adjustment,omitempty"`
	Item       *entity.Item      `json:"item,omitempty"`
	Error      string            `json:"error,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

func (s *ItemSubmission) enter(st State) {
	s.State = st
	s.Steps = append(s.Steps, st)
}

func (s *ItemSubmission) clone() *ItemSubmission {
	c := *s
	c.Steps = append([]State(nil), s.Steps...)
	return &c
}

// AdjustmentChoice resolución del aviso de ajuste de stock.
type AdjustmentChoice string

const (
	ChoiceWithoutRecord    AdjustmentChoice = "without-record"
	ChoiceRegisterMovement AdjustmentChoice = "register-movement"
	ChoiceCancel           AdjustmentChoice = "cancel"
)

// AdjustmentDecision decisión del usuario; Quick solo aplica a register-movement.
type AdjustmentDecision struct {
	Choice AdjustmentChoice   `json:"choice"`
	Quick  *QuickMovementForm `json:"quickForm,omitempty"`
}

// DuplicateDecision decisión sobre un código repetido.
type DuplicateDecision struct {
	SaveAnyway bool `json:"saveAnyway"`
}

// ReceiptDraft formulario de recepción. ID vacío = alta.
type ReceiptDraft struct {
	ID   string             `json:"id,omitempty"`
	Form dominv.ReceiptForm `json:"form"`
}

// DeliveryDraft formulario de entrega. ID vacío = alta.
type DeliveryDraft struct {
	ID   string              `json:"id,omitempty"`
	Form dominv.DeliveryForm `json:"form"`
}

// NameDraft formulario de categoría o ubicación. ID vacío = alta.
type NameDraft struct {
	ID   string          `json:"id,omitempty"`
	Form dominv.NameForm `json:"form"`
}

package notify

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Verificar en tiempo de compilación que Center implementa Notifier.
var _ ports.Notifier = (*Center)(nil)

// DialogTitle título por defecto del diálogo de error.
const DialogTitle = "Necesitamos tu atención"

// Pistas según el tipo de error.
const (
	HintValidation = "Revisa los campos resaltados, completa los obligatorios y asegúrate de respetar los formatos sugeridos."
	HintSession    = "Tu sesión puede haber expirado. Vuelve a iniciar sesión y repite la acción."
	HintNetwork    = "Verifica tu conexión a internet o intenta nuevamente en unos segundos."
	HintAPI        = "La API devolvió un error. Intenta refrescar los datos o repite la operación."
	HintGeneric    = "Intenta nuevamente. Si el problema persiste, toma una captura y contacta al administrador del sistema."
)

// Toast notificación efímera.
type Toast struct {
	ID        string       `json:"id"`
	Intent    ports.Intent `json:"intent"`
	Message   string       `json:"message"`
	CreatedAt time.Time    `json:"createdAt"`
}

// ErrorDialog diálogo modal que acompaña a cada error.
type ErrorDialog struct {
	Open    bool   `json:"open"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

// Center toasts con auto-cierre y el diálogo de error. Seguro para uso concurrente.
type Center struct {
	mu     sync.Mutex
	ttl    time.Duration
	toasts []Toast
	dialog ErrorDialog
	log    *logger.Logger
}

// NewCenter crea el centro de notificaciones; ttl es el tiempo de vida de cada toast.
func NewCenter(ttl time.Duration, log *logger.Logger) *Center {
	if log == nil {
		log = logger.Nop()
	}
	return &Center{ttl: ttl, log: log.Component("notify")}
}

// Notify publica un toast; los errores abren además el diálogo con una pista.
func (c *Center) Notify(intent ports.Intent, message string) {
	if message == "" {
		return
	}
	t := Toast{ID: uuid.NewString(), Intent: intent, Message: message, CreatedAt: time.Now()}

	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	if intent == ports.IntentError {
		c.dialog = ErrorDialog{Open: true, Title: DialogTitle, Message: message, Hint: Hint(message)}
	}
	c.mu.Unlock()

	if intent == ports.IntentError {
		c.log.Warn().Str("message", message).Msg("error notificado")
	} else {
		c.log.Debug().Str("intent", string(intent)).Str("message", message).Msg("notificación")
	}

	if c.ttl > 0 {
		time.AfterFunc(c.ttl, func() { c.Dismiss(t.ID) })
	}
}

// Dismiss cierra un toast. false si ya no existía.
func (c *Center) Dismiss(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.toasts {
		if t.ID == id {
			c.toasts = append(c.toasts[:i], c.toasts[i+1:]...)
			return true
		}
	}
	return false
}

// Toasts copia de los toasts visibles, del más antiguo al más reciente.
func (c *Center) Toasts() []Toast {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Toast(nil), c.toasts...)
}

// Dialog estado actual del diálogo de error.
func (c *Center) Dialog() ErrorDialog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog
}

// CloseDialog cierra el diálogo.
func (c *Center) CloseDialog() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialog = ErrorDialog{}
}

// Details texto para "Copiar detalle": el mensaje del diálogo abierto.
func (c *Center) Details() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialog.Message
}

// Hint elige una pista buscando palabras clave en el mensaje.
func Hint(message string) string {
	text := strings.ToLower(message)
	switch {
	case containsAny(text, "valid", "campo", "ingresa"):
		return HintValidation
	case containsAny(text, "token", "sesión"):
		return HintSession
	case containsAny(text, "network", "fetch", "conexión"):
		return HintNetwork
	case strings.Contains(text, "graphql"):
		return HintAPI
	default:
		return HintGeneric
	}
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa el puerto Gateway.
var _ ports.Gateway = (*Client)(nil)

// maxResponseBytes límite de lectura del cuerpo; los listados completos caben holgadamente.
const maxResponseBytes = 8 << 20

// MsgNoConnection mensaje cuando la petición no llega al servidor.
const MsgNoConnection = domain.MsgNetworkError + ": sin conexión con el servidor"

// MsgInvalidResponse respuesta 2xx cuyo cuerpo no es JSON (p. ej. la página de un proxy).
const MsgInvalidResponse = domain.MsgNetworkError + ": respuesta inválida del servidor"

// Config dependencias del cliente.
type Config struct {
	Endpoint   string
	HTTPClient *http.Client // sin Timeout: el único límite es el ctx de cada llamada
	Logger     *logger.Logger
	Metrics    *Metrics // opcional
}

// Client adaptador GraphQL sobre HTTP POST a un único endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	log      *logger.Logger
	metrics  *Metrics
}

// NewClient construye el adaptador.
func NewClient(cfg Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		endpoint: cfg.Endpoint,
		http:     hc,
		log:      log.Component("graphql"),
		metrics:  cfg.Metrics,
	}
}

// ── Protocolo ────────────────────────────────────────────────────────────────

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r response) firstError() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// Execute envía la operación y devuelve `data` (u `{}` si no vino).
// Errores: *domain.TransportError (red o HTTP no 2xx) y *domain.APIError (arreglo `errors`).
func (c *Client) Execute(ctx context.Context, op ports.Operation, vars map[string]any, token string) (json.RawMessage, error) {
	start := time.Now()
	data, err := c.execute(ctx, op, vars, token)
	elapsed := time.Since(start)

	outcome := outcomeOf(err)
	c.metrics.observe(op.Name, outcome, elapsed)

	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("operation", op.Name).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("graphql")
	return data, err
}

func (c *Client) execute(ctx context.Context, op ports.Operation, vars map[string]any, token string) (json.RawMessage, error) {
	if vars == nil {
		vars = map[string]any{}
	}
	body, err := json.Marshal(request{Query: op.Document, Variables: vars})
	if err != nil {
		return nil, fmt.Errorf("graphql: serializar variables de %s: %w", op.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Message: MsgNoConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &domain.TransportError{Message: MsgNoConnection, Err: ctx.Err()}
		}
		return nil, &domain.TransportError{Message: MsgNoConnection, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.TransportError{Status: resp.StatusCode, Message: MsgNoConnection, Err: err}
	}

	var payload response
	decodeErr := json.Unmarshal(raw, &payload)

	// En respuestas de error el cuerpo solo aporta el mensaje, si lo hay.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := payload.firstError()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		if msg == "" {
			msg = domain.MsgNetworkError
		}
		return nil, &domain.TransportError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &domain.TransportError{Status: resp.StatusCode, Message: MsgInvalidResponse, Err: decodeErr}
	}

	if len(payload.Errors) > 0 {
		msg := payload.firstError()
		if msg == "" {
			msg = domain.MsgOperationError
		}
		return nil, &domain.APIError{Message: msg}
	}

	if len(payload.Data) == 0 || string(payload.Data) == "null" {
		return json.RawMessage(`{}`), nil
	}
	return payload.Data, nil
}

func outcomeOf(err error) string {
	var apiErr *domain.APIError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	case errors.As(err, &apiErr):
		return "api"
	default:
		return "transport"
	}
}

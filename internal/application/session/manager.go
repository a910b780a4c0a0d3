package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/pkg/jwt"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Verificar en tiempo de compilación que Manager implementa Requester.
var _ ports.Requester = (*Manager)(nil)

// Mensajes visibles de sesión.
const (
	MsgLoginOK      = "Sesión iniciada correctamente"
	MsgLogoutOK     = "Sesión finalizada"
	MsgLoginFailed  = "No se pudo iniciar sesión"
	MsgTokenExpired = "Tu sesión expiró. Vuelve a iniciar sesión."
)

// Manager dueño del token de acceso y del perfil del usuario.
// Todas las llamadas autenticadas pasan por Request.
type Manager struct {
	gateway  ports.Gateway
	tokens   ports.TokenStore
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu         sync.RWMutex
	token      string
	profile    *entity.Profile
	loading    bool
	authErr    string
	generation uint64
	listeners  []func(authenticated bool)
}

// NewManager crea el gestor de sesión.
func NewManager(gateway ports.Gateway, tokens ports.TokenStore, notifier ports.Notifier, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{
		gateway:  gateway,
		tokens:   tokens,
		notifier: notifier,
		log:      log.Component("session"),
		now:      time.Now,
	}
}

// Status instantánea de la sesión para la capa de presentación.
type Status struct {
	Authenticated bool            `json:"authenticated"`
	Loading       bool            `json:"loading"`
	Profile       *entity.Profile `json:"profile,omitempty"`
	DisplayName   string          `json:"displayName,omitempty"`
	Error         string          `json:"error,omitempty"`
}

// OnChange registra un observador que se invoca cuando la sesión se abre o se cierra.
func (m *Manager) OnChange(fn func(authenticated bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Start carga el token persistido y, si existe, obtiene el perfil.
// Un JWT con `exp` vencido se descarta sin llamar al backend.
func (m *Manager) Start(ctx context.Context) error {
	tok, err := m.tokens.Load(ctx)
	if err != nil {
		return err
	}
	if tok == "" {
		return nil
	}
	if jwt.Expired(tok, m.now()) {
		m.log.Info().Msg("token persistido vencido; se descarta")
		_ = m.tokens.Clear(ctx)
		m.mu.Lock()
		m.authErr = MsgTokenExpired
		m.mu.Unlock()
		return nil
	}

	m.setToken(tok)
	return m.bootstrap(ctx)
}

// Login intercambia credenciales por un token, lo persiste y carga el perfil.
func (m *Manager) Login(ctx context.Context, usuario, password string) error {
	data, err := m.gateway.Execute(ctx, ports.OpLogin, map[string]any{"usuario": usuario, "password": password}, "")
	var tok string
	if err == nil {
		err = ports.DecodeField(data, "login", &tok)
	}
	if err == nil && tok == "" {
		err = domain.ErrNoToken
	}
	if err != nil {
		m.setAuthError(err)
		return err
	}

	if err := m.tokens.Save(ctx, tok); err != nil {
		m.log.Error().Err(err).Msg("no se pudo persistir el token")
	}
	m.setToken(tok)
	m.notify(ports.IntentSuccess, MsgLoginOK)
	return m.bootstrap(ctx)
}

// Logout limpia token y perfil de inmediato; no llama al backend.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.tokens.Clear(ctx); err != nil {
		m.log.Error().Err(err).Msg("no se pudo borrar el token")
	}
	m.clear("")
	m.notify(ports.IntentSuccess, MsgLogoutOK)
}

// Request ejecuta una operación autenticada. Sin token falla con domain.ErrSession sin tocar la red.
// Si la sesión cambia antes de la respuesta, el resultado se descarta con domain.ErrSessionChanged.
func (m *Manager) Request(ctx context.Context, op ports.Operation, vars map[string]any) (json.RawMessage, error) {
	m.mu.RLock()
	tok, gen := m.token, m.generation
	m.mu.RUnlock()
	if tok == "" {
		return nil, domain.ErrSession
	}
	data, err := m.gateway.Execute(ctx, op, vars, tok)
	if m.Generation() != gen {
		m.log.Debug().Str("operation", op.Name).Msg("respuesta de una sesión anterior; se descarta")
		return nil, domain.ErrSessionChanged
	}
	return data, err
}

// Generation contador que avanza cada vez que se abre o se cierra la sesión.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Token token actual ("" = sin sesión).
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated indica si hay token.
func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}

// Profile perfil cargado, si lo hay.
func (m *Manager) Profile() (entity.Profile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.profile == nil {
		return entity.Profile{}, false
	}
	return *m.profile, true
}

// Status instantánea de la sesión.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st := Status{Authenticated: m.token != "", Loading: m.loading, Error: m.authErr}
	if m.profile != nil {
		p := *m.profile
		st.Profile = &p
		st.DisplayName = p.DisplayName()
	}
	return st
}

// bootstrap pide el perfil del token vigente. Si el token cambió mientras tanto, el resultado se descarta.
func (m *Manager) bootstrap(ctx context.Context) error {
	m.mu.Lock()
	gen := m.generation
	m.loading = true
	m.mu.Unlock()

	var profile entity.Profile
	data, err := m.Request(ctx, ports.OpPerfilActual, nil)
	if err == nil {
		err = ports.DecodeField(data, "perfilActual", &profile)
	}

	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return nil
	}
	m.loading = false
	if err == nil {
		m.profile = &profile
		m.authErr = ""
		m.mu.Unlock()
		m.log.Info().Str("usuario", profile.NombreUsuario).Msg("perfil cargado")
		return nil
	}
	m.mu.Unlock()

	m.log.Warn().Err(err).Msg("perfil inválido; se cierra la sesión")
	if clearErr := m.tokens.Clear(ctx); clearErr != nil {
		m.log.Error().Err(clearErr).Msg("no se pudo borrar el token")
	}
	m.clear(err.Error())
	return err
}

func (m *Manager) setToken(tok string) {
	m.mu.Lock()
	was := m.token != ""
	m.token = tok
	m.profile = nil
	m.generation++
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.Unlock()

	if !was {
		for _, fn := range listeners {
			fn(true)
		}
	}
}

func (m *Manager) clear(authErr string) {
	m.mu.Lock()
	was := m.token != ""
	m.token = ""
	m.profile = nil
	m.loading = false
	m.authErr = authErr
	m.generation++
	listeners := append([]func(bool){}, m.listeners...)
	m.mu.Unlock()

	if was {
		for _, fn := range listeners {
			fn(false)
		}
	}
}

func (m *Manager) setAuthError(err error) {
	msg := err.Error()
	if msg == "" || errors.Is(err, context.Canceled) {
		msg = MsgLoginFailed
	}
	m.mu.Lock()
	m.authErr = msg
	m.mu.Unlock()
	m.log.Warn().Err(err).Msg("login fallido")
}

func (m *Manager) notify(intent ports.Intent, msg string) {
	if m.notifier != nil {
		m.notifier.Notify(intent, msg)
	}
}

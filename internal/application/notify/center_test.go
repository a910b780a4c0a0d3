package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/application/notify"
	"github.com/jhoicas/inventario-silo/internal/application/ports"
)

func TestHint(t *testing.T) {
	cases := map[string]string{
		"Ingresa un número válido.":                  notify.HintValidation,
		"Sesión no válida. Vuelve a iniciar sesión.": notify.HintSession, // "válida" con tilde no coincide con "valid"
		"Token inválido o expirado":                  notify.HintSession,
		"Error de red: sin conexión con el servidor": notify.HintNetwork,
		"GraphQL: campo desconocido":                 notify.HintValidation,
		"graphql execution failed":                   notify.HintAPI,
		"Algo raro pasó":                             notify.HintGeneric,
	}
	for msg, want := range cases {
		assert.Equal(t, want, notify.Hint(msg), msg)
	}
}

func TestNotify_ErrorAbreDialogo(t *testing.T) {
	c := notify.NewCenter(time.Hour, nil)
	c.Notify(ports.IntentSuccess, "Item creado correctamente")
	assert.False(t, c.Dialog().Open, "los éxitos no abren el diálogo")

	c.Notify(ports.IntentError, "Token inválido")
	d := c.Dialog()
	assert.True(t, d.Open)
	assert.Equal(t, notify.DialogTitle, d.Title)
	assert.Equal(t, notify.HintSession, d.Hint)
	assert.Equal(t, "Token inválido", c.Details())

	require.Len(t, c.Toasts(), 2)
	c.CloseDialog()
	assert.False(t, c.Dialog().Open)
	assert.Empty(t, c.Details())
}

func TestNotify_MensajeVacioSeIgnora(t *testing.T) {
	c := notify.NewCenter(time.Hour, nil)
	c.Notify(ports.IntentError, "")
	assert.Empty(t, c.Toasts())
	assert.False(t, c.Dialog().Open)
}

func TestNotify_AutoCierre(t *testing.T) {
	c := notify.NewCenter(20*time.Millisecond, nil)
	c.Notify(ports.IntentInfo, "sincronizado")
	require.Len(t, c.Toasts(), 1)

	assert.Eventually(t, func() bool { return len(c.Toasts()) == 0 }, time.Second, 5*time.Millisecond)
}

func TestDismiss(t *testing.T) {
	c := notify.NewCenter(time.Hour, nil)
	c.Notify(ports.IntentInfo, "uno")
	c.Notify(ports.IntentInfo, "dos")
	toasts := c.Toasts()
	require.Len(t, toasts, 2)

	assert.True(t, c.Dismiss(toasts[0].ID))
	assert.False(t, c.Dismiss(toasts[0].ID))
	require.Len(t, c.Toasts(), 1)
	assert.Equal(t, "dos", c.Toasts()[0].Message)
}

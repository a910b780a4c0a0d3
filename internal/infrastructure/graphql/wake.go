package graphql

import (
	"context"
	"io"
	"net/http"

	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Wake envía un GET al endpoint de health para despertar un backend en reposo.
// Los fallos se ignoran; cancelar ctx aborta la petición en curso.
func Wake(ctx context.Context, hc *http.Client, healthURL string, log *logger.Logger) {
	if healthURL == "" {
		return
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := hc.Do(req)
	if err != nil {
		if log != nil {
			log.Debug().Err(err).Str("url", healthURL).Msg("ping de arranque sin respuesta")
		}
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	_ = resp.Body.Close()
	if log != nil {
		log.Debug().Int("status", resp.StatusCode).Msg("backend despierto")
	}
}

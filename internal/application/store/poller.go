package store

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// DefaultSyncInterval intervalo de sondeo mientras hay sesión.
const DefaultSyncInterval = 30 * time.Second

// Poller refresca las colecciones periódicamente mientras hay sesión activa.
type Poller struct {
	store    *Store
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller crea el sondeo; interval <= 0 usa DefaultSyncInterval.
func NewPoller(s *Store, interval time.Duration, log *logger.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Poller{store: s, interval: interval, log: log.Component("poller")}
}

// Start lanza el ciclo: carga inicial (colecciones y reporte) y luego RefreshAll en cada tick.
// Llamarlo con el ciclo ya activo no hace nada.
func (p *Poller) Start(parent context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(parent)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	p.log.Info().Dur("intervalo", p.interval).Msg("sondeo iniciado")
}

// Stop detiene el ciclo y espera a que termine. Los fetch en curso se cancelan.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	p.log.Info().Msg("sondeo detenido")
}

// Running indica si el ciclo está activo.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	p.initial(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.store.RefreshAll(ctx); err == nil {
				p.store.MarkSynced()
			}
		}
	}
}

func (p *Poller) initial(ctx context.Context) {
	var g errgroup.Group
	g.Go(func() error { return p.store.RefreshReport(ctx) })
	g.Go(func() error {
		if err := p.store.RefreshAll(ctx); err != nil {
			return err
		}
		p.store.MarkSynced()
		return nil
	})
	if err := g.Wait(); err != nil {
		p.log.Debug().Err(err).Msg("carga inicial incompleta")
	}
}

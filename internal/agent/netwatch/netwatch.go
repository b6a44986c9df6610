// Package netwatch отслеживает доступность удаленного сервера.
//
// Probe периодически опрашивает проверочный URL и хранит последнее известное
// состояние. При переходе из offline в online вызываются подписанные
// обработчики, что запускает отправку накопленной очереди.
package netwatch

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Watcher описывает наблюдателя за состоянием сети.
type Watcher interface {
	// Online возвращает последнее известное состояние соединения
	Online() bool
	// OnOnline регистрирует обработчик перехода offline -> online
	OnOnline(fn func())
}

// Probe наблюдатель, опрашивающий проверочный URL по таймеру.
type Probe struct {
	url      string
	interval time.Duration
	httpc    *http.Client
	log      *slog.Logger

	mu        sync.Mutex
	online    bool
	callbacks []func()
}

// NewProbe создает наблюдателя. Начальное состояние — offline, до первого
// успешного опроса.
func NewProbe(url string, interval, timeout time.Duration, log *slog.Logger) *Probe {
	return &Probe{
		url:      url,
		interval: interval,
		httpc:    &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Online возвращает последнее известное состояние соединения.
func (p *Probe) Online() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.online
}

// OnOnline регистрирует обработчик перехода offline -> online.
func (p *Probe) OnOnline(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.callbacks = append(p.callbacks, fn)
}

// Run запускает цикл опроса до отмены контекста. Первый опрос выполняется
// немедленно.
func (p *Probe) Run(ctx context.Context) {
	p.Check(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check выполняет один опрос и обновляет состояние. При переходе
// offline -> online синхронно вызывает обработчики.
func (p *Probe) Check(ctx context.Context) {
	online := p.probe(ctx)

	p.mu.Lock()
	wasOnline := p.online
	p.online = online
	var toFire []func()
	if online && !wasOnline {
		toFire = append(toFire, p.callbacks...)
	}
	p.mu.Unlock()

	if online != wasOnline {
		p.log.Info("connectivity changed", slog.Bool("online", online))
	}
	for _, fn := range toFire {
		fn()
	}
}

func (p *Probe) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false
	}
	resp, err := p.httpc.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	return resp.StatusCode < http.StatusInternalServerError
}

// Package coordinator реализует координатор сохранения агента.
//
// Координатор всегда пишет сначала в локальное хранилище, затем пытается
// доставить данные на сервер. Недоставленные изменения ставятся в очередь
// отправки и уходят при восстановлении соединения. Очередь хранит только
// email: при отправке всегда читается актуальное состояние локального
// хранилища, поэтому устаревшие снимки данных не пересылаются.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/models"
)

// ErrRemoteDeferred возвращается, когда данные сохранены локально, но
// доставка на сервер отложена до восстановления соединения.
var ErrRemoteDeferred = errors.New("saved locally, remote delivery deferred")

// LocalStore описывает локальное хранилище агента.
type LocalStore interface {
	LoadLocal(ctx context.Context, email string) []models.Subscription
	SaveLocal(ctx context.Context, email string, subs []models.Subscription) error
	Enqueue(ctx context.Context, job models.FlushJob) error
	Queue(ctx context.Context) ([]models.FlushJob, error)
	ClearQueue(ctx context.Context) error
}

// RemoteClient описывает клиента удаленного хранилища.
type RemoteClient interface {
	Get(ctx context.Context, email string) ([]models.Subscription, error)
	Save(ctx context.Context, email string, subs []models.Subscription) error
	Sync(ctx context.Context, email string, pending []models.Subscription) (int, error)
}

// Netwatch описывает наблюдателя за состоянием сети.
type Netwatch interface {
	Online() bool
	OnOnline(fn func())
}

// Coordinator согласует локальное и удаленное хранилища.
type Coordinator struct {
	local  LocalStore
	remote RemoteClient
	net    Netwatch
	log    *slog.Logger
}

// New создает координатор и подписывает отправку очереди на восстановление
// соединения.
func New(local LocalStore, remote RemoteClient, net Netwatch, log *slog.Logger) *Coordinator {
	c := &Coordinator{
		local:  local,
		remote: remote,
		net:    net,
		log:    log,
	}
	net.OnOnline(func() {
		if err := c.Flush(context.Background()); err != nil {
			log.Error("flush after reconnect failed", sl.Err(err))
		}
	})
	return c
}

// Load возвращает локальный список подписок пользователя.
func (c *Coordinator) Load(ctx context.Context, email string) []models.Subscription {
	return c.local.LoadLocal(ctx, email)
}

// Persist сохраняет список локально и пытается доставить его на сервер.
//
// Локальная запись обязательна: её ошибка фатальна. Если соединения нет,
// задание ставится в очередь и возвращается nil — для пользователя операция
// успешна. Если сервер недоступен или не подтвердил запись, задание ставится
// в очередь и возвращается ErrRemoteDeferred.
func (c *Coordinator) Persist(ctx context.Context, email string, subs []models.Subscription) error {
	const op = "agent.coordinator.Persist"

	if err := c.local.SaveLocal(ctx, email, subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !c.net.Online() {
		if err := c.local.Enqueue(ctx, models.NewFlushJob(email)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		c.log.Info("offline, queued for later delivery", slog.String("email", email))
		return nil
	}

	if err := c.remote.Save(ctx, email, subs); err != nil {
		c.log.Error("remote save failed, queueing", sl.Err(err))
		if qerr := c.local.Enqueue(ctx, models.NewFlushJob(email)); qerr != nil {
			return fmt.Errorf("%s: %w", op, qerr)
		}
		return fmt.Errorf("%s: %w", op, ErrRemoteDeferred)
	}
	return nil
}

// Flush отправляет накопленную очередь на сервер. Для каждого задания
// читается текущее локальное состояние, поэтому повторные изменения одного
// пользователя схлопываются в одну отправку. Очередь очищается только после
// успеха всех заданий; при любой ошибке она остается на месте для следующей
// попытки.
func (c *Coordinator) Flush(ctx context.Context) error {
	const op = "agent.coordinator.Flush"

	if !c.net.Online() {
		return nil
	}

	jobs, err := c.local.Queue(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if len(jobs) == 0 {
		return nil
	}

	c.log.Info("flushing queued changes", slog.Int("jobs", len(jobs)))

	for _, job := range jobs {
		subs := c.local.LoadLocal(ctx, job.Email)
		if err := c.remote.Save(ctx, job.Email, subs); err != nil {
			c.log.Error("flush job failed, queue retained",
				slog.String("email", job.Email), sl.Err(err))
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	if err := c.local.ClearQueue(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	c.log.Info("flush queue drained")
	return nil
}

// Sync объединяет локальный список с удаленным и сохраняет результат
// локально. Возвращает размер объединенного списка.
func (c *Coordinator) Sync(ctx context.Context, email string) (int, error) {
	const op = "agent.coordinator.Sync"

	if !c.net.Online() {
		return 0, fmt.Errorf("%s: %w", op, ErrRemoteDeferred)
	}

	pending := c.local.LoadLocal(ctx, email)
	merged, err := c.remote.Sync(ctx, email, pending)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	remoteSubs, err := c.remote.Get(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := c.local.SaveLocal(ctx, email, remoteSubs); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return merged, nil
}

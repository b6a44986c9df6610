// Package scheduler содержит сервис, который периодически обходит списки
// подписок пользователей, находит записи со списанием на завтра и публикует
// напоминания в очередь.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/trakio/trakio/internal/lib/rabbitmq"
	"github.com/trakio/trakio/internal/lib/renewal"
	"github.com/trakio/trakio/internal/lib/sl"
	"github.com/trakio/trakio/internal/models"
)

// UserRepository определяет доступ к списку зарегистрированных пользователей.
type UserRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
}

// ListProvider определяет доступ к спискам подписок пользователей.
type ListProvider interface {
	GetList(ctx context.Context, email string) ([]models.Subscription, error)
}

// SchedulerService находит подписки со списанием на завтра и публикует напоминания.
type SchedulerService struct {
	users UserRepository
	lists ListProvider
	log   *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(users UserRepository, lists ListProvider, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		users: users,
		lists: lists,
		log:   log,
	}
}

// FindRenewalsDueTomorrow запускает обход немедленно и далее каждые 12 часов.
func (s *SchedulerService) FindRenewalsDueTomorrow(ctx context.Context, channel rabbitmq.Channel) {
	s.runFindRenewalsDueTomorrow(ctx, channel)

	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runFindRenewalsDueTomorrow(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runFindRenewalsDueTomorrow(ctx context.Context, channel rabbitmq.Channel) {
	s.log.Info("starting scan for renewals due tomorrow")
	reminders := s.CollectDueTomorrow(ctx, time.Now())
	if len(reminders) == 0 {
		s.log.Info("no renewals due tomorrow")
		return
	}
	s.log.Info("found renewals due tomorrow", "count", len(reminders))
	for _, reminder := range reminders {
		if err := rabbitmq.PublishMessage(channel, rabbitmq.Exchange, "upcoming", reminder); err != nil {
			s.log.Error("failed to publish reminder", sl.Err(err))
		}
	}
}

// CollectDueTomorrow возвращает напоминания по всем пользователям для
// подписок со следующим списанием на завтра относительно now.
func (s *SchedulerService) CollectDueTomorrow(ctx context.Context, now time.Time) []models.RenewalReminder {
	emails, err := s.users.ListEmails(ctx)
	if err != nil {
		s.log.Error("failed to list users", sl.Err(err))
		return nil
	}

	var reminders []models.RenewalReminder
	for _, email := range emails {
		subs, err := s.lists.GetList(ctx, email)
		if err != nil {
			s.log.Error("failed to load subscription list", slog.String("email", email), sl.Err(err))
			continue
		}
		for _, sub := range subs {
			if !renewal.DueTomorrow(sub, now) {
				continue
			}
			due, _ := renewal.DueOn(sub)
			reminders = append(reminders, models.RenewalReminder{
				Email:       email,
				Name:        sub.Name,
				Price:       sub.Price.String(),
				Currency:    sub.Currency,
				RenewsOn:    due.Format(renewal.DateLayout),
				MonthlyRate: renewal.MonthlyRate(sub.Price, sub.Frequency).String(),
			})
		}
	}
	return reminders
}

// Package storage содержит серверную бизнес-логику единственной конечной
// точки хранилища: чтение, полную замену и слияние списка подписок пользователя.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trakio/trakio/internal/models"
)

// ListRepository определяет методы для работы со списками подписок в хранилище.
type ListRepository interface {
	// GetList возвращает список подписок пользователя; пустой список, если записей нет.
	GetList(ctx context.Context, email string) ([]models.Subscription, error)
	// SaveList заменяет список подписок пользователя целиком.
	SaveList(ctx context.Context, email string, subs []models.Subscription) error
}

// StorageService реализует операции get, save и sync над списком подписок.
type StorageService struct {
	repo ListRepository
	log  *slog.Logger
}

// NewStorageService создает новый экземпляр StorageService.
func NewStorageService(repo ListRepository, log *slog.Logger) *StorageService {
	return &StorageService{
		repo: repo,
		log:  log,
	}
}

// Get возвращает авторитетный список подписок пользователя.
func (s *StorageService) Get(ctx context.Context, email string) ([]models.Subscription, error) {
	const op = "services.storage.Get"
	subs, err := s.repo.GetList(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// Save полностью заменяет список подписок пользователя. Слияния на уровне
// полей нет: последняя запись побеждает. Перед записью каждая подписка
// нормализуется — валюта по умолчанию, дедупликация платежей.
func (s *StorageService) Save(ctx context.Context, email string, subs []models.Subscription) error {
	const op = "services.storage.Save"
	for i := range subs {
		subs[i].Normalize()
	}
	if err := s.repo.SaveList(ctx, email, subs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("saved subscription list", slog.String("email", email), slog.Int("count", len(subs)))
	return nil
}

// Sync выполняет слияние с дедупликацией по id: записи pending, чьи id уже
// есть в удалённом списке, отбрасываются в пользу удалённой копии; остальные
// добавляются в конец с сохранением порядка. Возвращает размер итогового списка.
func (s *StorageService) Sync(ctx context.Context, email string, pending []models.Subscription) (int, error) {
	const op = "services.storage.Sync"
	current, err := s.repo.GetList(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	existing := make(map[string]struct{}, len(current))
	for _, sub := range current {
		existing[sub.ID] = struct{}{}
	}

	merged := current
	for _, sub := range pending {
		if _, ok := existing[sub.ID]; ok {
			continue
		}
		sub.Normalize()
		merged = append(merged, sub)
		existing[sub.ID] = struct{}{}
	}

	if err := s.repo.SaveList(ctx, email, merged); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("merged pending subscriptions",
		slog.String("email", email),
		slog.Int("pending", len(pending)),
		slog.Int("merged", len(merged)))
	return len(merged), nil
}

// Package remote реализует авторитетное хранилище списков подписок в Redis.
// Значение — весь список пользователя целиком; каждое сохранение полностью
// заменяет предыдущее (last-write-wins, без сравнения версий). Хук для
// более строгой семантики — условная запись по счётчику версии — осознанно
// не реализован: два устройства, пишущие одновременно, перезапишут друг друга.
package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/trakio/trakio/internal/config"
	"github.com/trakio/trakio/internal/models"
)

// Store инкапсулирует подключение к Redis.
type Store struct {
	Db *redis.Client
}

// InitServer подключается к Redis и проверяет соединение.
func InitServer(ctx context.Context, cfg config.RedisConnection) (*Store, error) {
	const op = "remote.InitServer"
	db := redis.NewClient(&redis.Options{
		Addr:         cfg.AddressRedis,
		Password:     cfg.Password,
		DB:           cfg.DB,
		Username:     cfg.User,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.TimeoutRedis,
		WriteTimeout: cfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{Db: db}, nil
}

func listKey(email string) string {
	return "subscriptions:" + email
}

// GetList возвращает список подписок пользователя; отсутствие ключа — пустой список.
func (s *Store) GetList(ctx context.Context, email string) ([]models.Subscription, error) {
	const op = "remote.GetList"
	val, err := s.Db.Get(ctx, listKey(email)).Result()
	if err == redis.Nil {
		return []models.Subscription{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var subs []models.Subscription
	if err := json.Unmarshal([]byte(val), &subs); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// SaveList заменяет список подписок пользователя целиком.
func (s *Store) SaveList(ctx context.Context, email string, subs []models.Subscription) error {
	const op = "remote.SaveList"
	jsonData, err := json.Marshal(subs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.Db.Set(ctx, listKey(email), jsonData, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Package remote реализует клиента конечной точки хранилища для агента.
//
// Любой ответ, кроме подтвержденного успеха, трактуется как неудача:
// вызывающая сторона не должна считать данные доставленными, пока сервер
// явно не подтвердил операцию.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/trakio/trakio/internal/models"
)

// ErrNotConfirmed возвращается, когда сервер не подтвердил операцию:
// сетевая ошибка, неуспешный HTTP статус или ошибка в теле ответа.
var ErrNotConfirmed = errors.New("remote did not confirm operation")

// Client HTTP-клиент конечной точки хранилища.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New создает клиента удаленного хранилища.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Get запрашивает список подписок пользователя с сервера.
func (c *Client) Get(ctx context.Context, email string) ([]models.Subscription, error) {
	const op = "agent.remote.Get"

	resp, err := c.do(ctx, models.StorageRequest{
		Action: models.ActionGet,
		Email:  email,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Subscriptions == nil {
		return []models.Subscription{}, nil
	}
	return resp.Subscriptions, nil
}

// Save отправляет полный список подписок на сервер.
func (c *Client) Save(ctx context.Context, email string, subs []models.Subscription) error {
	const op = "agent.remote.Save"

	resp, err := c.do(ctx, models.StorageRequest{
		Action:        models.ActionSave,
		Email:         email,
		Subscriptions: subs,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !resp.OK {
		return fmt.Errorf("%s: %w", op, ErrNotConfirmed)
	}
	return nil
}

// Sync объединяет отложенные изменения с удаленным списком и возвращает
// размер объединенного списка.
func (c *Client) Sync(ctx context.Context, email string, pending []models.Subscription) (int, error) {
	const op = "agent.remote.Sync"

	resp, err := c.do(ctx, models.StorageRequest{
		Action:        models.ActionSync,
		Email:         email,
		Subscriptions: pending,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !resp.OK {
		return 0, fmt.Errorf("%s: %w", op, ErrNotConfirmed)
	}
	return resp.MergedCount, nil
}

func (c *Client) do(ctx context.Context, req models.StorageRequest) (*models.StorageResponse, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/v1/storage", bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.token)

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfirmed, err)
	}
	defer func() {
		_ = httpResp.Body.Close()
	}()

	var resp models.StorageResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotConfirmed, err)
	}
	if httpResp.StatusCode != http.StatusOK {
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: status %d: %s", ErrNotConfirmed, httpResp.StatusCode, resp.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrNotConfirmed, httpResp.StatusCode)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrNotConfirmed, resp.Error)
	}
	return &resp, nil
}

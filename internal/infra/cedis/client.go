// Package cedis — клиент ERP распределительного центра. Ответы ERP считаются
// недоверенными и слабо типизированными: они декодируются в any и проходят
// через normalize перед любым использованием.
package cedis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/Spok95/beauty-stock/internal/draft"
)

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, token string) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	if token != "" {
		c.SetAuthToken(token)
	}
	return &Client{http: c}
}

// upstreamError вытаскивает сообщение сервера из тела ошибки, если оно есть;
// иначе возвращает общий текст со статусом.
func upstreamError(resp *resty.Response) error {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if body.Error != "" {
			return fmt.Errorf("ERP: %s", body.Error)
		}
		if body.Message != "" {
			return fmt.Errorf("ERP: %s", body.Message)
		}
	}
	return fmt.Errorf("ERP вернул статус %s", resp.Status())
}

func (c *Client) fetch(ctx context.Context, path string) (any, error) {
	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, fmt.Errorf("запрос %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, upstreamError(resp)
	}
	var v any
	if err := json.Unmarshal(resp.Body(), &v); err != nil {
		return nil, fmt.Errorf("декодирование ответа %s: %w", path, err)
	}
	return v, nil
}

// FetchStockFeed возвращает сырой фид остатков (форма плавает по эндпоинтам).
func (c *Client) FetchStockFeed(ctx context.Context) (any, error) {
	return c.fetch(ctx, "/api/v1/stock")
}

// FetchCatalogFeed возвращает сырой фид каталога.
func (c *Client) FetchCatalogFeed(ctx context.Context) (any, error) {
	return c.fetch(ctx, "/api/v1/catalog")
}

// SubmitReplenishment отправляет собранную заявку на пополнение в ERP.
func (c *Client) SubmitReplenishment(ctx context.Context, p draft.ReplenishmentPayload) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(p).
		Post("/api/v1/replenishments")
	if err != nil {
		return fmt.Errorf("отправка заявки: %w", err)
	}
	if resp.IsError() {
		return upstreamError(resp)
	}
	return nil
}

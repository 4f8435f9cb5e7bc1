// Package inventaire provides a Go client for the inventory API. The client
// runs the canonical field rules locally before submitting, so callers get
// instant feedback; the server remains the source of truth and re-validates
// every request.
package inventaire

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/inventaire/internal/domain/models"
	"github.com/mamadbah2/inventaire/pkg/validation"
)

// Client exposes the inventory API operations.
type Client interface {
	CreateItem(ctx context.Context, in models.CreateItemInput) (*models.InventoryItem, error)
	ListItems(ctx context.Context) ([]models.InventoryItem, error)
	GetItem(ctx context.Context, id string) (*models.InventoryItem, error)
	SearchItems(ctx context.Context, query string) ([]models.InventoryItem, error)
	UpdateItem(ctx context.Context, id string, patch models.UpdateItemInput) (*models.InventoryItem, error)
	DeleteItem(ctx context.Context, id string) error
	Summary(ctx context.Context) (*models.StatsSummary, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds an API client for the given base URL and bearer token.
func NewClient(baseURL, token string) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", token)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient}
}

// apiError mirrors the error payload returned by the API.
type apiError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type itemList struct {
	Items []models.InventoryItem `json:"items"`
}

// CreateItem validates the candidate locally, then posts it. A locally
// rejected candidate returns *models.ValidationError without a round trip.
func (c *APIClient) CreateItem(ctx context.Context, in models.CreateItemInput) (*models.InventoryItem, error) {
	in.Normalize()
	if fields := validation.ValidateCreate(&in); len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields}
	}

	result := new(models.InventoryItem)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(in).
		SetResult(result).
		SetError(apiErr).
		Post("/api/items")
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// ListItems returns every item of the authenticated owner.
func (c *APIClient) ListItems(ctx context.Context) ([]models.InventoryItem, error) {
	result := new(itemList)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/api/items")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// GetItem fetches a single item by its store id.
func (c *APIClient) GetItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	result := new(models.InventoryItem)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get(fmt.Sprintf("/api/items/%s", url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// SearchItems runs a free-text search. An empty query is rejected locally.
func (c *APIClient) SearchItems(ctx context.Context, query string) ([]models.InventoryItem, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", models.ErrInvalidArgument)
	}

	result := new(itemList)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetResult(result).
		SetError(apiErr).
		Get("/api/items/search")
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// UpdateItem validates the patch locally, then submits it.
func (c *APIClient) UpdateItem(ctx context.Context, id string, patch models.UpdateItemInput) (*models.InventoryItem, error) {
	patch.Normalize()
	if fields := validation.ValidateUpdate(&patch); len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields}
	}

	result := new(models.InventoryItem)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(patch).
		SetResult(result).
		SetError(apiErr).
		Put(fmt.Sprintf("/api/items/%s", url.PathEscape(id)))
	if err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteItem removes an item permanently.
func (c *APIClient) DeleteItem(ctx context.Context, id string) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetError(apiErr).
		Delete(fmt.Sprintf("/api/items/%s", url.PathEscape(id)))
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return checkResponse(resp, apiErr)
}

// Summary fetches the per-owner aggregate figures.
func (c *APIClient) Summary(ctx context.Context) (*models.StatsSummary, error) {
	result := new(models.StatsSummary)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/api/stats/summary")
	if err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}
	if err := checkResponse(resp, apiErr); err != nil {
		return nil, err
	}
	return result, nil
}

func checkResponse(resp *resty.Response, apiErr *apiError) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	if apiErr != nil && len(apiErr.Fields) > 0 {
		return &models.ValidationError{Fields: apiErr.Fields}
	}

	message := ""
	if apiErr != nil {
		message = apiErr.Error
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return models.ErrNotFound
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", models.ErrInvalidArgument, message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", models.ErrConflict, message)
	case http.StatusServiceUnavailable:
		return fmt.Errorf("%w: %s", models.ErrServiceUnavailable, message)
	default:
		return fmt.Errorf("inventory api error: code=%d, message=%s", resp.StatusCode(), message)
	}
}

package client

import (
	"context"
	"net/http"
	"time"
)

const modelsPath = "/v1/models"

// Model describes one available model.
type Model struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// ModelsService lists and retrieves available models.
type ModelsService struct {
	client *Client
}

// List returns a page of available models.
func (s *ModelsService) List(ctx context.Context, params ListParams) (*Page[Model], error) {
	return listPage[Model](ctx, s.client, modelsPath, params)
}

// Retrieve fetches a single model by ID.
func (s *ModelsService) Retrieve(ctx context.Context, id string) (*Model, error) {
	var m Model
	if err := s.client.doJSON(ctx, http.MethodGet, modelsPath+"/"+id, nil, nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

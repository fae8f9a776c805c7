package client

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	ai "github.com/calebmweir/parley"
)

const batchesPath = "/v1/messages/batches"

// BatchRequest is one message-creation request inside a batch. CustomID
// correlates the eventual result with the request; when empty, Create
// assigns a generated one.
type BatchRequest struct {
	CustomID string       `json:"custom_id"`
	Messages []ai.Message `json:"-"`
	Options  []ai.Option  `json:"-"`
}

// batchRequestWire is the serialized form of one batch entry.
type batchRequestWire struct {
	CustomID string          `json:"custom_id"`
	Params   *messageRequest `json:"params"`
}

// RequestCounts tracks the processing states of a batch's requests.
type RequestCounts struct {
	Processing int `json:"processing"`
	Succeeded  int `json:"succeeded"`
	Errored    int `json:"errored"`
	Canceled   int `json:"canceled"`
	Expired    int `json:"expired"`
}

// Batch is an asynchronous group of message-creation requests.
type Batch struct {
	ID               string        `json:"id"`
	ProcessingStatus string        `json:"processing_status"`
	RequestCounts    RequestCounts `json:"request_counts"`
	CreatedAt        time.Time     `json:"created_at"`
	EndedAt          *time.Time    `json:"ended_at,omitempty"`
	ExpiresAt        time.Time     `json:"expires_at"`
	ResultsURL       string        `json:"results_url,omitempty"`
}

// BatchesService manages asynchronous message batches.
type BatchesService struct {
	client *Client
}

// Create submits a batch of message-creation requests.
func (s *BatchesService) Create(ctx context.Context, requests []BatchRequest) (*Batch, error) {
	if len(requests) == 0 {
		return nil, ai.NewUserInputError("client: batch requires at least one request", 0, nil)
	}

	wire := make([]batchRequestWire, 0, len(requests))
	for _, r := range requests {
		params, err := buildMessageRequest(r.Messages, ai.ApplyOptions(r.Options...), false)
		if err != nil {
			return nil, err
		}
		customID := r.CustomID
		if customID == "" {
			customID = "req-" + uuid.New().String()
		}
		wire = append(wire, batchRequestWire{CustomID: customID, Params: params})
	}

	body := struct {
		Requests []batchRequestWire `json:"requests"`
	}{Requests: wire}

	var b Batch
	if err := s.client.doJSON(ctx, http.MethodPost, batchesPath, nil, body, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// List returns a page of batches.
func (s *BatchesService) List(ctx context.Context, params ListParams) (*Page[Batch], error) {
	return listPage[Batch](ctx, s.client, batchesPath, params)
}

// Retrieve fetches a single batch by ID.
func (s *BatchesService) Retrieve(ctx context.Context, id string) (*Batch, error) {
	var b Batch
	if err := s.client.doJSON(ctx, http.MethodGet, batchesPath+"/"+id, nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Cancel requests cancellation of an in-progress batch.
func (s *BatchesService) Cancel(ctx context.Context, id string) (*Batch, error) {
	var b Batch
	if err := s.client.doJSON(ctx, http.MethodPost, batchesPath+"/"+id+"/cancel", nil, nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

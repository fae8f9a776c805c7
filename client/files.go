package client

import (
	"context"
	"net/http"
	"time"
)

const filesPath = "/v1/files"

// File is the metadata of an uploaded file. Upload itself (multipart
// encoding) is out of scope for this client.
type File struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
	Downloadable bool      `json:"downloadable"`
}

// FilesService manages uploaded file metadata.
type FilesService struct {
	client *Client
}

// List returns a page of file metadata.
func (s *FilesService) List(ctx context.Context, params ListParams) (*Page[File], error) {
	return listPage[File](ctx, s.client, filesPath, params)
}

// Retrieve fetches metadata for a single file by ID.
func (s *FilesService) Retrieve(ctx context.Context, id string) (*File, error) {
	var f File
	if err := s.client.doJSON(ctx, http.MethodGet, filesPath+"/"+id, nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// Delete removes a file.
func (s *FilesService) Delete(ctx context.Context, id string) error {
	return s.client.doJSON(ctx, http.MethodDelete, filesPath+"/"+id, nil, nil, nil)
}

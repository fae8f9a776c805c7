package client

import (
	"context"
	"net/http"
	"time"
)

const skillsPath = "/v1/skills"

// Skill is a reusable, versioned capability definition.
type Skill struct {
	ID            string    `json:"id"`
	DisplayName   string    `json:"display_name"`
	Description   string    `json:"description,omitempty"`
	LatestVersion string    `json:"latest_version,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SkillsService manages skill definitions.
type SkillsService struct {
	client *Client
}

// List returns a page of skills.
func (s *SkillsService) List(ctx context.Context, params ListParams) (*Page[Skill], error) {
	return listPage[Skill](ctx, s.client, skillsPath, params)
}

// Retrieve fetches a single skill by ID.
func (s *SkillsService) Retrieve(ctx context.Context, id string) (*Skill, error) {
	var sk Skill
	if err := s.client.doJSON(ctx, http.MethodGet, skillsPath+"/"+id, nil, nil, &sk); err != nil {
		return nil, err
	}
	return &sk, nil
}

// Delete removes a skill.
func (s *SkillsService) Delete(ctx context.Context, id string) error {
	return s.client.doJSON(ctx, http.MethodDelete, skillsPath+"/"+id, nil, nil, nil)
}

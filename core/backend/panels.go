package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

// The backend /admin/panels endpoints form the authoritative panel store.
// List/Get are read-only; Create/Save/Delete forward the admin bearer token.

// List returns all panel definitions
func (c *Client) List(ctx context.Context) ([]domain.PanelDefinition, error) {
	var envelope struct {
		Panels []domain.PanelDefinition `json:"panels"`
	}
	if err := c.do(ctx, http.MethodGet, "/admin/panels", nil, nil, false, &envelope); err != nil {
		return nil, err
	}
	if envelope.Panels == nil {
		envelope.Panels = []domain.PanelDefinition{}
	}
	return envelope.Panels, nil
}

// Get returns a panel definition by slug
func (c *Client) Get(ctx context.Context, slug string) (*domain.PanelDefinition, error) {
	var panel domain.PanelDefinition
	err := c.do(ctx, http.MethodGet, "/admin/panels/"+url.PathEscape(slug), nil, nil, false, &panel)
	if err != nil {
		// A store 404 means the slug does not exist, not a broken backend
		if isUpstreamStatus(err, http.StatusNotFound) {
			return nil, errors.NewAppError(errors.ErrCodePanelNotFound, "panel '"+slug+"' not found", err)
		}
		return nil, err
	}
	return &panel, nil
}

// Create persists a new panel definition
func (c *Client) Create(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error) {
	var created domain.PanelDefinition
	if err := c.do(ctx, http.MethodPost, "/admin/panels", nil, panel, true, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Save replaces the panel definition stored under panel.Slug
func (c *Client) Save(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error) {
	var saved domain.PanelDefinition
	path := "/admin/panels/" + url.PathEscape(panel.Slug)
	if err := c.do(ctx, http.MethodPut, path, nil, panel, true, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

// Delete removes the panel definition stored under slug
func (c *Client) Delete(ctx context.Context, slug string) error {
	return c.do(ctx, http.MethodDelete, "/admin/panels/"+url.PathEscape(slug), nil, nil, true, nil)
}

package interfaces

import (
	"context"

	"github.com/nwslgate/nwslgate/core/domain"
)

// PanelStore defines the interface for panel definition persistence.
// The authoritative store lives in the analytics backend; the gateway
// only ever holds short-lived read replicas of its contents.
type PanelStore interface {
	// List returns all panel definitions
	List(ctx context.Context) ([]domain.PanelDefinition, error)

	// Get returns a panel definition by slug
	Get(ctx context.Context, slug string) (*domain.PanelDefinition, error)

	// Create persists a new panel definition
	Create(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error)

	// Save replaces the panel definition stored under panel.Slug
	Save(ctx context.Context, panel domain.PanelDefinition) (*domain.PanelDefinition, error)

	// Delete removes the panel definition stored under slug
	Delete(ctx context.Context, slug string) error
}

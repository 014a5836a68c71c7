package dto

import "github.com/nwslgate/nwslgate/core/domain"

// PanelTabPayload is one tab of an inbound panel definition
type PanelTabPayload struct {
	ID          string `json:"id"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
	SQL         string `json:"sql" validate:"required"`
	Position    int    `json:"position"`
}

// PanelPayload is the admin create/update body. Structural checks live in
// the validate tags; slug shape, tab ordering, and SQL policy are domain
// and guard concerns applied after decoding.
type PanelPayload struct {
	Slug        string            `json:"slug"`
	Title       string            `json:"title" validate:"required"`
	Description string            `json:"description"`
	MaxRows     int               `json:"max_rows" validate:"required,gt=0"`
	Tags        []string          `json:"tags"`
	Tabs        []PanelTabPayload `json:"tabs" validate:"required,min=1,dive"`
}

// ToDomain converts the payload to a domain definition
func (p PanelPayload) ToDomain() domain.PanelDefinition {
	def := domain.PanelDefinition{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		MaxRows:     p.MaxRows,
		Tags:        p.Tags,
	}
	for _, tab := range p.Tabs {
		def.Tabs = append(def.Tabs, domain.PanelTab{
			ID:          tab.ID,
			Label:       tab.Label,
			Description: tab.Description,
			SQL:         tab.SQL,
			Position:    tab.Position,
		})
	}
	return def
}

// PanelListResponse wraps the admin list endpoint
type PanelListResponse struct {
	Panels []domain.PanelDefinition `json:"panels"`
}

package domain

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// slugPattern matches URL-safe identifiers: must start with a letter,
// lowercase letters, numbers, hyphens, and underscores only
var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// PanelDefinition is a named, stored definition of one or more labeled SQL
// queries rendered as a data table. The slug is the primary key; renaming a
// panel is an explicit delete-and-create, never an in-place slug edit.
type PanelDefinition struct {
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	MaxRows     int        `json:"max_rows"`
	Tags        []string   `json:"tags"`
	Tabs        []PanelTab `json:"tabs"`
}

// PanelTab is one SQL query plus display label within a panel, ordered by
// Position. Positions are dense and zero-based after Normalize.
type PanelTab struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	SQL         string `json:"sql"`
	Position    int    `json:"position"`
}

// PanelMetadata is the definition without its SQL, merged into panel
// execution envelopes returned to clients.
type PanelMetadata struct {
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	MaxRows     int      `json:"max_rows"`
	Tags        []string `json:"tags"`
}

// Metadata returns the panel's metadata view
func (p *PanelDefinition) Metadata() PanelMetadata {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return PanelMetadata{
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		MaxRows:     p.MaxRows,
		Tags:        tags,
	}
}

// ValidationErrors represents a collection of validation errors
type ValidationErrors struct {
	Errors []string
}

// Error implements the error interface
func (ve *ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return ""
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(ve.Errors), strings.Join(ve.Errors, "; "))
}

// Validate performs comprehensive validation on the panel definition
func (p *PanelDefinition) Validate() error {
	var errs []string

	if p.Slug == "" {
		errs = append(errs, "slug is required")
	} else if !slugPattern.MatchString(p.Slug) {
		errs = append(errs, fmt.Sprintf("slug '%s' is invalid. Must start with a letter and be in lower-snake-case or lower-kebab-case (lowercase letters, numbers, hyphens, and underscores only)", p.Slug))
	}

	if strings.TrimSpace(p.Title) == "" {
		errs = append(errs, "title is required")
	}

	if p.MaxRows <= 0 {
		errs = append(errs, "max_rows must be greater than zero")
	}

	if len(p.Tabs) == 0 {
		errs = append(errs, "at least one tab is required")
	}

	seenIDs := make(map[string]bool)
	for i, tab := range p.Tabs {
		prefix := fmt.Sprintf("tabs[%d]", i)
		if tab.ID != "" {
			prefix = fmt.Sprintf("tab '%s'", tab.ID)
			if seenIDs[tab.ID] {
				errs = append(errs, fmt.Sprintf("%s - id must be unique within the panel", prefix))
			}
			seenIDs[tab.ID] = true
		}
		if strings.TrimSpace(tab.Label) == "" {
			errs = append(errs, fmt.Sprintf("%s - label is required", prefix))
		}
		if strings.TrimSpace(tab.SQL) == "" {
			errs = append(errs, fmt.Sprintf("%s - sql is required", prefix))
		}
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// Normalize sorts tabs by position and reassigns dense zero-based positions,
// preserving the relative order of tabs that share a position. Tabs without
// an id receive a server-assigned one derived from their label.
func (p *PanelDefinition) Normalize() {
	sort.SliceStable(p.Tabs, func(i, j int) bool {
		return p.Tabs[i].Position < p.Tabs[j].Position
	})

	seen := make(map[string]bool, len(p.Tabs))
	for i := range p.Tabs {
		p.Tabs[i].Position = i
		if p.Tabs[i].ID == "" {
			p.Tabs[i].ID = assignTabID(p.Tabs[i].Label, i, seen)
		}
		seen[p.Tabs[i].ID] = true
	}
}

// RemoveTab deletes the tab with the given id and recomputes positions
// contiguously. It reports whether a tab was removed.
func (p *PanelDefinition) RemoveTab(id string) bool {
	idx := -1
	for i, tab := range p.Tabs {
		if tab.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	p.Tabs = append(p.Tabs[:idx], p.Tabs[idx+1:]...)
	for i := range p.Tabs {
		p.Tabs[i].Position = i
	}
	return true
}

// PrimaryTab returns the tab in display position zero, or nil for an empty
// panel. Callers should Normalize first if the definition came from a client.
func (p *PanelDefinition) PrimaryTab() *PanelTab {
	if len(p.Tabs) == 0 {
		return nil
	}
	primary := &p.Tabs[0]
	for i := range p.Tabs {
		if p.Tabs[i].Position < primary.Position {
			primary = &p.Tabs[i]
		}
	}
	return primary
}

// TabByID returns the tab with the given id, or nil when absent
func (p *PanelDefinition) TabByID(id string) *PanelTab {
	for i := range p.Tabs {
		if p.Tabs[i].ID == id {
			return &p.Tabs[i]
		}
	}
	return nil
}

// assignTabID derives a stable id from the tab label, falling back to the
// tab's position when the label yields nothing usable
func assignTabID(label string, position int, taken map[string]bool) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(label)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	id := strings.Trim(b.String(), "-")
	if id == "" || id[0] < 'a' || id[0] > 'z' {
		id = fmt.Sprintf("tab-%d", position)
	}
	if taken[id] {
		id = fmt.Sprintf("%s-%d", id, position)
	}
	return id
}

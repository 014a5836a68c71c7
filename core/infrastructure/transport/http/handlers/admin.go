package handlers

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/nwslgate/nwslgate/core/config"
	"github.com/nwslgate/nwslgate/core/domain"
	"github.com/nwslgate/nwslgate/core/domain/interfaces"
	"github.com/nwslgate/nwslgate/core/guard"
	"github.com/nwslgate/nwslgate/core/infrastructure/transport/http/dto"
	"github.com/nwslgate/nwslgate/core/shared/errors"
)

var validate = validator.New()

// AdminHandler exposes panel definition CRUD. Reads go straight to the
// store; mutations additionally require the admin token to be configured
// and revalidate every tab's SQL against the read-only guard, so a bad
// definition is rejected here rather than at first render.
type AdminHandler struct {
	*BaseHandler
	store interfaces.PanelStore
	cfg   *config.Config
}

// NewAdminHandler creates an admin handler
func NewAdminHandler(store interfaces.PanelStore, cfg *config.Config) *AdminHandler {
	return &AdminHandler{
		BaseHandler: NewBaseHandler("admin"),
		store:       store,
		cfg:         cfg,
	}
}

// List handles GET /admin/panels
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	panels, err := h.store.List(r.Context())
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dto.PanelListResponse{Panels: panels})
}

// Get handles GET /admin/panels/{slug}
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	panel, err := h.store.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.WriteError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, panel)
}

// Create handles POST /admin/panels
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	def, ok := h.decodePanel(w, r, "")
	if !ok {
		return
	}

	created, err := h.store.Create(r.Context(), *def)
	if err != nil {
		h.WriteError(w, mutationError(err, "create"))
		return
	}
	h.WriteJSON(w, http.StatusCreated, created)
}

// Update handles PUT /admin/panels/{slug}. The path slug is
// authoritative; a body slug that disagrees is rejected rather than
// silently renaming the panel.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	def, ok := h.decodePanel(w, r, slug)
	if !ok {
		return
	}

	saved, err := h.store.Save(r.Context(), *def)
	if err != nil {
		h.WriteError(w, mutationError(err, "save"))
		return
	}
	h.WriteJSON(w, http.StatusOK, saved)
}

// Delete handles DELETE /admin/panels/{slug}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.RequireAdminToken(); err != nil {
		h.WriteError(w, err)
		return
	}

	if err := h.store.Delete(r.Context(), chi.URLParam(r, "slug")); err != nil {
		h.WriteError(w, mutationError(err, "delete"))
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// decodePanel runs the mutation preamble: admin token check, JSON decode,
// structural validation, domain normalization and validation, and the
// per-tab SQL guard. pathSlug non-empty pins the definition's slug.
func (h *AdminHandler) decodePanel(w http.ResponseWriter, r *http.Request, pathSlug string) (*domain.PanelDefinition, bool) {
	if err := h.cfg.RequireAdminToken(); err != nil {
		h.WriteError(w, err)
		return nil, false
	}

	var payload dto.PanelPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.WriteError(w, errors.NewAppError(errors.ErrCodeInvalidInput, "Invalid JSON body", err))
		return nil, false
	}

	if err := validate.Struct(payload); err != nil {
		var details []string
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrs {
				details = append(details, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
			}
		}
		h.WriteValidationError(w, details)
		return nil, false
	}

	def := payload.ToDomain()
	if pathSlug != "" {
		if def.Slug != "" && def.Slug != pathSlug {
			h.WriteError(w, errors.NewAppError(errors.ErrCodeValidationError,
				"slug in body does not match slug in path", nil))
			return nil, false
		}
		def.Slug = pathSlug
	}

	def.Normalize()

	if err := def.Validate(); err != nil {
		if verrs, ok := err.(*domain.ValidationErrors); ok {
			h.WriteValidationError(w, verrs.Errors)
		} else {
			h.WriteError(w, errors.NewAppError(errors.ErrCodeValidationError, err.Error(), err))
		}
		return nil, false
	}

	var sqlErrs []string
	for _, tab := range def.Tabs {
		if _, err := guard.Validate(tab.SQL); err != nil {
			sqlErrs = append(sqlErrs, fmt.Sprintf("tab '%s': %s", tab.ID, guardMessage(err)))
		}
	}
	if len(sqlErrs) > 0 {
		h.WriteValidationError(w, sqlErrs)
		return nil, false
	}

	return &def, true
}

func guardMessage(err error) string {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// mutationError keeps validation and configuration statuses intact and
// folds everything else, unknown slugs included, into a 400: a failed
// save or delete is the caller's problem to correct and retry. Only the
// admin GET distinguishes a missing slug with a 404.
func mutationError(err error, action string) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		switch appErr.Code {
		case errors.ErrCodeValidationError, errors.ErrCodeNotConfigured:
			return err
		}
	}
	return errors.NewAppError(errors.ErrCodeValidationError,
		fmt.Sprintf("Failed to %s panel", action), err)
}

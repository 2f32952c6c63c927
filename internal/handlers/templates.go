package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/store"
)

// Templates groups template management handlers.
type Templates struct {
	shopStore     *store.ShopStore
	templateStore *store.TemplateStore
}

// NewTemplates creates a new Templates handler group.
func NewTemplates(shopStore *store.ShopStore, templateStore *store.TemplateStore) *Templates {
	return &Templates{
		shopStore:     shopStore,
		templateStore: templateStore,
	}
}

// resolveTemplate loads the template named in the {templateId} URL
// parameter and verifies it belongs to the given shop. Writes the error
// response and returns nil on failure.
func (h *Templates) resolveTemplate(w http.ResponseWriter, r *http.Request, shop *models.Shop) *models.Template {
	id, err := uuid.Parse(chi.URLParam(r, "templateId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template id")
		return nil
	}

	tmpl, err := h.templateStore.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "template_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return nil
	}
	if tmpl == nil || tmpl.ShopID != shop.ID {
		respondError(w, http.StatusNotFound, "template not found")
		return nil
	}
	return tmpl
}

// List returns all of a shop's templates.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	templates, err := h.templateStore.ListByShop(shop.ID)
	if err != nil {
		slog.Error("list templates failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if templates == nil {
		templates = []models.Template{}
	}
	respondJSON(w, http.StatusOK, templates)
}

// Create adds a new template to the shop.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplateName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	tmplType := models.TemplateType(req.Type)
	if !models.ValidTemplateType(tmplType) {
		respondError(w, http.StatusBadRequest, "invalid template type")
		return
	}

	tmpl, err := h.templateStore.Create(shop.ID, strings.TrimSpace(req.Name), tmplType)
	if err != nil {
		slog.Error("create template failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondJSON(w, http.StatusCreated, tmpl)
}

// Get returns a single template.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	tmpl := h.resolveTemplate(w, r, shop)
	if tmpl == nil {
		return
	}
	respondJSON(w, http.StatusOK, tmpl)
}

// Rename updates a template's name.
func (h *Templates) Rename(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	tmpl := h.resolveTemplate(w, r, shop)
	if tmpl == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTemplateName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.templateStore.Rename(tmpl.ID, strings.TrimSpace(req.Name)); err != nil {
		slog.Error("rename template failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondSuccess(w)
}

// SetDefault makes a template the default for its type within the shop.
func (h *Templates) SetDefault(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	tmpl := h.resolveTemplate(w, r, shop)
	if tmpl == nil {
		return
	}

	if err := h.templateStore.SetDefault(tmpl.ID); err != nil {
		slog.Error("set default template failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondSuccess(w)
}

// Delete removes a template. The default template of a type cannot be
// deleted; swap the default first.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	tmpl := h.resolveTemplate(w, r, shop)
	if tmpl == nil {
		return
	}
	if tmpl.IsDefault {
		respondError(w, http.StatusConflict, "cannot delete the default template")
		return
	}

	if err := h.templateStore.Delete(tmpl.ID); err != nil {
		slog.Error("delete template failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondSuccess(w)
}

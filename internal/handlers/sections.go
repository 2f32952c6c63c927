package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/blocks"
	"storefront/internal/cache"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Sections groups section management handlers.
type Sections struct {
	shopStore     *store.ShopStore
	templateStore *store.TemplateStore
	sectionStore  *store.SectionStore
	blockStore    *store.SectionBlockStore
	events        *events.Publisher
	pages         *cache.PageCache
}

// NewSections creates a new Sections handler group.
func NewSections(shopStore *store.ShopStore, templateStore *store.TemplateStore, sectionStore *store.SectionStore, blockStore *store.SectionBlockStore, publisher *events.Publisher, pages *cache.PageCache) *Sections {
	return &Sections{
		shopStore:     shopStore,
		templateStore: templateStore,
		sectionStore:  sectionStore,
		blockStore:    blockStore,
		events:        publisher,
		pages:         pages,
	}
}

// sectionView is a section with its composed top-level blocks.
type sectionView struct {
	models.Section
	Blocks []blockView `json:"blocks"`
}

// blockView is a block row with any nested tree inlined under "blocks".
// Container rows keep their remaining settings; the tree moves out of the
// settings payload into the typed Blocks field.
type blockView struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Settings map[string]any `json:"settings,omitempty"`
	Enabled  bool           `json:"enabled"`
	Position int            `json:"position"`
	Blocks   []blocks.Block `json:"blocks,omitempty"`
}

// composeBlockViews turns a section's rows into API views, decoding the
// nested tree out of container rows' settings.
func composeBlockViews(rows []models.SectionBlock) ([]blockView, error) {
	views := make([]blockView, 0, len(rows))
	for _, row := range rows {
		view := blockView{
			ID:       row.ID,
			Type:     row.Type,
			Enabled:  row.Enabled,
			Position: row.Position,
		}

		if blocks.IsContainerType(row.Type) {
			tree, rest, err := blocks.DecodeTree(row.Settings)
			if err != nil {
				return nil, err
			}
			view.Blocks = tree
			if len(rest) > 0 {
				view.Settings = make(map[string]any, len(rest))
				for k, v := range rest {
					var val any
					if err := json.Unmarshal(v, &val); err != nil {
						return nil, err
					}
					view.Settings[k] = val
				}
			}
		} else if len(row.Settings) > 0 {
			if err := json.Unmarshal(row.Settings, &view.Settings); err != nil {
				return nil, err
			}
		}

		views = append(views, view)
	}
	return views, nil
}

// resolveSection loads the section named in the {sectionId} URL parameter
// and verifies it belongs to the given template. Writes the error response
// and returns nil on failure.
func (h *Sections) resolveSection(w http.ResponseWriter, r *http.Request, tmpl *models.Template) *models.Section {
	raw := chi.URLParam(r, "sectionId")
	if models.IsTempSectionID(raw) {
		respondError(w, http.StatusBadRequest, "temporary sections cannot be modified; save the section first")
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid section id")
		return nil
	}

	sec, err := h.sectionStore.FindByID(id)
	if err != nil {
		slog.Error("find section failed", "section_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return nil
	}
	if sec == nil || sec.TemplateID != tmpl.ID {
		respondError(w, http.StatusNotFound, "section not found")
		return nil
	}
	return sec
}

// guard resolves the shop and template from the URL. Returns nils after
// writing the error response on failure.
func (h *Sections) guard(w http.ResponseWriter, r *http.Request) (*models.Shop, *models.Template) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return nil, nil
	}

	id, err := uuid.Parse(chi.URLParam(r, "templateId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template id")
		return nil, nil
	}
	tmpl, err := h.templateStore.FindByID(id)
	if err != nil {
		slog.Error("find template failed", "template_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return nil, nil
	}
	if tmpl == nil || tmpl.ShopID != shop.ID {
		respondError(w, http.StatusNotFound, "template not found")
		return nil, nil
	}
	return shop, tmpl
}

// List returns the template's sections in render order, each with its
// composed block tree.
func (h *Sections) List(w http.ResponseWriter, r *http.Request) {
	_, tmpl := h.guard(w, r)
	if tmpl == nil {
		return
	}

	sections, err := h.sectionStore.ListByTemplate(tmpl.ID)
	if err != nil {
		slog.Error("list sections failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	views := make([]sectionView, 0, len(sections))
	for _, sec := range sections {
		rows, err := h.blockStore.ListBySection(sec.ID)
		if err != nil {
			slog.Error("list section blocks failed", "section_id", sec.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
			return
		}
		blockViews, err := composeBlockViews(rows)
		if err != nil {
			slog.Error("compose section blocks failed", "section_id", sec.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
			return
		}
		views = append(views, sectionView{Section: sec, Blocks: blockViews})
	}

	respondJSON(w, http.StatusOK, views)
}

// Create appends a section to the template.
func (h *Sections) Create(w http.ResponseWriter, r *http.Request) {
	shop, tmpl := h.guard(w, r)
	if tmpl == nil {
		return
	}

	var req struct {
		Type     string          `json:"type"`
		Settings json.RawMessage `json:"settings"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTypeTag(req.Type); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	sec, err := h.sectionStore.Create(tmpl.ID, req.Type, req.Settings)
	if err != nil {
		slog.Error("create section failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	h.afterMutation(r, events.EventSectionUpdated, shop, sec.ID.String())
	respondJSON(w, http.StatusCreated, sec)
}

// Update replaces a section's settings and enabled flag. Omitted fields
// keep their current value.
func (h *Sections) Update(w http.ResponseWriter, r *http.Request) {
	shop, tmpl := h.guard(w, r)
	if tmpl == nil {
		return
	}
	sec := h.resolveSection(w, r, tmpl)
	if sec == nil {
		return
	}

	var req struct {
		Settings json.RawMessage `json:"settings"`
		Enabled  *bool           `json:"enabled"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings := sec.Settings
	if req.Settings != nil {
		settings = req.Settings
	}
	enabled := sec.Enabled
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	updated, err := h.sectionStore.Update(sec.ID, settings, enabled)
	if err != nil {
		slog.Error("update section failed", "section_id", sec.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}

	h.afterMutation(r, events.EventSectionUpdated, shop, sec.ID.String())
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a section and closes the position gap in the template.
func (h *Sections) Delete(w http.ResponseWriter, r *http.Request) {
	shop, tmpl := h.guard(w, r)
	if tmpl == nil {
		return
	}
	sec := h.resolveSection(w, r, tmpl)
	if sec == nil {
		return
	}

	deleted, err := h.sectionStore.DeleteAndShift(sec.ID)
	if err != nil {
		slog.Error("delete section failed", "section_id", sec.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "section not found")
		return
	}

	h.afterMutation(r, events.EventSectionDeleted, shop, sec.ID.String())
	respondSuccess(w)
}

// Reorder assigns section positions following the submitted id order.
func (h *Sections) Reorder(w http.ResponseWriter, r *http.Request) {
	shop, tmpl := h.guard(w, r)
	if tmpl == nil {
		return
	}

	var req struct {
		SectionIDs []uuid.UUID `json:"section_ids"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.SectionIDs) == 0 {
		respondError(w, http.StatusBadRequest, "section_ids is required")
		return
	}

	if err := h.sectionStore.Reorder(tmpl.ID, req.SectionIDs); err != nil {
		if errors.Is(err, store.ErrReorderMismatch) {
			respondError(w, http.StatusBadRequest, "section_ids must list every section of the template exactly once")
			return
		}
		slog.Error("reorder sections failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	h.afterMutation(r, events.EventSectionUpdated, shop, "")
	respondSuccess(w)
}

// afterMutation publishes the section event and invalidates the shop's
// cached storefront pages. Best-effort.
func (h *Sections) afterMutation(r *http.Request, event string, shop *models.Shop, sectionID string) {
	h.events.Publish(r.Context(), event, shop.ID, sectionID, "")
	h.pages.InvalidateShop(r.Context(), shop.ID)
}

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/blocks"
	"storefront/internal/editor"
	"storefront/internal/middleware"
)

// Blocks groups the theme editor's block mutation handlers. Every request
// runs through the editor's section guard (temp-id rejection, ownership
// chain) before touching block data.
type Blocks struct {
	editor *editor.Editor
}

// NewBlocks creates a new Blocks handler group.
func NewBlocks(ed *editor.Editor) *Blocks {
	return &Blocks{editor: ed}
}

// Create adds a block to the section: top-level when parent_id is absent,
// nested into the named container otherwise.
func (h *Blocks) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		ParentID string         `json:"parent_id"`
		Type     string         `json:"type"`
		Settings map[string]any `json:"settings"`
		Enabled  *bool          `json:"enabled"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateTypeTag(req.Type); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	result, err := h.editor.CreateBlock(r.Context(), sess.UserID, chi.URLParam(r, "sectionId"), req.ParentID, editor.NewBlock{
		Type:     req.Type,
		Settings: req.Settings,
		Enabled:  enabled,
	})
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

// Update applies a partial update to a block anywhere in the section's
// tree. Omitted fields keep their current value.
func (h *Blocks) Update(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Settings map[string]any `json:"settings"`
		Enabled  *bool          `json:"enabled"`
		Position *int           `json:"position"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	patch := blocks.Patch{
		Settings: req.Settings,
		Enabled:  req.Enabled,
		Position: req.Position,
	}
	if patch.IsZero() {
		respondError(w, http.StatusBadRequest, "nothing to update")
		return
	}

	result, err := h.editor.UpdateBlock(r.Context(), sess.UserID, chi.URLParam(r, "sectionId"), chi.URLParam(r, "blockId"), patch)
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Delete removes a block anywhere in the section's tree.
func (h *Blocks) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	err := h.editor.DeleteBlock(r.Context(), sess.UserID, chi.URLParam(r, "sectionId"), chi.URLParam(r, "blockId"))
	if err != nil {
		h.respondEditorError(w, r, err)
		return
	}

	respondSuccess(w)
}

// respondEditorError maps the editor's sentinel errors onto HTTP statuses.
func (h *Blocks) respondEditorError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, editor.ErrTemporarySection):
		respondError(w, http.StatusBadRequest, "temporary sections cannot be modified; save the section first")
	case errors.Is(err, editor.ErrInvalidID):
		respondError(w, http.StatusBadRequest, "invalid section id")
	case errors.Is(err, editor.ErrInvalidParent):
		respondError(w, http.StatusBadRequest, "parent block is not a container")
	case errors.Is(err, editor.ErrSectionNotFound):
		respondError(w, http.StatusNotFound, "section not found")
	case errors.Is(err, editor.ErrNotFound):
		respondError(w, http.StatusNotFound, "block not found")
	case errors.Is(err, editor.ErrConflict):
		respondError(w, http.StatusConflict, "the block was modified concurrently; reload and retry")
	case errors.Is(err, editor.ErrInvalidSettings):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("block mutation failed",
			"method", r.Method,
			"section_id", chi.URLParam(r, "sectionId"),
			"block_id", chi.URLParam(r, "blockId"),
			"error", err,
		)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
	}
}

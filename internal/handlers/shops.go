package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/slug"
	"storefront/internal/store"
)

// Shops groups shop provisioning and management handlers.
type Shops struct {
	shopStore *store.ShopStore
}

// NewShops creates a new Shops handler group.
func NewShops(shopStore *store.ShopStore) *Shops {
	return &Shops{shopStore: shopStore}
}

// resolveOwnedShop loads the shop named in the {subdomain} URL parameter
// and verifies the session user owns it (admins pass). On failure it writes
// the error response and returns nil. Shared by every shop-scoped handler
// group.
func resolveOwnedShop(shopStore *store.ShopStore, w http.ResponseWriter, r *http.Request) *models.Shop {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return nil
	}

	subdomain := chi.URLParam(r, "subdomain")
	shop, err := shopStore.FindBySubdomain(subdomain)
	if err != nil {
		slog.Error("find shop failed", "subdomain", subdomain, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return nil
	}
	if shop == nil {
		respondError(w, http.StatusNotFound, "shop not found")
		return nil
	}
	if shop.OwnerID != sess.UserID && sess.Role != string(models.RoleAdmin) {
		respondError(w, http.StatusForbidden, "you do not own this shop")
		return nil
	}
	return shop
}

// AdminList returns every shop on the platform. Admin-only.
func (h *Shops) AdminList(w http.ResponseWriter, r *http.Request) {
	shops, err := h.shopStore.ListAll()
	if err != nil {
		slog.Error("list all shops failed", "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if shops == nil {
		shops = []models.Shop{}
	}
	respondJSON(w, http.StatusOK, shops)
}

// AdminSetStatus activates or suspends a shop. Admin-only; a suspended
// shop's public storefront stops serving.
func (h *Shops) AdminSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "shopId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid shop id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := models.ShopStatus(req.Status)
	if status != models.ShopStatusActive && status != models.ShopStatusSuspended {
		respondError(w, http.StatusBadRequest, "status must be active or suspended")
		return
	}

	shop, err := h.shopStore.FindByID(id)
	if err != nil {
		slog.Error("find shop failed", "shop_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if shop == nil {
		respondError(w, http.StatusNotFound, "shop not found")
		return
	}

	if err := h.shopStore.SetStatus(shop.ID, status); err != nil {
		slog.Error("set shop status failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	slog.Info("shop status changed", "shop_id", shop.ID, "status", status)
	respondSuccess(w)
}

// List returns the session user's shops.
func (h *Shops) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	shops, err := h.shopStore.ListByOwner(sess.UserID)
	if err != nil {
		slog.Error("list shops failed", "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if shops == nil {
		shops = []models.Shop{}
	}
	respondJSON(w, http.StatusOK, shops)
}

// Create provisions a new shop under a normalized subdomain.
func (h *Shops) Create(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req struct {
		Subdomain string `json:"subdomain"`
		Name      string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	subdomain := slug.Generate(req.Subdomain)
	if msg := validateSubdomain(subdomain); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}
	if msg := validateShopName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.shopStore.FindBySubdomain(subdomain)
	if err != nil {
		slog.Error("subdomain check failed", "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "subdomain is already taken")
		return
	}

	shop, err := h.shopStore.Create(sess.UserID, subdomain, strings.TrimSpace(req.Name))
	if err != nil {
		slog.Error("create shop failed", "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	slog.Info("shop created", "shop_id", shop.ID, "subdomain", shop.Subdomain, "owner_id", sess.UserID)
	respondJSON(w, http.StatusCreated, shop)
}

// Get returns one of the user's shops by subdomain.
func (h *Shops) Get(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	respondJSON(w, http.StatusOK, shop)
}

// Update renames a shop.
func (h *Shops) Update(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if msg := validateShopName(req.Name); msg != "" {
		respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := h.shopStore.UpdateName(shop.ID, strings.TrimSpace(req.Name)); err != nil {
		slog.Error("rename shop failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondSuccess(w)
}

// Delete removes a shop and all of its theme data.
func (h *Shops) Delete(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	if err := h.shopStore.Delete(shop.ID); err != nil {
		slog.Error("delete shop failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	slog.Info("shop deleted", "shop_id", shop.ID, "subdomain", shop.Subdomain)
	respondSuccess(w)
}

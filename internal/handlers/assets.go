package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/storage"
	"storefront/internal/store"
)

// maxAssetSize is the maximum allowed theme asset upload size (20 MB).
const maxAssetSize = 20 << 20

// allowedAssetTypes defines MIME types accepted for theme assets.
var allowedAssetTypes = map[string]bool{
	"image/jpeg":    true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/x-icon":  true,
	"font/woff":     true,
	"font/woff2":    true,
	"text/css":      true,
}

// Assets groups theme asset upload and management handlers.
type Assets struct {
	shopStore     *store.ShopStore
	assetStore    *store.AssetStore
	storageClient *storage.Client
}

// NewAssets creates a new Assets handler group. storageClient may be nil
// when S3 is not configured; uploads then return 503.
func NewAssets(shopStore *store.ShopStore, assetStore *store.AssetStore, storageClient *storage.Client) *Assets {
	return &Assets{
		shopStore:     shopStore,
		assetStore:    assetStore,
		storageClient: storageClient,
	}
}

// Upload stores a multipart file in S3 and records its metadata.
func (h *Assets) Upload(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}
	if h.storageClient == nil {
		respondError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAssetSize+1024)
	if err := r.ParseMultipartForm(maxAssetSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "file too large; maximum size is 20 MB")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !allowedAssetTypes[contentType] {
		respondError(w, http.StatusUnsupportedMediaType, "unsupported asset type")
		return
	}

	key := fmt.Sprintf("shops/%s/%s%s", shop.ID, uuid.New(), filepath.Ext(header.Filename))
	bucket := h.storageClient.PublicBucket()

	if err := h.storageClient.Upload(r.Context(), bucket, key, contentType, file, header.Size); err != nil {
		slog.Error("asset upload failed", "shop_id", shop.ID, "key", key, "error", err)
		respondError(w, http.StatusInternalServerError, "upload failed")
		return
	}

	asset, err := h.assetStore.Create(&models.Asset{
		ShopID:      shop.ID,
		Filename:    header.Filename,
		ContentType: contentType,
		SizeBytes:   header.Size,
		S3Key:       key,
		PublicURL:   h.storageClient.FileURL(key),
		UploadedBy:  sess.UserID,
	})
	if err != nil {
		slog.Error("asset record failed", "shop_id", shop.ID, "key", key, "error", err)
		// Clean up the orphaned object; the row is the source of truth.
		if delErr := h.storageClient.Delete(r.Context(), bucket, key); delErr != nil {
			slog.Warn("orphan asset cleanup failed", "key", key, "error", delErr)
		}
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	slog.Info("asset uploaded", "shop_id", shop.ID, "asset_id", asset.ID, "size", asset.SizeBytes)
	respondJSON(w, http.StatusCreated, asset)
}

// List returns a shop's assets, newest first.
func (h *Assets) List(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	assets, err := h.assetStore.ListByShop(shop.ID)
	if err != nil {
		slog.Error("list assets failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	respondJSON(w, http.StatusOK, assets)
}

// Delete removes an asset from S3 and the database.
func (h *Assets) Delete(w http.ResponseWriter, r *http.Request) {
	shop := resolveOwnedShop(h.shopStore, w, r)
	if shop == nil {
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "assetId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid asset id")
		return
	}

	asset, err := h.assetStore.FindByID(id)
	if err != nil {
		slog.Error("find asset failed", "asset_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if asset == nil || asset.ShopID != shop.ID {
		respondError(w, http.StatusNotFound, "asset not found")
		return
	}

	if h.storageClient != nil {
		if err := h.storageClient.Delete(r.Context(), h.storageClient.PublicBucket(), asset.S3Key); err != nil {
			// Keep going; a dangling object is preferable to a dangling row.
			slog.Warn("asset object delete failed", "asset_id", asset.ID, "key", asset.S3Key, "error", err)
		}
	}

	if err := h.assetStore.Delete(asset.ID); err != nil {
		slog.Error("delete asset failed", "asset_id", asset.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	respondSuccess(w)
}

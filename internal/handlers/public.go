// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cache"
	"storefront/internal/models"
	"storefront/internal/store"
)

// Public serves the composed storefront pages consumed by the shopper-facing
// theme runtime. It checks the Valkey page cache before touching the
// database, and stores composed results on miss. Any editor mutation for
// the shop invalidates its entries.
type Public struct {
	shopStore     *store.ShopStore
	templateStore *store.TemplateStore
	sectionStore  *store.SectionStore
	blockStore    *store.SectionBlockStore
	pageCache     *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(shopStore *store.ShopStore, templateStore *store.TemplateStore, sectionStore *store.SectionStore, blockStore *store.SectionBlockStore, pageCache *cache.PageCache) *Public {
	return &Public{
		shopStore:     shopStore,
		templateStore: templateStore,
		sectionStore:  sectionStore,
		blockStore:    blockStore,
		pageCache:     pageCache,
	}
}

// pageView is the composed storefront page document.
type pageView struct {
	Shop     pageShopView  `json:"shop"`
	Template pageTmplView  `json:"template"`
	Sections []sectionView `json:"sections"`
}

type pageShopView struct {
	Subdomain string `json:"subdomain"`
	Name      string `json:"name"`
}

type pageTmplView struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Page returns the composed page JSON for a shop's default template of the
// requested type: every enabled section with its full block tree inlined.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subdomain := chi.URLParam(r, "subdomain")
	tmplType := models.TemplateType(chi.URLParam(r, "templateType"))

	if !models.ValidTemplateType(tmplType) {
		respondError(w, http.StatusNotFound, "unknown page type")
		return
	}

	shop, err := p.shopStore.FindBySubdomain(subdomain)
	if err != nil {
		slog.Error("find shop failed", "subdomain", subdomain, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if shop == nil || !shop.IsActive() {
		respondError(w, http.StatusNotFound, "shop not found")
		return
	}

	// Cache check before any further DB work.
	cacheKey := cache.PageKey(shop.ID, string(tmplType))
	if cached, ok := p.pageCache.Get(ctx, cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(cached)
		return
	}

	tmpl, err := p.templateStore.FindDefault(shop.ID, tmplType)
	if err != nil {
		slog.Error("find default template failed", "shop_id", shop.ID, "type", tmplType, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if tmpl == nil {
		respondError(w, http.StatusNotFound, "page not found")
		return
	}

	sections, err := p.sectionStore.ListByTemplate(tmpl.ID)
	if err != nil {
		slog.Error("list sections failed", "template_id", tmpl.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	page := pageView{
		Shop:     pageShopView{Subdomain: shop.Subdomain, Name: shop.Name},
		Template: pageTmplView{ID: tmpl.ID.String(), Name: tmpl.Name, Type: string(tmpl.Type)},
		Sections: []sectionView{},
	}

	for _, sec := range sections {
		if !sec.Enabled {
			continue
		}
		rows, err := p.blockStore.ListBySection(sec.ID)
		if err != nil {
			slog.Error("list section blocks failed", "section_id", sec.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
			return
		}
		views, err := composeBlockViews(rows)
		if err != nil {
			slog.Error("compose section blocks failed", "section_id", sec.ID, "error", err)
			respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
			return
		}
		page.Sections = append(page.Sections, sectionView{Section: sec, Blocks: views})
	}

	body, err := json.Marshal(page)
	if err != nil {
		slog.Error("marshal page failed", "shop_id", shop.ID, "error", err)
		respondError(w, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	p.pageCache.Set(ctx, cacheKey, body)

	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

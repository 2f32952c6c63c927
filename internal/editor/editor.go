// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package editor orchestrates block mutations for the theme editor. Every
// mutation takes the cheap direct path first (a top-level row with the
// target id), then falls back to the container path: walk each
// container-type row's nested tree depth-first, mutate the first match,
// and write that one row back under an optimistic version check.
package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"storefront/internal/blocks"
	"storefront/internal/cache"
	"storefront/internal/events"
	"storefront/internal/models"
	"storefront/internal/store"
	"storefront/internal/validation"
)

// Mutation failures surfaced to the HTTP layer.
var (
	// ErrNotFound means neither a direct row nor any nested node matches.
	ErrNotFound = errors.New("block not found")

	// ErrSectionNotFound means the section is absent or not owned by the caller.
	ErrSectionNotFound = errors.New("section not found")

	// ErrTemporarySection rejects mutations against unsaved client-side sections.
	ErrTemporarySection = errors.New("temporary section cannot be mutated")

	// ErrInvalidID rejects malformed section identifiers.
	ErrInvalidID = errors.New("invalid section id")

	// ErrConflict means the container row kept changing under us and the
	// bounded optimistic-lock retry gave up.
	ErrConflict = errors.New("container modified concurrently")

	// ErrInvalidParent means the requested parent exists but cannot hold children.
	ErrInvalidParent = errors.New("parent block is not a container")

	// ErrInvalidSettings wraps a settings schema violation.
	ErrInvalidSettings = errors.New("invalid block settings")
)

// maxWriteRetries bounds how many times a container read-modify-write is
// retried after losing a version race before giving up with ErrConflict.
const maxWriteRetries = 3

// BlockResult is the post-mutation snapshot returned to the API.
type BlockResult struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Settings map[string]any `json:"settings,omitempty"`
	Enabled  bool           `json:"enabled"`
	Position int            `json:"position"`
}

// NewBlock describes a block to be created.
type NewBlock struct {
	Type     string
	Settings map[string]any
	Enabled  bool
}

// mutateFunc is applied to one container's decoded tree. It returns
// (nil, nil, nil) when the target is not in this tree, or the mutated
// tree and the node the API should report back. The node may be nil when
// the mutation has nothing to report, as with a delete.
type mutateFunc func(tree []blocks.Block) ([]blocks.Block, *blocks.Block, error)

// Editor performs guarded block mutations. Events and pages may be nil;
// side effects then silently no-op.
type Editor struct {
	sections *store.SectionStore
	rows     *store.SectionBlockStore
	settings *validation.SettingsValidator
	events   *events.Publisher
	pages    *cache.PageCache
}

// New creates an Editor with the given collaborators.
func New(sections *store.SectionStore, rows *store.SectionBlockStore, settings *validation.SettingsValidator, publisher *events.Publisher, pages *cache.PageCache) *Editor {
	return &Editor{
		sections: sections,
		rows:     rows,
		settings: settings,
		events:   publisher,
		pages:    pages,
	}
}

// guardSection validates the section id and the ownership chain
// section → template → shop → owner. Every mutation passes through here
// before touching any block data.
func (e *Editor) guardSection(sectionID string, ownerID uuid.UUID) (*models.Section, error) {
	if models.IsTempSectionID(sectionID) {
		return nil, ErrTemporarySection
	}
	id, err := uuid.Parse(sectionID)
	if err != nil {
		return nil, ErrInvalidID
	}
	sec, err := e.sections.FindOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if sec == nil {
		return nil, ErrSectionNotFound
	}
	return sec, nil
}

// UpdateBlock applies a partial update to the block with the given id,
// wherever it lives in the section: a top-level row, or a node nested in
// some container row's tree. First match wins; the match order (direct
// row, then containers by position, pre-order within each) is stable
// across calls.
func (e *Editor) UpdateBlock(ctx context.Context, ownerID uuid.UUID, sectionID, blockID string, patch blocks.Patch) (*BlockResult, error) {
	sec, err := e.guardSection(sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	// Direct path: the id matches a top-level row.
	row, err := e.rows.FindByID(sec.ID, blockID)
	if err != nil {
		return nil, err
	}
	if row != nil {
		if patch.Settings != nil {
			if err := e.settings.ValidateSettingsMap(row.Type, patch.Settings); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
			}
		}

		// A container row's settings payload carries its nested tree; the
		// tree must survive a settings replacement.
		if patch.Settings != nil && blocks.IsContainerType(row.Type) {
			return e.updateContainerRow(ctx, sec, *row, patch)
		}

		var rawSettings json.RawMessage
		if patch.Settings != nil {
			rawSettings, err = json.Marshal(patch.Settings)
			if err != nil {
				return nil, fmt.Errorf("marshal settings: %w", err)
			}
		}

		updated, err := e.rows.UpdateFields(sec.ID, blockID, rawSettings, patch.Enabled, patch.Position)
		if err != nil {
			return nil, err
		}
		if updated == nil {
			return nil, ErrNotFound
		}

		e.afterMutation(ctx, events.EventBlockUpdated, sec, blockID)
		return rowResult(updated)
	}

	// Container path: search the nested trees.
	return e.mutateNested(ctx, sec, blockID, events.EventBlockUpdated, func(tree []blocks.Block) ([]blocks.Block, *blocks.Block, error) {
		target := blocks.FindByID(tree, blockID)
		if target == nil {
			return nil, nil, nil
		}
		if patch.Settings != nil {
			if err := e.settings.ValidateSettingsMap(target.Type, patch.Settings); err != nil {
				return nil, nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
			}
		}
		mutated, ok := blocks.Update(tree, blockID, patch)
		if !ok {
			return nil, nil, nil
		}
		return mutated, blocks.FindByID(mutated, blockID), nil
	})
}

// DeleteBlock removes the block with the given id. Top-level rows are
// deleted with a position shift of later siblings; nested nodes are
// spliced out of their parent's list with that level renumbered.
func (e *Editor) DeleteBlock(ctx context.Context, ownerID uuid.UUID, sectionID, blockID string) error {
	sec, err := e.guardSection(sectionID, ownerID)
	if err != nil {
		return err
	}

	// Direct path.
	deleted, err := e.rows.DeleteAndShift(sec.ID, blockID)
	if err != nil {
		return err
	}
	if deleted {
		e.afterMutation(ctx, events.EventBlockDeleted, sec, blockID)
		return nil
	}

	// Container path.
	_, err = e.mutateNested(ctx, sec, blockID, events.EventBlockDeleted, func(tree []blocks.Block) ([]blocks.Block, *blocks.Block, error) {
		mutated, ok := blocks.Remove(tree, blockID)
		if !ok {
			return nil, nil, nil
		}
		return mutated, nil, nil
	})
	return err
}

// updateContainerRow replaces a container row's own settings keys while
// carrying the existing nested tree forward unchanged. Because it rewrites
// the whole container payload, the settings write goes through the
// versioned update; enabled and position follow in a plain field update.
func (e *Editor) updateContainerRow(ctx context.Context, sec *models.Section, row models.SectionBlock, patch blocks.Patch) (*BlockResult, error) {
	raw, err := json.Marshal(patch.Settings)
	if err != nil {
		return nil, fmt.Errorf("marshal settings: %w", err)
	}
	rest := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &rest); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}
	// The tree is not writable through the settings payload.
	delete(rest, "blocks")

	for attempt := 0; ; attempt++ {
		tree, _, err := blocks.DecodeTree(row.Settings)
		if err != nil {
			return nil, fmt.Errorf("decode container %s settings: %w", row.ID, err)
		}
		encoded, err := blocks.EncodeTree(rest, tree)
		if err != nil {
			return nil, fmt.Errorf("encode container %s settings: %w", row.ID, err)
		}

		ok, err := e.rows.UpdateSettingsVersioned(row.ID, encoded, row.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if attempt == maxWriteRetries {
			return nil, ErrConflict
		}

		fresh, err := e.rows.FindByID(sec.ID, row.ID)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, ErrNotFound
		}
		row = *fresh

		slog.Debug("container version conflict, retrying",
			"section_id", sec.ID, "container_id", row.ID, "attempt", attempt+1)
	}

	updated, err := e.rows.UpdateFields(sec.ID, row.ID, nil, patch.Enabled, patch.Position)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	e.afterMutation(ctx, events.EventBlockUpdated, sec, row.ID)
	return rowResult(updated)
}

// CreateBlock adds a new block to the section: as a top-level row when
// parentID is empty, or appended to the children of the named container
// (top-level or nested). The block id is generated server-side and
// regenerated on collision with any id already present in the section's
// full tree.
func (e *Editor) CreateBlock(ctx context.Context, ownerID uuid.UUID, sectionID, parentID string, nb NewBlock) (*BlockResult, error) {
	sec, err := e.guardSection(sectionID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := e.settings.ValidateSettingsMap(nb.Type, nb.Settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	id, err := e.freshBlockID(sec.ID)
	if err != nil {
		return nil, err
	}

	if parentID == "" {
		var raw json.RawMessage
		if nb.Settings != nil {
			if raw, err = json.Marshal(nb.Settings); err != nil {
				return nil, fmt.Errorf("marshal settings: %w", err)
			}
		}
		created, err := e.rows.Create(&models.SectionBlock{
			ID:        id,
			SectionID: sec.ID,
			Type:      nb.Type,
			Settings:  raw,
			Enabled:   nb.Enabled,
		})
		if err != nil {
			return nil, err
		}
		e.afterMutation(ctx, events.EventBlockCreated, sec, id)
		return rowResult(created)
	}

	child := blocks.Block{
		ID:       id,
		Type:     nb.Type,
		Settings: nb.Settings,
		Enabled:  nb.Enabled,
	}

	// The parent may itself be a container row; the new child then goes
	// at the top level of that row's tree.
	parentRow, err := e.rows.FindByID(sec.ID, parentID)
	if err != nil {
		return nil, err
	}
	if parentRow != nil {
		if !blocks.IsContainerType(parentRow.Type) {
			return nil, ErrInvalidParent
		}
		res, err := e.applyToContainer(ctx, sec, *parentRow, id, events.EventBlockCreated, func(tree []blocks.Block) ([]blocks.Block, *blocks.Block, error) {
			mutated, _ := blocks.Insert(tree, "", child)
			return mutated, blocks.FindByID(mutated, id), nil
		})
		if errors.Is(err, errNoMatch) {
			return nil, ErrNotFound
		}
		return res, err
	}

	// Otherwise the parent is a node nested somewhere in a container tree.
	return e.mutateNested(ctx, sec, id, events.EventBlockCreated, func(tree []blocks.Block) ([]blocks.Block, *blocks.Block, error) {
		parent := blocks.FindByID(tree, parentID)
		if parent == nil {
			return nil, nil, nil
		}
		if !parent.IsContainer() {
			return nil, nil, ErrInvalidParent
		}
		mutated, ok := blocks.Insert(tree, parentID, child)
		if !ok {
			return nil, nil, nil
		}
		return mutated, blocks.FindByID(mutated, id), nil
	})
}

// mutateNested runs the container path: scan container rows in
// deterministic (position, id) order and apply the mutation to the first
// tree that contains the target. Exactly one container row is written per
// successful mutation.
func (e *Editor) mutateNested(ctx context.Context, sec *models.Section, eventBlockID, event string, mutate mutateFunc) (*BlockResult, error) {
	containers, err := e.rows.ListContainers(sec.ID, blocks.ContainerTypes())
	if err != nil {
		return nil, err
	}

	for _, container := range containers {
		result, err := e.applyToContainer(ctx, sec, container, eventBlockID, event, mutate)
		if errors.Is(err, errNoMatch) {
			continue
		}
		return result, err
	}

	return nil, ErrNotFound
}

// errNoMatch signals internally that a container's tree does not hold the
// target; the scan moves on to the next container.
var errNoMatch = errors.New("no match in container")

// applyToContainer runs the read-modify-write cycle for one container row
// under the optimistic version check, retrying a bounded number of times
// when a concurrent writer bumps the version first.
func (e *Editor) applyToContainer(ctx context.Context, sec *models.Section, row models.SectionBlock, eventBlockID, event string, mutate mutateFunc) (*BlockResult, error) {
	for attempt := 0; ; attempt++ {
		tree, rest, err := blocks.DecodeTree(row.Settings)
		if err != nil {
			return nil, fmt.Errorf("decode container %s settings: %w", row.ID, err)
		}

		mutated, node, err := mutate(tree)
		if err != nil {
			return nil, err
		}
		if mutated == nil {
			return nil, errNoMatch
		}

		encoded, err := blocks.EncodeTree(rest, mutated)
		if err != nil {
			return nil, fmt.Errorf("encode container %s settings: %w", row.ID, err)
		}

		ok, err := e.rows.UpdateSettingsVersioned(row.ID, encoded, row.Version)
		if err != nil {
			return nil, err
		}
		if ok {
			e.afterMutation(ctx, event, sec, eventBlockID)
			return nodeResult(node), nil
		}

		if attempt == maxWriteRetries {
			return nil, ErrConflict
		}

		// Lost the version race. Re-read and retry against the fresh
		// payload; the target may have moved or vanished meanwhile.
		fresh, err := e.rows.FindByID(sec.ID, row.ID)
		if err != nil {
			return nil, err
		}
		if fresh == nil {
			return nil, errNoMatch // Container deleted concurrently.
		}
		row = *fresh

		slog.Debug("container version conflict, retrying",
			"section_id", sec.ID, "container_id", row.ID, "attempt", attempt+1)
	}
}

// freshBlockID generates a block id guaranteed not to collide with any id
// in the section's entire tree (top-level rows plus every nested node).
func (e *Editor) freshBlockID(sectionID uuid.UUID) (string, error) {
	existing := map[string]bool{}

	topIDs, err := e.rows.TopLevelIDs(sectionID)
	if err != nil {
		return "", err
	}
	for _, id := range topIDs {
		existing[id] = true
	}

	containers, err := e.rows.ListContainers(sectionID, blocks.ContainerTypes())
	if err != nil {
		return "", err
	}
	for _, c := range containers {
		tree, _, err := blocks.DecodeTree(c.Settings)
		if err != nil {
			return "", fmt.Errorf("decode container %s settings: %w", c.ID, err)
		}
		for _, id := range blocks.CollectIDs(tree, nil) {
			existing[id] = true
		}
	}

	for {
		id := uuid.New().String()
		if !existing[id] {
			return id, nil
		}
	}
}

// afterMutation publishes the editor event and drops the shop's cached
// storefront pages. Both are best-effort.
func (e *Editor) afterMutation(ctx context.Context, event string, sec *models.Section, blockID string) {
	shopID, err := e.sections.ShopIDForSection(sec.ID)
	if err != nil {
		slog.Warn("resolve shop for section failed", "section_id", sec.ID, "error", err)
		return
	}
	e.events.Publish(ctx, event, shopID, sec.ID.String(), blockID)
	e.pages.InvalidateShop(ctx, shopID)
}

func rowResult(row *models.SectionBlock) (*BlockResult, error) {
	res := &BlockResult{
		ID:       row.ID,
		Type:     row.Type,
		Enabled:  row.Enabled,
		Position: row.Position,
	}
	if len(row.Settings) > 0 {
		if err := json.Unmarshal(row.Settings, &res.Settings); err != nil {
			return nil, fmt.Errorf("decode row settings: %w", err)
		}
		// The canonical tree key is transport detail, not a setting.
		delete(res.Settings, "blocks")
	}
	return res, nil
}

func nodeResult(node *blocks.Block) *BlockResult {
	if node == nil {
		return nil
	}
	return &BlockResult{
		ID:       node.ID,
		Type:     node.Type,
		Settings: node.Settings,
		Enabled:  node.Enabled,
		Position: node.Position,
	}
}

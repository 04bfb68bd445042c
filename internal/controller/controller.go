package controller

import (
	"context"
	"errors"
	"fmt"

	"tambohub/internal/composer"
	"tambohub/internal/geodata"
	"tambohub/internal/mapview"
	"tambohub/pkg/models"
)

// MappingService is the classification record store as the controller
// sees it, whether backed by HTTP (the CLI) or a repo (tests).
type MappingService interface {
	ListMappings(ctx context.Context) ([]models.Mapping, error)
	CreateMapping(ctx context.Context, req composer.CreateRequest) (*models.Mapping, error)
	DeleteMapping(ctx context.Context, fid int64) error
}

// HouseholdService resolves household detail. A lookup miss returns
// (nil, nil), not an error.
type HouseholdService interface {
	GetHousehold(ctx context.Context, id int64) (*models.Household, error)
}

var ErrUnknownFeature = errors.New("unknown feature")

type ActionKind int

const (
	// ActionOpenComposer: the feature is unclassified, open the form.
	ActionOpenComposer ActionKind = iota
	// ActionShowHousehold: the mapping links a household and its
	// detail loaded; show it.
	ActionShowHousehold
	// ActionConfirmDelete: the feature is classified; ask before
	// removing the mapping.
	ActionConfirmDelete
)

// Click is the outcome of a pointer click on a building.
type Click struct {
	Kind      ActionKind
	Feature   geodata.Feature
	Mapping   *models.Mapping
	Household *models.Household
	Label     string
}

// Hover is the transient tooltip + recoloring for a building; it never
// touches persisted state.
type Hover struct {
	Tooltip []string
	Style   mapview.Style
}

// Controller routes map interactions: clicks open the composer for
// unclassified buildings and the household/delete flow for classified
// ones, and every successful mutation marks the record cache stale.
type Controller struct {
	store      *geodata.Store
	mappings   MappingService
	households HouseholdService
	cache      *mapview.Cache
}

func New(store *geodata.Store, mappings MappingService, households HouseholdService) *Controller {
	return &Controller{
		store:      store,
		mappings:   mappings,
		households: households,
		cache:      mapview.NewCache(mapview.ListerFunc(mappings.ListMappings)),
	}
}

// Records exposes the cached classification collection for view
// rendering.
func (c *Controller) Records(ctx context.Context) ([]models.Mapping, error) {
	return c.cache.Records(ctx)
}

// Click decides what a click on the given building does. A classified
// building with a linked household opens the household detail; when
// the lookup misses or fails it silently falls back to the delete
// confirmation, the same way the map always behaved.
func (c *Controller) Click(ctx context.Context, fid geodata.FID) (Click, error) {
	feature, ok := c.store.Building(fid)
	if !ok {
		return Click{}, fmt.Errorf("%w: %d", ErrUnknownFeature, fid)
	}

	records, err := c.cache.Records(ctx)
	if err != nil {
		return Click{}, err
	}

	j := mapview.Resolve(feature, records)
	if j.Mapping == nil {
		return Click{Kind: ActionOpenComposer, Feature: feature}, nil
	}

	if j.Mapping.HouseholdID != nil {
		h, err := c.households.GetHousehold(ctx, *j.Mapping.HouseholdID)
		if err == nil && h != nil {
			return Click{
				Kind:      ActionShowHousehold,
				Feature:   feature,
				Mapping:   j.Mapping,
				Household: h,
				Label:     j.Label,
			}, nil
		}
	}

	return Click{
		Kind:    ActionConfirmDelete,
		Feature: feature,
		Mapping: j.Mapping,
		Label:   j.Label,
	}, nil
}

// Delete removes the mapping for a feature after the user confirmed.
// Exactly one delete request goes out; the cache is invalidated only
// on success, so a failed delete leaves the rendered map unchanged.
func (c *Controller) Delete(ctx context.Context, fid int64) error {
	if err := c.mappings.DeleteMapping(ctx, fid); err != nil {
		return err
	}
	c.cache.Invalidate()
	return nil
}

// Submit runs the composer guard, sends the single create request and,
// on success, invalidates the cache and resets the draft. On failure
// the draft is left intact so the form can stay open.
func (c *Controller) Submit(ctx context.Context, d *composer.Draft, fid int64) (*models.Mapping, error) {
	req, err := d.Build(fid)
	if err != nil {
		return nil, err
	}

	created, err := c.mappings.CreateMapping(ctx, req)
	if err != nil {
		return nil, err
	}

	c.cache.Invalidate()
	d.Reset()
	return created, nil
}

// Hover computes the tooltip and hover recoloring for a building.
func (c *Controller) Hover(ctx context.Context, fid geodata.FID) (Hover, error) {
	feature, ok := c.store.Building(fid)
	if !ok {
		return Hover{}, fmt.Errorf("%w: %d", ErrUnknownFeature, fid)
	}

	records, err := c.cache.Records(ctx)
	if err != nil {
		return Hover{}, err
	}

	j := mapview.Resolve(feature, records)
	return Hover{
		Tooltip: j.Tooltip(),
		Style:   mapview.HoverStyle(j.Token),
	}, nil
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/pricing"
)

const (
	homeCacheKey   = "home"
	combosCacheKey = "combos"
	itemCacheKey   = "item:"
)

// ErrItemNotFound is returned when an item id does not resolve.
var ErrItemNotFound = errors.New("catalog: item not found")

// ErrCategoryNotFound is returned when a category id does not resolve.
var ErrCategoryNotFound = errors.New("catalog: category not found")

// Querier lists the catalog queries.
type Querier interface {
	ListActiveCategories(ctx context.Context) ([]dbgen.Category, error)
	ListCategories(ctx context.Context) ([]dbgen.Category, error)
	ListCatalogItems(ctx context.Context) ([]dbgen.ListCatalogItemsRow, error)
	ListComboComponents(ctx context.Context, comboIds []pgtype.UUID) ([]dbgen.ListComboComponentsRow, error)
	GetItemWithCategory(ctx context.Context, id pgtype.UUID) (dbgen.GetItemWithCategoryRow, error)
	GetCategoryByID(ctx context.Context, id pgtype.UUID) (dbgen.Category, error)
	CreateCategory(ctx context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error)
	UpdateCategory(ctx context.Context, arg dbgen.UpdateCategoryParams) (dbgen.Category, error)
	CreateItem(ctx context.Context, arg dbgen.CreateItemParams) (dbgen.Item, error)
	UpdateItem(ctx context.Context, arg dbgen.UpdateItemParams) (dbgen.Item, error)
	SetItemAvailability(ctx context.Context, arg dbgen.SetItemAvailabilityParams) (dbgen.Item, error)
	AddComboComponent(ctx context.Context, arg dbgen.AddComboComponentParams) (dbgen.ComboComponent, error)
	DeleteComboComponents(ctx context.Context, comboID pgtype.UUID) error
}

// Service assembles menu payloads and caches them in Redis.
type Service struct {
	queries Querier
	pool    db.TxBeginner
	cache   *MenuCache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries Querier
	Pool    db.TxBeginner
	Cache   *MenuCache
}

// Category is the public category payload.
type Category struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Image     *string `json:"image"`
	GSTRate   string  `json:"gst_rate"`
	SortOrder int32   `json:"sort_order"`
	IsActive  bool    `json:"is_active"`
}

// ComboPart is one component of a combo.
type ComboPart struct {
	ItemID   string `json:"item_id"`
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
	Price    string `json:"price"`
}

// Item is the public item payload. Combo prices are the sum of their components.
type Item struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Price        string      `json:"price"`
	GSTRate      string      `json:"gst_rate"`
	CategoryID   string      `json:"category_id"`
	CategoryName string      `json:"category_name"`
	IsCombo      bool        `json:"is_combo"`
	IsVeg        bool        `json:"is_veg"`
	IsFeatured   bool        `json:"is_featured"`
	IsAvailable  bool        `json:"is_available"`
	Image        *string     `json:"image"`
	ComboItems   []ComboPart `json:"combo_items"`
}

// Home is the landing page payload.
type Home struct {
	Categories []Category `json:"categories"`
	Featured   []Item     `json:"featured"`
	Items      []Item     `json:"items"`
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, pool: cfg.Pool, cache: cfg.Cache}, nil
}

// Home returns active categories and available items, grouped by category order.
func (s *Service) Home(ctx context.Context) (Home, error) {
	var cached Home
	if s.cache.Load(ctx, homeCacheKey, &cached) {
		return cached, nil
	}
	cats, err := s.queries.ListActiveCategories(ctx)
	if err != nil {
		return Home{}, fmt.Errorf("list categories: %w", err)
	}
	items, err := s.items(ctx, func(row dbgen.ListCatalogItemsRow) bool { return row.IsAvailable })
	if err != nil {
		return Home{}, err
	}
	home := Home{
		Categories: make([]Category, 0, len(cats)),
		Featured:   []Item{},
		Items:      items,
	}
	for _, c := range cats {
		home.Categories = append(home.Categories, toCategory(c))
	}
	for _, it := range items {
		if it.IsFeatured {
			home.Featured = append(home.Featured, it)
		}
	}
	s.cache.Store(ctx, homeCacheKey, home)
	return home, nil
}

// Combos returns available combo items with their components.
func (s *Service) Combos(ctx context.Context) ([]Item, error) {
	var cached []Item
	if s.cache.Load(ctx, combosCacheKey, &cached) {
		return cached, nil
	}
	combos, err := s.items(ctx, func(row dbgen.ListCatalogItemsRow) bool { return row.IsAvailable && row.IsCombo })
	if err != nil {
		return nil, err
	}
	s.cache.Store(ctx, combosCacheKey, combos)
	return combos, nil
}

// AdminItems lists every item in active categories including unavailable ones.
func (s *Service) AdminItems(ctx context.Context) ([]Item, error) {
	return s.items(ctx, func(dbgen.ListCatalogItemsRow) bool { return true })
}

// AdminCategories lists all categories.
func (s *Service) AdminCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]Category, 0, len(rows))
	for _, c := range rows {
		out = append(out, toCategory(c))
	}
	return out, nil
}

// Item returns a single item by id.
func (s *Service) Item(ctx context.Context, id string) (Item, error) {
	itemID, err := common.ParseUUID(id)
	if err != nil {
		return Item{}, ErrItemNotFound
	}
	key := itemCacheKey + common.UUIDString(itemID)
	var cached Item
	if s.cache.Load(ctx, key, &cached) {
		return cached, nil
	}
	row, err := s.queries.GetItemWithCategory(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("get item: %w", err)
	}
	parts, err := s.components(ctx, []pgtype.UUID{row.ID})
	if err != nil {
		return Item{}, err
	}
	out := toItem(dbgen.ListCatalogItemsRow(row), parts[common.UUIDString(row.ID)])
	s.cache.Store(ctx, key, out)
	return out, nil
}

func (s *Service) items(ctx context.Context, keep func(dbgen.ListCatalogItemsRow) bool) ([]Item, error) {
	rows, err := s.queries.ListCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	var comboIDs []pgtype.UUID
	kept := rows[:0:0]
	for _, row := range rows {
		if !keep(row) {
			continue
		}
		kept = append(kept, row)
		if row.IsCombo {
			comboIDs = append(comboIDs, row.ID)
		}
	}
	parts, err := s.components(ctx, comboIDs)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(kept))
	for _, row := range kept {
		out = append(out, toItem(row, parts[common.UUIDString(row.ID)]))
	}
	return out, nil
}

func (s *Service) components(ctx context.Context, ids []pgtype.UUID) (map[string][]dbgen.ListComboComponentsRow, error) {
	out := make(map[string][]dbgen.ListComboComponentsRow)
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.queries.ListComboComponents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list combo components: %w", err)
	}
	for _, row := range rows {
		key := common.UUIDString(row.ComboID)
		out[key] = append(out[key], row)
	}
	return out, nil
}

// Invalidate drops every cached menu payload.
func (s *Service) Invalidate(ctx context.Context) {
	s.cache.Bump(ctx)
}

func toCategory(c dbgen.Category) Category {
	return Category{
		ID:        common.UUIDString(c.ID),
		Name:      c.Name,
		Image:     textPtr(c.ImageUrl),
		GSTRate:   c.GstRate.StringFixed(2),
		SortOrder: c.SortOrder,
		IsActive:  c.IsActive,
	}
}

func toItem(row dbgen.ListCatalogItemsRow, parts []dbgen.ListComboComponentsRow) Item {
	comps := make([]pricing.Component, 0, len(parts))
	combo := make([]ComboPart, 0, len(parts))
	for _, p := range parts {
		comps = append(comps, pricing.Component{Price: p.ItemPrice, Quantity: p.Quantity})
		combo = append(combo, ComboPart{
			ItemID:   common.UUIDString(p.ItemID),
			Name:     p.ItemName,
			Quantity: p.Quantity,
			Price:    p.ItemPrice.StringFixed(2),
		})
	}
	if !row.IsCombo {
		combo = []ComboPart{}
	}
	return Item{
		ID:           common.UUIDString(row.ID),
		Name:         row.Name,
		Description:  row.Description.String,
		Price:        pricing.EffectivePrice(row.Price, row.IsCombo, comps).StringFixed(2),
		GSTRate:      pricing.EffectiveGST(row.GstRate, row.CategoryGstRate).StringFixed(2),
		CategoryID:   common.UUIDString(row.CategoryID),
		CategoryName: row.CategoryName,
		IsCombo:      row.IsCombo,
		IsVeg:        row.IsVeg,
		IsFeatured:   row.IsFeatured,
		IsAvailable:  row.IsAvailable,
		Image:        textPtr(row.ImageUrl),
		ComboItems:   combo,
	}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	v := t.String
	return &v
}

// AsAppError maps catalog errors onto API errors.
func AsAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case common.IsAppError(err):
		return err
	case errors.Is(err, ErrItemNotFound):
		return common.NewAppError("ITEM_NOT_FOUND", "Item not found", http.StatusNotFound, err)
	case errors.Is(err, ErrCategoryNotFound):
		return common.NewAppError("CATEGORY_NOT_FOUND", "Category not found", http.StatusNotFound, err)
	case db.IsCheckViolation(err):
		return common.NewAppError(common.CodeValidation, "invalid catalog values", http.StatusBadRequest, err)
	}
	return err
}

func nullDecimal(s *string) (decimal.NullDecimal, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

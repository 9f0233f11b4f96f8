package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	"github.com/noah-isme/backend-food/internal/db"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

// CategoryInput is the admin payload for categories.
type CategoryInput struct {
	Name      string  `json:"name" validate:"required,max=100"`
	GSTRate   string  `json:"gst_rate" validate:"required,numeric"`
	SortOrder int32   `json:"sort_order" validate:"gte=0"`
	IsActive  *bool   `json:"is_active"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
}

// ItemInput is the admin payload for items.
type ItemInput struct {
	CategoryID  string  `json:"category_id" validate:"required,uuid"`
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description"`
	Price       string  `json:"price" validate:"required,numeric"`
	GSTRate     *string `json:"gst_rate" validate:"omitempty,numeric"`
	IsAvailable *bool   `json:"is_available"`
	IsVeg       bool    `json:"is_veg"`
	IsCombo     bool    `json:"is_combo"`
	IsFeatured  bool    `json:"is_featured"`
	ImageURL    *string `json:"image_url" validate:"omitempty,url"`
}

// ComponentInput is one entry of a combo definition.
type ComponentInput struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int32  `json:"quantity" validate:"required,gte=1"`
}

// CreateCategory inserts a category.
func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	rate, err := decimal.NewFromString(in.GSTRate)
	if err != nil {
		return Category{}, invalidField("gst_rate")
	}
	row, err := s.queries.CreateCategory(ctx, dbgen.CreateCategoryParams{
		Name:      in.Name,
		GstRate:   rate,
		SortOrder: in.SortOrder,
		ImageUrl:  common.TextPtr(in.ImageURL),
	})
	if err != nil {
		return Category{}, fmt.Errorf("create category: %w", err)
	}
	s.Invalidate(ctx)
	return toCategory(row), nil
}

// UpdateCategory replaces a category's attributes.
func (s *Service) UpdateCategory(ctx context.Context, id string, in CategoryInput) (Category, error) {
	catID, err := common.ParseUUID(id)
	if err != nil {
		return Category{}, ErrCategoryNotFound
	}
	rate, err := decimal.NewFromString(in.GSTRate)
	if err != nil {
		return Category{}, invalidField("gst_rate")
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	row, err := s.queries.UpdateCategory(ctx, dbgen.UpdateCategoryParams{
		ID:        catID,
		Name:      in.Name,
		GstRate:   rate,
		SortOrder: in.SortOrder,
		IsActive:  active,
		ImageUrl:  common.TextPtr(in.ImageURL),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, ErrCategoryNotFound
		}
		return Category{}, fmt.Errorf("update category: %w", err)
	}
	s.Invalidate(ctx)
	return toCategory(row), nil
}

// CreateItem inserts an item.
func (s *Service) CreateItem(ctx context.Context, in ItemInput) (Item, error) {
	params, err := s.itemParams(ctx, in)
	if err != nil {
		return Item{}, err
	}
	row, err := s.queries.CreateItem(ctx, params)
	if err != nil {
		return Item{}, fmt.Errorf("create item: %w", err)
	}
	s.Invalidate(ctx)
	return s.Item(ctx, common.UUIDString(row.ID))
}

// UpdateItem replaces an item's attributes.
func (s *Service) UpdateItem(ctx context.Context, id string, in ItemInput) (Item, error) {
	itemID, err := common.ParseUUID(id)
	if err != nil {
		return Item{}, ErrItemNotFound
	}
	p, err := s.itemParams(ctx, in)
	if err != nil {
		return Item{}, err
	}
	if _, err := s.queries.UpdateItem(ctx, dbgen.UpdateItemParams{
		ID:          itemID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		GstRate:     p.GstRate,
		IsAvailable: p.IsAvailable,
		IsVeg:       p.IsVeg,
		IsCombo:     p.IsCombo,
		IsFeatured:  p.IsFeatured,
		ImageUrl:    p.ImageUrl,
	}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("update item: %w", err)
	}
	s.Invalidate(ctx)
	return s.Item(ctx, id)
}

// SetAvailability toggles whether an item can be ordered.
func (s *Service) SetAvailability(ctx context.Context, id string, available bool) (Item, error) {
	itemID, err := common.ParseUUID(id)
	if err != nil {
		return Item{}, ErrItemNotFound
	}
	if _, err := s.queries.SetItemAvailability(ctx, dbgen.SetItemAvailabilityParams{ID: itemID, IsAvailable: available}); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("set availability: %w", err)
	}
	s.Invalidate(ctx)
	return s.Item(ctx, id)
}

// SetComboComponents replaces the component list of a combo item.
func (s *Service) SetComboComponents(ctx context.Context, id string, parts []ComponentInput) (Item, error) {
	comboID, err := common.ParseUUID(id)
	if err != nil {
		return Item{}, ErrItemNotFound
	}
	combo, err := s.queries.GetItemWithCategory(ctx, comboID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Item{}, ErrItemNotFound
		}
		return Item{}, fmt.Errorf("get combo: %w", err)
	}
	if !combo.IsCombo {
		return Item{}, invalidField("item_id")
	}
	apply := func(q Querier) error {
		if err := q.DeleteComboComponents(ctx, comboID); err != nil {
			return fmt.Errorf("clear components: %w", err)
		}
		for _, p := range parts {
			itemID, err := common.ParseUUID(p.ItemID)
			if err != nil || common.UUIDEqual(itemID, comboID) {
				return invalidField("components")
			}
			if _, err := q.AddComboComponent(ctx, dbgen.AddComboComponentParams{
				ComboID:  comboID,
				ItemID:   itemID,
				Quantity: p.Quantity,
			}); err != nil {
				return fmt.Errorf("add component: %w", err)
			}
		}
		return nil
	}
	if s.pool != nil {
		err = db.InTx(ctx, s.pool, func(q *dbgen.Queries) error { return apply(q) })
	} else {
		err = apply(s.queries)
	}
	if err != nil {
		return Item{}, err
	}
	s.Invalidate(ctx)
	return s.Item(ctx, id)
}

func (s *Service) itemParams(ctx context.Context, in ItemInput) (dbgen.CreateItemParams, error) {
	catID, err := common.ParseUUID(in.CategoryID)
	if err != nil {
		return dbgen.CreateItemParams{}, invalidField("category_id")
	}
	if _, err := s.queries.GetCategoryByID(ctx, catID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CreateItemParams{}, ErrCategoryNotFound
		}
		return dbgen.CreateItemParams{}, fmt.Errorf("get category: %w", err)
	}
	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return dbgen.CreateItemParams{}, invalidField("price")
	}
	gst, err := nullDecimal(in.GSTRate)
	if err != nil {
		return dbgen.CreateItemParams{}, invalidField("gst_rate")
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return dbgen.CreateItemParams{
		CategoryID:  catID,
		Name:        in.Name,
		Description: common.TextPtr(in.Description),
		Price:       price,
		GstRate:     gst,
		IsAvailable: available,
		IsVeg:       in.IsVeg,
		IsCombo:     in.IsCombo,
		IsFeatured:  in.IsFeatured,
		ImageUrl:    common.TextPtr(in.ImageURL),
	}, nil
}

func invalidField(field string) error {
	appErr := common.NewAppError(common.CodeValidation, "invalid payload", http.StatusBadRequest, nil)
	appErr.Details = map[string]string{field: "invalid"}
	return appErr
}

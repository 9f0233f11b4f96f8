package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-food/internal/common"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
	"github.com/noah-isme/backend-food/internal/pricing"
)

var (
	// ErrItemNotFound indicates the catalog item does not exist.
	ErrItemNotFound = errors.New("cart: item not found")
	// ErrItemUnavailable indicates the catalog item is switched off.
	ErrItemUnavailable = errors.New("cart: item unavailable")
	// ErrLineNotFound indicates the cart line does not belong to the caller.
	ErrLineNotFound = errors.New("cart: line not found")
)

// Querier is the subset of generated queries the cart needs.
type Querier interface {
	EnsureCart(ctx context.Context, userID pgtype.UUID) (dbgen.Cart, error)
	ListCartLines(ctx context.Context, userID pgtype.UUID) ([]dbgen.ListCartLinesRow, error)
	ListComboComponents(ctx context.Context, comboIds []pgtype.UUID) ([]dbgen.ListComboComponentsRow, error)
	GetItemWithCategory(ctx context.Context, id pgtype.UUID) (dbgen.GetItemWithCategoryRow, error)
	AddCartItem(ctx context.Context, arg dbgen.AddCartItemParams) (dbgen.CartItem, error)
	UpdateCartItemQuantity(ctx context.Context, arg dbgen.UpdateCartItemQuantityParams) (int64, error)
	DeleteCartItem(ctx context.Context, arg dbgen.DeleteCartItemParams) (int64, error)
}

// ComboPart is one component of a combo line.
type ComboPart struct {
	ItemID   string
	Name     string
	Quantity int32
	Price    decimal.Decimal
}

// Line is a cart line with its pricing input and display metadata.
type Line struct {
	pricing.Line
	ID         string
	CategoryID string
	IsCombo    bool
	Available  bool
	ImageURL   string
	Components []ComboPart
}

// View is the cart with a preview of its charges. Delivery and coupons are priced at checkout.
type View struct {
	Lines       []Line
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	PlatformFee decimal.Decimal
	Total       decimal.Decimal
	ItemCount   int32
}

// Service manages the caller's cart.
type Service struct {
	Q           Querier
	PlatformFee decimal.Decimal
}

// Lines loads the caller's cart with combo prices resolved from their components.
func (s *Service) Lines(ctx context.Context, userID string) ([]Line, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return nil, fmt.Errorf("cart: %w", err)
	}
	rows, err := s.Q.ListCartLines(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("list cart lines: %w", err)
	}
	parts, err := s.components(ctx, rows)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		itemID := common.UUIDString(row.ItemID)
		comps := parts[itemID]
		priced := make([]pricing.Component, 0, len(comps))
		for _, c := range comps {
			priced = append(priced, pricing.Component{Price: c.Price, Quantity: c.Quantity})
		}
		lines = append(lines, Line{
			Line: pricing.Line{
				ItemID:    itemID,
				Name:      row.ItemName,
				Quantity:  row.Quantity,
				UnitPrice: pricing.EffectivePrice(row.Price, row.IsCombo, priced),
				GSTRate:   pricing.EffectiveGST(row.ItemGstRate, row.CategoryGstRate),
			},
			ID:         common.UUIDString(row.ID),
			CategoryID: common.UUIDString(row.CategoryID),
			IsCombo:    row.IsCombo,
			Available:  row.IsAvailable,
			ImageURL:   row.ImageUrl.String,
			Components: comps,
		})
	}
	return lines, nil
}

func (s *Service) components(ctx context.Context, rows []dbgen.ListCartLinesRow) (map[string][]ComboPart, error) {
	var ids []pgtype.UUID
	for _, row := range rows {
		if row.IsCombo {
			ids = append(ids, row.ItemID)
		}
	}
	out := make(map[string][]ComboPart, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	comps, err := s.Q.ListComboComponents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list combo components: %w", err)
	}
	for _, c := range comps {
		key := common.UUIDString(c.ComboID)
		out[key] = append(out[key], ComboPart{
			ItemID:   common.UUIDString(c.ItemID),
			Name:     c.ItemName,
			Quantity: c.Quantity,
			Price:    c.ItemPrice,
		})
	}
	return out, nil
}

// PricingLines strips cart metadata for the composer.
func PricingLines(lines []Line) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, l.Line)
	}
	return out
}

// Subtotal sums effective price × quantity over lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// View returns the cart with subtotal, tax, platform fee and total. An empty cart has no
// platform fee.
func (s *Service) View(ctx context.Context, userID string) (View, error) {
	lines, err := s.Lines(ctx, userID)
	if err != nil {
		return View{}, err
	}
	v := View{Lines: lines, Subtotal: decimal.Zero, Tax: decimal.Zero, PlatformFee: decimal.Zero}
	for _, l := range lines {
		sub := l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
		v.Subtotal = v.Subtotal.Add(sub)
		v.Tax = v.Tax.Add(pricing.Tax(sub, l.GSTRate))
		v.ItemCount += l.Quantity
	}
	if len(lines) > 0 {
		v.PlatformFee = s.PlatformFee
	}
	v.Total = v.Subtotal.Add(v.Tax).Add(v.PlatformFee)
	return v, nil
}

// AddItem puts quantity units of an item in the cart, incrementing an existing line.
func (s *Service) AddItem(ctx context.Context, userID, itemID string, quantity int32) (dbgen.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("cart: %w", err)
	}
	iid, err := common.ParseUUID(itemID)
	if err != nil {
		return dbgen.CartItem{}, ErrItemNotFound
	}
	item, err := s.Q.GetItemWithCategory(ctx, iid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.CartItem{}, ErrItemNotFound
		}
		return dbgen.CartItem{}, fmt.Errorf("load item: %w", err)
	}
	if !item.IsAvailable {
		return dbgen.CartItem{}, ErrItemUnavailable
	}
	c, err := s.Q.EnsureCart(ctx, uid)
	if err != nil {
		return dbgen.CartItem{}, fmt.Errorf("ensure cart: %w", err)
	}
	return s.Q.AddCartItem(ctx, dbgen.AddCartItemParams{CartID: c.ID, ItemID: iid, Quantity: quantity})
}

// UpdateQuantity sets a line's quantity. Zero or less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, userID, lineID string, quantity int32) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, userID, lineID)
	}
	uid, lid, err := parseLine(userID, lineID)
	if err != nil {
		return err
	}
	n, err := s.Q.UpdateCartItemQuantity(ctx, dbgen.UpdateCartItemQuantityParams{UserID: uid, ID: lid, Quantity: quantity})
	if err != nil {
		return fmt.Errorf("update cart line: %w", err)
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}

// RemoveItem deletes a line from the caller's cart.
func (s *Service) RemoveItem(ctx context.Context, userID, lineID string) error {
	uid, lid, err := parseLine(userID, lineID)
	if err != nil {
		return err
	}
	n, err := s.Q.DeleteCartItem(ctx, dbgen.DeleteCartItemParams{UserID: uid, ID: lid})
	if err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}
	if n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func parseLine(userID, lineID string) (pgtype.UUID, pgtype.UUID, error) {
	uid, err := common.ParseUUID(userID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, fmt.Errorf("cart: %w", err)
	}
	lid, err := common.ParseUUID(lineID)
	if err != nil {
		return pgtype.UUID{}, pgtype.UUID{}, ErrLineNotFound
	}
	return uid, lid, nil
}

// AsAppError maps cart errors onto API errors.
func AsAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrItemNotFound):
		return common.NewAppError("ITEM_NOT_FOUND", "Item not found", http.StatusNotFound, err)
	case errors.Is(err, ErrItemUnavailable):
		return common.NewAppError("ITEM_UNAVAILABLE", "Item is currently unavailable", http.StatusConflict, err)
	case errors.Is(err, ErrLineNotFound):
		return common.NewAppError("CART_ITEM_NOT_FOUND", "Cart item not found", http.StatusNotFound, err)
	}
	return err
}

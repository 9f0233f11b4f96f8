package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-food/internal/catalog"
	dbgen "github.com/noah-isme/backend-food/internal/db/gen"
)

type fakeCatalogQueries struct {
	categories []dbgen.Category
	items      []dbgen.ListCatalogItemsRow
	components []dbgen.ComboComponent
	listCalls  int
}

func pgID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func idString(id pgtype.UUID) string {
	return uuid.UUID(id.Bytes).String()
}

func newFakeCatalogQueries() (*fakeCatalogQueries, map[string]pgtype.UUID) {
	ids := map[string]pgtype.UUID{
		"mains":  pgID(),
		"drinks": pgID(),
		"dosa":   pgID(),
		"coffee": pgID(),
		"combo":  pgID(),
		"juice":  pgID(),
	}
	f := &fakeCatalogQueries{
		categories: []dbgen.Category{
			{ID: ids["mains"], Name: "Mains", GstRate: decimal.NewFromInt(5), SortOrder: 1, IsActive: true},
			{ID: ids["drinks"], Name: "Drinks", GstRate: decimal.NewFromInt(12), SortOrder: 2, IsActive: true},
		},
		items: []dbgen.ListCatalogItemsRow{
			{ID: ids["dosa"], CategoryID: ids["mains"], Name: "Masala Dosa", Price: decimal.NewFromInt(60), IsAvailable: true, IsVeg: true, IsFeatured: true, CategoryName: "Mains", CategoryGstRate: decimal.NewFromInt(5)},
			{ID: ids["combo"], CategoryID: ids["mains"], Name: "Breakfast Combo", Price: decimal.NewFromInt(999), IsAvailable: true, IsCombo: true, CategoryName: "Mains", CategoryGstRate: decimal.NewFromInt(5)},
			{ID: ids["coffee"], CategoryID: ids["drinks"], Name: "Filter Coffee", Price: decimal.NewFromInt(30), GstRate: decimal.NullDecimal{Decimal: decimal.NewFromInt(18), Valid: true}, IsAvailable: true, CategoryName: "Drinks", CategoryGstRate: decimal.NewFromInt(12)},
			{ID: ids["juice"], CategoryID: ids["drinks"], Name: "Orange Juice", Price: decimal.NewFromInt(50), IsAvailable: false, CategoryName: "Drinks", CategoryGstRate: decimal.NewFromInt(12)},
		},
		components: []dbgen.ComboComponent{
			{ID: pgID(), ComboID: ids["combo"], ItemID: ids["dosa"], Quantity: 2},
			{ID: pgID(), ComboID: ids["combo"], ItemID: ids["coffee"], Quantity: 1},
		},
	}
	return f, ids
}

func (f *fakeCatalogQueries) find(id pgtype.UUID) (int, bool) {
	for i, it := range f.items {
		if it.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (f *fakeCatalogQueries) ListActiveCategories(context.Context) ([]dbgen.Category, error) {
	var out []dbgen.Category
	for _, c := range f.categories {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCatalogQueries) ListCategories(context.Context) ([]dbgen.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogQueries) ListCatalogItems(context.Context) ([]dbgen.ListCatalogItemsRow, error) {
	f.listCalls++
	return append([]dbgen.ListCatalogItemsRow(nil), f.items...), nil
}

func (f *fakeCatalogQueries) ListComboComponents(_ context.Context, ids []pgtype.UUID) ([]dbgen.ListComboComponentsRow, error) {
	var out []dbgen.ListComboComponentsRow
	for _, c := range f.components {
		for _, id := range ids {
			if c.ComboID != id {
				continue
			}
			i, _ := f.find(c.ItemID)
			out = append(out, dbgen.ListComboComponentsRow{
				ComboID:   c.ComboID,
				ItemID:    c.ItemID,
				Quantity:  c.Quantity,
				ItemName:  f.items[i].Name,
				ItemPrice: f.items[i].Price,
			})
		}
	}
	return out, nil
}

func (f *fakeCatalogQueries) GetItemWithCategory(_ context.Context, id pgtype.UUID) (dbgen.GetItemWithCategoryRow, error) {
	i, ok := f.find(id)
	if !ok {
		return dbgen.GetItemWithCategoryRow{}, pgx.ErrNoRows
	}
	return dbgen.GetItemWithCategoryRow(f.items[i]), nil
}

func (f *fakeCatalogQueries) GetCategoryByID(_ context.Context, id pgtype.UUID) (dbgen.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return dbgen.Category{}, pgx.ErrNoRows
}

func (f *fakeCatalogQueries) CreateCategory(_ context.Context, arg dbgen.CreateCategoryParams) (dbgen.Category, error) {
	c := dbgen.Category{ID: pgID(), Name: arg.Name, GstRate: arg.GstRate, SortOrder: arg.SortOrder, IsActive: true, ImageUrl: arg.ImageUrl}
	f.categories = append(f.categories, c)
	return c, nil
}

func (f *fakeCatalogQueries) UpdateCategory(_ context.Context, arg dbgen.UpdateCategoryParams) (dbgen.Category, error) {
	for i, c := range f.categories {
		if c.ID == arg.ID {
			f.categories[i] = dbgen.Category{ID: c.ID, Name: arg.Name, GstRate: arg.GstRate, SortOrder: arg.SortOrder, IsActive: arg.IsActive, ImageUrl: arg.ImageUrl}
			return f.categories[i], nil
		}
	}
	return dbgen.Category{}, pgx.ErrNoRows
}

func (f *fakeCatalogQueries) CreateItem(_ context.Context, arg dbgen.CreateItemParams) (dbgen.Item, error) {
	row := dbgen.ListCatalogItemsRow{
		ID: pgID(), CategoryID: arg.CategoryID, Name: arg.Name, Description: arg.Description, Price: arg.Price,
		GstRate: arg.GstRate, IsAvailable: arg.IsAvailable, IsVeg: arg.IsVeg, IsCombo: arg.IsCombo,
		IsFeatured: arg.IsFeatured, ImageUrl: arg.ImageUrl,
	}
	cat, err := f.GetCategoryByID(context.Background(), arg.CategoryID)
	if err != nil {
		return dbgen.Item{}, err
	}
	row.CategoryName = cat.Name
	row.CategoryGstRate = cat.GstRate
	f.items = append(f.items, row)
	return dbgen.Item{ID: row.ID, CategoryID: row.CategoryID, Name: row.Name, Price: row.Price}, nil
}

func (f *fakeCatalogQueries) UpdateItem(_ context.Context, arg dbgen.UpdateItemParams) (dbgen.Item, error) {
	i, ok := f.find(arg.ID)
	if !ok {
		return dbgen.Item{}, pgx.ErrNoRows
	}
	it := &f.items[i]
	it.Name, it.Price, it.GstRate, it.IsAvailable = arg.Name, arg.Price, arg.GstRate, arg.IsAvailable
	return dbgen.Item{ID: it.ID, Name: it.Name, Price: it.Price}, nil
}

func (f *fakeCatalogQueries) SetItemAvailability(_ context.Context, arg dbgen.SetItemAvailabilityParams) (dbgen.Item, error) {
	i, ok := f.find(arg.ID)
	if !ok {
		return dbgen.Item{}, pgx.ErrNoRows
	}
	f.items[i].IsAvailable = arg.IsAvailable
	return dbgen.Item{ID: arg.ID, IsAvailable: arg.IsAvailable}, nil
}

func (f *fakeCatalogQueries) AddComboComponent(_ context.Context, arg dbgen.AddComboComponentParams) (dbgen.ComboComponent, error) {
	c := dbgen.ComboComponent{ID: pgID(), ComboID: arg.ComboID, ItemID: arg.ItemID, Quantity: arg.Quantity}
	f.components = append(f.components, c)
	return c, nil
}

func (f *fakeCatalogQueries) DeleteComboComponents(_ context.Context, comboID pgtype.UUID) error {
	kept := f.components[:0]
	for _, c := range f.components {
		if c.ComboID != comboID {
			kept = append(kept, c)
		}
	}
	f.components = kept
	return nil
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

type homeResponse struct {
	Data catalog.Home `json:"data"`
}

type itemsResponse struct {
	Data []catalog.Item `json:"data"`
}

type itemResponse struct {
	Data catalog.Item `json:"data"`
}

func TestCatalogHandlers(t *testing.T) {
	queries, ids := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{Queries: queries})
	require.NoError(t, err)
	handler := catalog.NewHandler(catalog.HandlerConfig{Service: svc})

	t.Run("home", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Home(rec, httptest.NewRequest(http.MethodGet, "/api/v1/home", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp homeResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data.Categories, 2)
		require.Len(t, resp.Data.Items, 3, "unavailable items are hidden")
		require.Len(t, resp.Data.Featured, 1)
		require.Equal(t, "Masala Dosa", resp.Data.Featured[0].Name)

		byName := map[string]catalog.Item{}
		for _, it := range resp.Data.Items {
			byName[it.Name] = it
		}
		require.Equal(t, "150.00", byName["Breakfast Combo"].Price, "combo priced from components")
		require.Len(t, byName["Breakfast Combo"].ComboItems, 2)
		require.Equal(t, "18.00", byName["Filter Coffee"].GSTRate, "item override wins")
		require.Equal(t, "5.00", byName["Masala Dosa"].GSTRate)
		require.Empty(t, byName["Masala Dosa"].ComboItems)
	})

	t.Run("combos", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.Combos(rec, httptest.NewRequest(http.MethodGet, "/api/v1/combos", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Data, 1)
		require.Equal(t, idString(ids["combo"]), resp.Data[0].ID)
	})

	t.Run("item not found", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/items/x", nil), "id", uuid.NewString())
		rec := httptest.NewRecorder()
		handler.Item(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, rec.Body.String(), "ITEM_NOT_FOUND")
	})

	t.Run("admin create item validates", func(t *testing.T) {
		body := `{"category_id":"` + idString(ids["drinks"]) + `","name":"Lassi","price":"abc"}`
		rec := httptest.NewRecorder()
		handler.CreateItem(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/items", strings.NewReader(body)))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("admin create item", func(t *testing.T) {
		body := `{"category_id":"` + idString(ids["drinks"]) + `","name":"Lassi","price":"45.50"}`
		rec := httptest.NewRecorder()
		handler.CreateItem(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/items", strings.NewReader(body)))
		require.Equal(t, http.StatusCreated, rec.Code)
		var resp itemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "45.50", resp.Data.Price)
		require.Equal(t, "12.00", resp.Data.GSTRate)
		require.True(t, resp.Data.IsAvailable)
	})

	t.Run("combo components", func(t *testing.T) {
		body := `{"components":[{"item_id":"` + idString(ids["coffee"]) + `","quantity":3}]}`
		req := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/admin/items/x/components", strings.NewReader(body)), "id", idString(ids["combo"]))
		rec := httptest.NewRecorder()
		handler.SetComboComponents(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp itemResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, "90.00", resp.Data.Price)

		plain := withURLParam(httptest.NewRequest(http.MethodPut, "/api/v1/admin/items/x/components", strings.NewReader(body)), "id", idString(ids["dosa"]))
		prec := httptest.NewRecorder()
		handler.SetComboComponents(prec, plain)
		require.Equal(t, http.StatusBadRequest, prec.Code)
	})
}

func TestHomeIsCachedUntilAdminWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queries, ids := newFakeCatalogQueries()
	svc, err := catalog.NewService(catalog.ServiceConfig{
		Queries: queries,
		Cache:   catalog.NewMenuCache(client, time.Minute),
	})
	require.NoError(t, err)
	ctx := context.Background()

	first, err := svc.Home(ctx)
	require.NoError(t, err)
	_, err = svc.Home(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, queries.listCalls)
	require.True(t, mr.Exists("catalog:0:home"))

	_, err = svc.SetAvailability(ctx, idString(ids["dosa"]), false)
	require.NoError(t, err)
	gen, err := mr.Get("catalog:gen")
	require.NoError(t, err)
	require.Equal(t, "1", gen)

	after, err := svc.Home(ctx)
	require.NoError(t, err)
	require.Len(t, after.Items, len(first.Items)-1)
	require.Equal(t, 2, queries.listCalls)
	require.True(t, mr.Exists("catalog:1:home"))

	mr.FastForward(2 * time.Minute)
	require.False(t, mr.Exists("catalog:0:home"))
	require.False(t, mr.Exists("catalog:1:home"))
}

func TestMenuCacheWithoutRedisAlwaysMisses(t *testing.T) {
	var cache *catalog.MenuCache
	var dst catalog.Home
	require.False(t, cache.Load(context.Background(), "home", &dst))
	cache.Store(context.Background(), "home", catalog.Home{})
	cache.Bump(context.Background())
}

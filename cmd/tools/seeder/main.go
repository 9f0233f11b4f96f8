package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/noah-isme/backend-food/internal/auth"
)

type seedItem struct {
	Name        string
	Description string
	Price       string
	Veg         bool
	Featured    bool
}

type seedCategory struct {
	Name    string
	GSTRate string
	Items   []seedItem
}

var menu = []seedCategory{
	{Name: "Biryani", GSTRate: "5.00", Items: []seedItem{
		{"Chicken Biryani", "Dum-cooked seeraga samba rice with chicken", "220.00", false, true},
		{"Mutton Biryani", "Slow-cooked mutton biryani", "300.00", false, false},
		{"Veg Biryani", "Seasonal vegetables and basmati", "160.00", true, false},
	}},
	{Name: "Starters", GSTRate: "5.00", Items: []seedItem{
		{"Chicken 65", "Spicy fried chicken", "180.00", false, true},
		{"Gobi Manchurian", "Crispy cauliflower in manchurian sauce", "140.00", true, false},
	}},
	{Name: "Beverages", GSTRate: "18.00", Items: []seedItem{
		{"Lime Soda", "Fresh lime with soda", "60.00", true, false},
		{"Rose Milk", "Chilled rose milk", "70.00", true, false},
	}},
	{Name: "Desserts", GSTRate: "5.00", Items: []seedItem{
		{"Gulab Jamun", "Two pieces", "50.00", true, false},
	}},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	seedAdmin(tx)
	seedRiders(tx)
	itemIDs := seedMenu(tx)
	seedCombo(tx, itemIDs)
	seedCoupons(tx, itemIDs)

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seed data: %v", err)
	}
	log.Println("Seeding completed successfully!")
}

func seedAdmin(tx *sql.Tx) {
	email := strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL"))
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Println("SEED_ADMIN_PASSWORD not set, skipping admin user")
		return
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}
	_, err = tx.Exec(`
		INSERT INTO users (name, email, password_hash, roles)
		VALUES ('Admin', $1, $2, ARRAY['admin'])
		ON CONFLICT (email) DO UPDATE SET password_hash = EXCLUDED.password_hash, roles = EXCLUDED.roles`,
		email, hash)
	if err != nil {
		log.Fatalf("Failed to seed admin: %v", err)
	}
	log.Printf("Admin user %s ready", email)
}

func seedRiders(tx *sql.Tx) {
	riders := []struct{ Name, Mobile string }{
		{"Ravi Kumar", "9000000001"},
		{"Suresh Babu", "9000000002"},
	}
	for _, r := range riders {
		if _, err := tx.Exec(`INSERT INTO riders (name, mobile) VALUES ($1, $2) ON CONFLICT (mobile) DO NOTHING`, r.Name, r.Mobile); err != nil {
			log.Fatalf("Failed to seed rider %s: %v", r.Mobile, err)
		}
	}
	log.Printf("Seeded %d riders", len(riders))
}

func seedMenu(tx *sql.Tx) map[string]string {
	ids := map[string]string{}
	for i, c := range menu {
		var categoryID string
		err := tx.QueryRow(`SELECT id FROM categories WHERE name = $1`, c.Name).Scan(&categoryID)
		if err == sql.ErrNoRows {
			err = tx.QueryRow(`INSERT INTO categories (name, gst_rate, sort_order) VALUES ($1, $2, $3) RETURNING id`,
				c.Name, c.GSTRate, i).Scan(&categoryID)
		}
		if err != nil {
			log.Fatalf("Failed to seed category %s: %v", c.Name, err)
		}
		ids["category:"+c.Name] = categoryID

		for _, item := range c.Items {
			var itemID string
			err := tx.QueryRow(`SELECT id FROM items WHERE name = $1 AND category_id = $2`, item.Name, categoryID).Scan(&itemID)
			if err == sql.ErrNoRows {
				err = tx.QueryRow(`
					INSERT INTO items (category_id, name, description, price, is_veg, is_featured)
					VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
					categoryID, item.Name, item.Description, item.Price, item.Veg, item.Featured).Scan(&itemID)
			}
			if err != nil {
				log.Fatalf("Failed to seed item %s: %v", item.Name, err)
			}
			ids[item.Name] = itemID
		}
	}
	log.Printf("Seeded %d categories", len(menu))
	return ids
}

func seedCombo(tx *sql.Tx, ids map[string]string) {
	var comboID string
	err := tx.QueryRow(`SELECT id FROM items WHERE name = 'Biryani Meal Combo'`).Scan(&comboID)
	if err == sql.ErrNoRows {
		err = tx.QueryRow(`
			INSERT INTO items (category_id, name, description, is_veg, is_combo, is_featured)
			VALUES ($1, 'Biryani Meal Combo', 'Chicken biryani, chicken 65 and a lime soda', FALSE, TRUE, TRUE)
			RETURNING id`, ids["category:Biryani"]).Scan(&comboID)
	}
	if err != nil {
		log.Fatalf("Failed to seed combo: %v", err)
	}
	for _, name := range []string{"Chicken Biryani", "Chicken 65", "Lime Soda"} {
		_, err := tx.Exec(`
			INSERT INTO combo_components (combo_id, item_id, quantity) VALUES ($1, $2, 1)
			ON CONFLICT (combo_id, item_id) DO NOTHING`, comboID, ids[name])
		if err != nil {
			log.Fatalf("Failed to seed combo component %s: %v", name, err)
		}
	}
}

func seedCoupons(tx *sql.Tx, ids map[string]string) {
	stmts := []struct {
		Code  string
		Query string
		Args  []any
	}{
		{"WELCOME50", `INSERT INTO coupons (code, description, discount_type, discount_value, max_discount_amount, for_first_time_users_only)
			VALUES ($1, '50% off your first order, up to 100', 'percentage', 50, 100, TRUE) ON CONFLICT (code) DO NOTHING`, nil},
		{"FLAT40", `INSERT INTO coupons (code, description, discount_type, discount_value, min_order_amount)
			VALUES ($1, '40 off orders above 299', 'fixed', 40, 299) ON CONFLICT (code) DO NOTHING`, nil},
		{"FREEDESSERT", `INSERT INTO coupons (code, description, discount_type, free_item_id, min_order_amount, max_uses)
			VALUES ($1, 'Free gulab jamun on orders above 399', 'free_item', $2, 399, 500) ON CONFLICT (code) DO NOTHING`,
			[]any{ids["Gulab Jamun"]}},
		{"ANYDRINK", `INSERT INTO coupons (code, description, discount_type, free_item_category_id, min_order_amount)
			VALUES ($1, 'Pick any beverage free above 499', 'free_item', $2, 499) ON CONFLICT (code) DO NOTHING`,
			[]any{ids["category:Beverages"]}},
	}
	for _, s := range stmts {
		args := append([]any{s.Code}, s.Args...)
		if _, err := tx.Exec(s.Query, args...); err != nil {
			log.Fatalf("Failed to seed coupon %s: %v", s.Code, err)
		}
	}
	log.Printf("Seeded %d coupons", len(stmts))
}

package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/noah-isme/backend-food/internal/db"
)

func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", db.DefaultMigrationsDir, "migrations directory")
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}
	m := db.Migrator{DatabaseURL: dbURL, Dir: *dir}

	cmd := flag.Arg(0)
	switch cmd {
	case "", "up":
		if err := m.Up(); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("migrations applied")
	case "down":
		if err := m.Down(*steps); err != nil {
			log.Fatalf("migrate down: %v", err)
		}
		log.Printf("rolled back %d migration(s)", *steps)
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("migrate version: %v", err)
		}
		log.Printf("version=%d dirty=%v", version, dirty)
	default:
		log.Fatalf("unknown command %q (want up, down or version)", cmd)
	}
}

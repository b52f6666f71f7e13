package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/arquivolivre/user-directory/config"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	seeds := []struct {
		name, email, bio string
	}{
		{"John Doe", "john.doe@example.com", "Backend developer"},
		{"Jane Smith", "jane.smith@example.com", "Platform engineer"},
		{"Bob Johnson", "bob.johnson@example.com", ""},
	}

	for _, s := range seeds {
		var id int64
		err := db.QueryRow(`
			INSERT INTO users (name, email, bio)
			VALUES ($1, $2, NULLIF($3, ''))
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
		`, s.name, s.email, s.bio).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", s.email, err)
		}
		fmt.Printf("seeded user: id=%d email=%s name=%s\n", id, s.email, s.name)
	}
}

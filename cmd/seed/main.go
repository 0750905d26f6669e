package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/key2key/backend/config"
	"github.com/key2key/backend/pkg/helpers"
)

// Seeds a verified admin and a couple of demo accounts for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	hasher := helpers.NewPasswordHasher(cfg.BcryptCost)

	seed := []struct {
		email, name, phone, role, password string
	}{
		{"admin@key2key.local", "Site Admin", "", "admin", "admin12345"},
		{"seller@key2key.local", "Demo Seller", "+251911000001", "seller", "seller12345"},
		{"broker@key2key.local", "Demo Broker", "+251911000002", "broker", "broker12345"},
		{"buyer@key2key.local", "Demo Buyer", "+251911000003", "buyer", "buyer12345"},
	}

	for _, u := range seed {
		hash, err := hasher.Hash(u.password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		var id string
		err = db.QueryRow(`
			INSERT INTO users (email, full_name, phone, password_hash, role, verified)
			VALUES ($1, $2, $3, $4, $5, TRUE)
			ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
			RETURNING id
		`, u.email, u.name, u.phone, hash, u.role).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed user %s: %v", u.email, err)
		}
		fmt.Printf("seeded user: id=%s email=%s role=%s password=%s\n", id, u.email, u.role, u.password)

		if u.role == "broker" {
			if _, err := db.Exec(`
				INSERT INTO broker_profiles (user_id, license_number, bio, years_experience, is_verified)
				VALUES ($1, 'BRK-0001', 'Demo broker profile', 5, TRUE)
				ON CONFLICT (user_id) DO NOTHING
			`, id); err != nil {
				log.Fatalf("failed to seed broker profile: %v", err)
			}
			fmt.Println("seeded broker profile for", u.email)
		}
	}
}

package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found")
	}

	defaultDSN := os.Getenv("DATABASE_URL")
	dsn := flag.String("dsn", defaultDSN, "database url")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("DSN required via flag -dsn or DATABASE_URL env")
	}

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Cannot ping DB:", err)
	}

	seedInitialUser(db)
}

func seedInitialUser(db *sql.DB) {
	email := "admin@clienthub.local"
	password := "changeme123"

	if envEmail := os.Getenv("DB_SEED_EMAIL"); envEmail != "" {
		email = envEmail
	}

	if envPass := os.Getenv("DB_SEED_PASSWORD"); envPass != "" {
		password = envPass
	}

	var exists bool
	if err := db.QueryRow(`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists); err != nil {
		log.Fatal("Cannot check seed user:", err)
	}
	if exists {
		fmt.Println("Seed user already present, nothing to do.")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Cannot hash password:", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (avatar_url, gender, first_name, last_name, email, hashed_password, is_active)
		VALUES (NULL, 'male', 'Admin', 'User', $1, $2, TRUE)
	`, email, string(hashed))
	if err != nil {
		log.Fatal("Cannot insert seed user:", err)
	}

	fmt.Printf("Seeded user %s\n", email)
}

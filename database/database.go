package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"

	"tasktracker/utilities"
)

// ConnectPostgres opens and verifies the store connection from the DB_*
// environment variables.
func ConnectPostgres() (*sql.DB, error) {
	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	user := os.Getenv("DB_USER")
	password := os.Getenv("DB_PASSWORD")
	dbname := os.Getenv("DB_NAME")
	sslmode := os.Getenv("DB_SSLMODE")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		utilities.LogError(err, "Failed to open database connection")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		utilities.LogError(err, "Failed to reach the database")
		return nil, err
	}

	utilities.LogInfo("Connected to PostgreSQL")
	return db, nil
}

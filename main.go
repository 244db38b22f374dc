package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"tasktracker/database"
	"tasktracker/firebase"
	"tasktracker/flows"
	"tasktracker/handlers"
	"tasktracker/session"
	"tasktracker/utilities"
)

const defaultSessionIdleTTL = 60 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Failed to load .env file")
	}

	db, err := database.ConnectPostgres()
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	app, err := firebase.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}
	authClient, err := firebase.NewAuthClient(ctx, app)
	if err != nil {
		log.Fatalf("Failed to obtain auth client: %v", err)
	}
	provider, err := firebase.NewProvider(authClient)
	if err != nil {
		log.Fatalf("Failed to configure auth provider: %v", err)
	}

	sessions := session.NewManager(sessionIdleTTL())
	sweeper, err := session.NewSweeper(sessions, "@every 5m")
	if err != nil {
		log.Fatalf("Failed to schedule session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	credentialFlow := flows.NewCredentialFlow(provider, sessions, handlers.ClientNavigator{})
	taskReconciler := flows.NewTaskReconciler(database.NewTaskStore(db))

	handlers.Init(db, sessions, provider, credentialFlow, taskReconciler)

	LoadRoutes()
}

func sessionIdleTTL() time.Duration {
	raw := os.Getenv("SESSION_IDLE_TTL_MINUTES")
	if raw == "" {
		return defaultSessionIdleTTL
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		utilities.LogError(err, "Invalid SESSION_IDLE_TTL_MINUTES, using default")
		return defaultSessionIdleTTL
	}
	return time.Duration(minutes) * time.Minute
}

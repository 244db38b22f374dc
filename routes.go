package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tasktracker/handlers"
	"tasktracker/utilities"
)

func LoadRoutes() {
	utilities.InitLogger()

	r := mux.NewRouter()

	r.Use(handlers.LoggingMiddleware)
	r.Use(handlers.RecoveryMiddleware)

	// --- Auth routes (public) ---
	r.HandleFunc("/auth/signup", handlers.SignupHandler).Methods("POST")
	r.HandleFunc("/auth/login", handlers.LoginHandler).Methods("POST")
	r.HandleFunc("/auth/password-strength", handlers.PasswordStrengthHandler).Methods("POST")
	r.HandleFunc("/auth/logout", handlers.AuthMiddleware(handlers.LogoutHandler)).Methods("POST")

	// --- User routes (authenticated) ---
	r.HandleFunc("/user/info", handlers.AuthMiddleware(handlers.UserInfoHandler)).Methods("GET")

	// --- Task routes (authenticated) ---
	r.HandleFunc("/task/list", handlers.AuthMiddleware(handlers.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/task/create", handlers.AuthMiddleware(handlers.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/task/update/{task_id}", handlers.AuthMiddleware(handlers.UpdateTaskHandler)).Methods("PUT")
	r.HandleFunc("/task/delete/{task_id}", handlers.AuthMiddleware(handlers.DeleteTaskHandler)).Methods("DELETE")

	// --- Notification surface (authenticated) ---
	r.HandleFunc("/notifications", handlers.AuthMiddleware(handlers.NotificationsHandler)).Methods("GET")

	// CORS configuration
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})

	allowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if allowedOriginsEnv == "" {
		allowedOrigins = []string{"*"}
		utilities.LogInfo("CORS_ALLOWED_ORIGINS not set, allowing all origins ('*'). Set it in production.")
	} else {
		allowedOrigins = strings.Split(allowedOriginsEnv, ",")
	}
	origins := gorillahandlers.AllowedOrigins(allowedOrigins)
	utilities.LogInfo("Configuring CORS with allowed origins: %v", allowedOrigins)

	handler := gorillahandlers.CORS(headers, methods, origins)(r)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	utilities.LogInfo("Server listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, handler))
}

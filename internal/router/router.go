package router

import (
	"database/sql"
	"time"

	"client_directory_backend/internal/handlers"
	"client_directory_backend/internal/repositories"
	"client_directory_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup wires repositories, services and handlers and registers all routes.
func Setup(engine *gin.Engine, db *sql.DB, authenticator handlers.OIDCAuthenticator, sessionTTL time.Duration) {
	// Repositories
	clientRepo := repositories.NewClientRepository(db)

	// Services
	clientService := services.NewClientService(clientRepo, db)

	// Handlers
	clientHandler := handlers.NewClientHandler(clientService)
	authHandler := handlers.NewAuthHandler(authenticator, sessionTTL)

	api := engine.Group("/api")
	SetupAuthRoutes(api, authHandler)
	SetupClientRoutes(api, clientHandler)
}

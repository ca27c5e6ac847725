package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"client_directory_backend/internal/auth"
	"client_directory_backend/internal/database"
	router_pkg "client_directory_backend/internal/router"
	"client_directory_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	utils.InitLogger()
	utils.LoadDotEnv()

	// Database configuration from environment variables
	dbHost := utils.Getenv("DB_HOST", "localhost")
	dbPort := utils.Getenv("DB_PORT", "5432")
	dbUser := utils.Getenv("DB_USER", "client_directory_user")
	dbPassword := utils.Getenv("DB_PASSWORD", "client_directory_password")
	dbName := utils.Getenv("DB_NAME", "client_directory_db")
	dbSSLMode := utils.Getenv("DB_SSLMODE", "disable")
	dbSchemaPath := utils.Getenv("DB_SCHEMA_PATH", "db_schema.sql")

	database.InitDB(dbHost, dbPort, dbUser, dbPassword, dbName, dbSSLMode, dbSchemaPath)
	utils.LogInfo("Database initialized", map[string]interface{}{"configured_from_env": true})

	// Session signing key for tokens minted after the OIDC handshake
	utils.SetSessionSecret(os.Getenv("SESSION_JWT_SECRET"))
	sessionTTL := utils.DefaultSessionTTL
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			log.Fatalf("Invalid SESSION_TTL %q: %v", ttlStr, err)
		}
		sessionTTL = ttl
	}

	// OIDC client registration. For Azure AD the issuer is
	// https://login.microsoftonline.com/<tenant-id>/v2.0.
	authenticator, err := auth.NewAuthenticator(context.Background(), auth.Config{
		IssuerURL:    utils.Getenv("OIDC_ISSUER", "https://login.microsoftonline.com/common/v2.0"),
		ClientID:     os.Getenv("OIDC_CLIENT_ID"),
		ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		RedirectURL:  utils.Getenv("OIDC_REDIRECT_URL", "http://localhost:8080/api/auth/callback"),
	})
	if err != nil {
		utils.LogError(err, "Failed to initialize OIDC authenticator")
		log.Fatalf("Failed to initialize OIDC authenticator: %v", err)
	}

	router := gin.Default()
	router.Use(utils.GinLogger())

	// CORS configuration
	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router_pkg.Setup(router, database.GetDB(), authenticator, sessionTTL)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "configured_from_env": true})

	if err := router.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}

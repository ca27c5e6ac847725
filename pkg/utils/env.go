package utils

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads a .env file into the process environment if one exists.
// A missing file is not an error; deployed environments configure variables
// directly.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		LogDebug("No .env file found, relying on OS environment variables")
	}
}

// Getenv retrieves the value of the environment variable named by the key.
// If the variable is not present or its value is empty, Getenv returns the fallback string.
func Getenv(key, fallback string) string {
	value := os.Getenv(key)
	if len(value) == 0 {
		return fallback
	}
	return value
}

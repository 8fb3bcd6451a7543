// cmd/mockapi/main.go
package main

import (
	"log/slog"
	"net/http"
	"os"

	"libraclient/internal/mockapi"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	secret := getEnv("MOCKAPI_SECRET", "dev-only-secret")
	server, err := mockapi.NewServer(secret, logger)
	if err != nil {
		logger.Error("could not start", "error", err)
		os.Exit(1)
	}

	port := getEnv("PORT", "8000")
	logger.Info("mock library service listening", "port", port)
	if err := http.ListenAndServe(":"+port, server.Handler()); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

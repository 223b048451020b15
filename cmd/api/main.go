package main

import (
	"os"

	"github.com/emre/seatwise/internal/pkg/logger"
	"github.com/emre/seatwise/internal/server"
)

// @title SeatWise API
// @version 1.0
// @description Course enrollment backend with atomic seat reservation and realtime seat updates
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

// @securityDefinitions.apikey AdminSecret
// @in header
// @name Authorization
// @description Shared admin secret, sent verbatim

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// Error details are logged within NewServer's setup functions
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
	os.Exit(0)
}

package main

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/krismos64/Skyjo/config"
	"github.com/krismos64/Skyjo/game"
	"github.com/krismos64/Skyjo/server"
	"github.com/krismos64/Skyjo/shared/logger"
)

func main() {
	settings := config.Load()

	log := logger.New(settings.Release)
	if settings.Release {
		gin.SetMode(gin.ReleaseMode)
	}

	service := game.NewService(log.With().Str("component", "rooms").Logger())
	gateway := server.NewGateway(service, log.With().Str("component", "gateway").Logger())
	handler := server.NewHandler(gateway, service, log)

	go gateway.Run(context.Background())

	r := server.NewRouter(handler, settings.AllowedOrigins, settings.StaticDir)

	log.Info().Str("port", settings.Port).Msg("server listening")
	if err := r.Run(":" + settings.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

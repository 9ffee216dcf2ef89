// Package main is the entry point for the journiv-server application.
//
// @title           Journiv API
// @version         1.0.0
// @description     Backend for the Journiv journaling application: authentication,
//
//	user administration and weather enrichment for journal entries.
//
// @contact.name   API Support
// @contact.url    https://github.com/journiv/journiv-server
//
// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT
//
// @host      localhost:8080
// @BasePath  /
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 JWT access token, prefixed with "Bearer ".
//
// @tag.name        Auth
// @tag.description Authentication endpoints
//
// @tag.name        Weather
// @tag.description Weather fetch endpoints
//
// @tag.name        Admin
// @tag.description User administration endpoints
//
// @tag.name        Health
// @tag.description Health check endpoints
package main

import (
	"github.com/rs/zerolog/log"

	_ "github.com/journiv/journiv-server/docs" // swagger docs

	"github.com/journiv/journiv-server/config"
	"github.com/journiv/journiv-server/internal/app"
	"github.com/journiv/journiv-server/internal/middleware"
)

func main() {
	cfg := config.Load()

	router := app.InitializeApp(cfg)
	server := app.NewServer(router, cfg.Server)

	err := server.Run()

	// Flush queued audit entries before exiting
	middleware.StopAsyncLogger()

	if err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}

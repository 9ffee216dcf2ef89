package app

import (
	"os"

	"github.com/journiv/journiv-server/internal/logger"
)

// InitializeLogger sets up the global zerolog logger before anything else
// runs. LOG_LEVEL and LOG_PRETTY are read directly from the environment
// rather than config.Load so that configuration problems themselves get
// logged; JSON lines at info level is the production default.
func InitializeLogger() {
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	pretty := os.Getenv("LOG_PRETTY") == "true"
	logger.Init(logLevel, pretty)
}

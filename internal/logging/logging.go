package logging

import (
	"go.uber.org/zap"
)

// New builds the application logger. Production envs get JSON output,
// everything else gets the human-readable development console.
func New(env string) (*zap.Logger, error) {
	switch env {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}

package logger

import (
	"go.uber.org/zap"
)

// New builds the service-wide sugared logger.
func New(service string) (*zap.SugaredLogger, error) {
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	cfg.InitialFields = map[string]interface{}{"service": service}

	log, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

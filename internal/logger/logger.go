package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/config"
)

// Init installs the global zap logger used through zap.L().
func Init(env string) error {
	var (
		l   *zap.Logger
		err error
	)
	if config.IsDevelopment(env) {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l.With(zap.String("env", env)))

	return nil
}

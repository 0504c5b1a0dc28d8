package entities

import (
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"
)

// RegisterProviders registers all entity providers with the DIG container.
// Settings require a config file path, they are loaded by the controllers.
func RegisterProviders(container *dig.Container) error {
	// The standard logger is configured in main; its level follows --lol
	if err := container.Provide(logger.StandardLogger); err != nil {
		return err
	}
	if err := container.Provide(func(log *logger.Logger) logger.FieldLogger {
		return log
	}); err != nil {
		return err
	}

	return nil
}

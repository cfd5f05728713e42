package container

import (
	"aryastastic/adapters/calculators"
	"aryastastic/adapters/excel"
	"aryastastic/app"
	"aryastastic/internal"
	"aryastastic/internal/config"
	"aryastastic/internal/errors"
	"aryastastic/ports"
)

// Container holds the application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	Calculators ports.CalculatorPort
	Exporter    ports.SweepExporter
	Scenarios   ports.ScenarioReaderPort

	Service *app.CalculationService
}

// New wires the calculator registry, adapters and service. A nil logger is
// built from the configured level.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, errors.ConfigInvalid("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewLogger(cfg.Logging.Level)
	}

	c := &Container{
		Config:      cfg,
		Logger:      logger,
		Calculators: calculators.NewRegistry(),
		Exporter:    excel.NewSweepExporter(),
		Scenarios:   excel.NewScenarioReader(logger),
	}
	c.Service = app.NewCalculationService(c.Calculators, cfg.Sweep, logger)
	return c, nil
}

// Close flushes the logger
func (c *Container) Close() {
	c.Logger.Sync()
}

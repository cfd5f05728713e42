package ports

import (
	"io"

	"aryastastic/domain/study"
)

// CalculatorPort dispatches a calculation to the calculator registered for a design
type CalculatorPort interface {
	Compute(design study.Design, in study.Input) (*study.ExtendedCalculatorResult, error)
	Designs() []DesignInfo
}

// DesignInfo describes one registered study design
type DesignInfo struct {
	Design      study.Design `json:"design"`
	Description string       `json:"description"`
}

// SweepExporter writes a completed parameter sweep in a tabular format
type SweepExporter interface {
	ContentType() string
	Export(w io.Writer, sweep *study.Sweep) error
}

// ScenarioReaderPort reads batch scenarios from a tabular file
type ScenarioReaderPort interface {
	ReadScenarios(path string, defaultDesign study.Design) ([]study.Scenario, error)
}

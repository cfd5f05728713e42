package study

// Scenario is one named calculation read from a batch file
type Scenario struct {
	Label  string `json:"label"`
	Design Design `json:"design"`
	Input  Input  `json:"input"`
}

// ScenarioOutcome pairs a scenario with its result or error
type ScenarioOutcome struct {
	Scenario Scenario                  `json:"scenario"`
	Result   *ExtendedCalculatorResult `json:"result,omitempty"`
	Code     string                    `json:"code,omitempty"`
	Error    string                    `json:"error,omitempty"`
}

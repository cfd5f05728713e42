package excel

// RawRowData represents a row of raw sheet data keyed by header
type RawRowData map[string]string

// SheetData represents a header row and the data rows below it
type SheetData struct {
	Headers []string
	Rows    []RawRowData
}

const (
	// DesignColumn optionally names the design of each scenario row
	DesignColumn = "design"
	// LabelColumn optionally names each scenario row
	LabelColumn = "label"

	sweepSheet   = "Sweep"
	summarySheet = "Summary"
)

package excel

import (
	"io"

	"github.com/xuri/excelize/v2"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/ports"
)

// SweepExporter writes sweeps as xlsx workbooks with a Sweep sheet and,
// when the sweep has one, a Summary sheet
type SweepExporter struct{}

var _ ports.SweepExporter = (*SweepExporter)(nil)

// NewSweepExporter creates an xlsx sweep exporter
func NewSweepExporter() *SweepExporter { return &SweepExporter{} }

// ContentType is the xlsx MIME type
func (e *SweepExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

var sweepHeaders = []interface{}{"value", "sampleSize", "n1", "n2", "totalN", "power", "effectSize", "interpretation", "error"}

// Export writes the workbook to w
func (e *SweepExporter) Export(w io.Writer, sweep *study.Sweep) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sweepSheet); err != nil {
		return errors.Wrap(err, "rename sweep sheet")
	}
	if err := f.SetSheetRow(sweepSheet, "A1", &sweepHeaders); err != nil {
		return errors.Wrap(err, "write sweep header")
	}
	for i, p := range sweep.Points {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "locate sweep row")
		}
		row := pointRow(p)
		if err := f.SetSheetRow(sweepSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "write sweep row %d", i+2)
		}
	}
	if err := f.SetPanes(sweepSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return errors.Wrap(err, "freeze sweep header")
	}

	if sweep.Summary != nil {
		if err := writeSummary(f, sweep); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return errors.Wrap(err, "write workbook")
	}
	return nil
}

func pointRow(p study.SweepPoint) []interface{} {
	row := make([]interface{}, len(sweepHeaders))
	row[0] = p.Value
	if !p.OK() {
		row[8] = p.Error
		return row
	}
	r := p.Result
	row[1] = intCell(r.SampleSize)
	row[2] = intCell(r.N1)
	row[3] = intCell(r.N2)
	row[4] = intCell(r.TotalN)
	row[5] = floatCell(r.Power)
	row[6] = floatCell(r.EffectSize)
	row[7] = r.Interpretation
	return row
}

func writeSummary(f *excelize.File, sweep *study.Sweep) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return errors.Wrap(err, "create summary sheet")
	}
	s := sweep.Summary
	rows := [][]interface{}{
		{"design", sweep.Design.String()},
		{"parameter", sweep.Parameter},
		{"metric", string(s.Metric)},
		{"count", s.Count},
		{"min", s.Min},
		{"median", s.Median},
		{"mean", s.Mean},
		{"max", s.Max},
		{"failed", sweep.Failed()},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "locate summary row")
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return errors.Wrap(err, "write summary row")
		}
	}
	return nil
}

func intCell(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

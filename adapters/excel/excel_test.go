package excel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	path := filepath.Join(t.TempDir(), "scenarios.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadScenarios_CSV(t *testing.T) {
	path := writeFile(t, "scenarios.csv",
		"label,design,p1,p2,alpha,power,oneSided\n"+
			"baseline,,0.3,0.5,0.05,0.8,\n"+
			",two-proportions,0.3,0.5,0.05,0.9,yes\n"+
			",,,,,,\n")

	scenarios, err := NewDataReader(path, nil).ReadScenarios(study.DesignTwoProportions)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "baseline", scenarios[0].Label)
	assert.Equal(t, study.DesignTwoProportions, scenarios[0].Design)
	assert.Equal(t, study.Input{P1: study.FloatPtr(0.3), P2: study.FloatPtr(0.5), Alpha: 0.05, Power: 0.8}, scenarios[0].Input)
	assert.Equal(t, "row 3", scenarios[1].Label)
	assert.True(t, scenarios[1].Input.OneSided)
}

func TestReadScenarios_XLSX(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"design", "mean1", "mean2", "sd", "alpha", "power"},
		{"two-means", 10, 12, 4, 0.05, 0.8},
	})

	scenarios, err := NewDataReader(path, nil).ReadScenarios("")
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, study.DesignTwoMeans, scenarios[0].Design)
	assert.Equal(t, 4.0, scenarios[0].Input.SD)
	assert.Equal(t, 0.8, scenarios[0].Input.Power)
}

func TestReadScenarios_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"unknown column", "p1,beta\n0.3,0.2\n", "file"},
		{"not a number", "p1,p2\n0.3,half\n", "p2"},
		{"header only", "p1,p2\n", "file"},
		{"missing design", "design,p1\n,0.3\n", "design"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "in.csv", tt.content)
			_, err := NewDataReader(path, nil).ReadScenarios("")
			require.Error(t, err)
			assert.True(t, errors.IsInvalidParameter(err))
			assert.Equal(t, tt.field, errors.GetField(err))
		})
	}
}

func TestReadData_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.xlsx"), nil).ReadData()
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func sampleSweep() *study.Sweep {
	ok := &study.ExtendedCalculatorResult{CalculatorResult: study.CalculatorResult{
		Interpretation: "You need 93 participants per group.",
		Calculations:   []string{"n1 = 92.3"},
	}}
	ok.SetGroups(93, 93)
	return &study.Sweep{
		Design:    study.DesignTwoProportions,
		Parameter: "power",
		Points: []study.SweepPoint{
			{Value: 0.8, Result: ok},
			{Value: 1.5, Code: errors.CodeInvalidParameter, Error: "power: must be strictly between 0 and 1"},
		},
		Summary: &study.SweepSummary{Metric: study.MetricSampleSize, Count: 1, Min: 93, Max: 93, Median: 93, Mean: 93},
	}
}

func TestSweepExporter_Workbook(t *testing.T) {
	var buf bytes.Buffer
	exp := NewSweepExporter()
	require.NoError(t, exp.Export(&buf, sampleSweep()))
	assert.Contains(t, exp.ContentType(), "spreadsheetml")

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sweep")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "value", rows[0][0])
	assert.Equal(t, []string{"0.8", "93", "93", "93", "186"}, rows[1][:5])
	assert.Equal(t, "You need 93 participants per group.", rows[1][7])
	assert.Equal(t, "1.5", rows[2][0])
	assert.Equal(t, "power: must be strictly between 0 and 1", rows[2][8])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Equal(t, []string{"metric", "sampleSize"}, summary[2])
	assert.Equal(t, []string{"failed", "1"}, summary[8])
}

func TestSweepExporter_NoSummarySheetWithoutSummary(t *testing.T) {
	s := sampleSweep()
	s.Summary = nil
	var buf bytes.Buffer
	require.NoError(t, NewSweepExporter().Export(&buf, s))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sweep"}, f.GetSheetList())
}

package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"aryastastic/domain/study"
	"aryastastic/internal"
	"aryastastic/internal/errors"
	"aryastastic/ports"
)

// DataReader reads scenario sheets from Excel or CSV files. The first row
// holds parameter names; each later row is one scenario.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader that picks the format from the extension
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// ReadData reads the first sheet (or the CSV body) into headers and rows
func (r *DataReader) ReadData() (*SheetData, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	default:
		return r.readExcelData()
	}
}

func (r *DataReader) readExcelData() (*SheetData, error) {
	start := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %s", sheet)
	}
	r.logger.Debug("[DataReader] sheet %s read in %s (%d rows)", sheet, time.Since(start), len(rows))
	return r.processRows(rows)
}

func (r *DataReader) readCSVData() (*SheetData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read CSV file")
	}
	return r.processRows(rows)
}

func (r *DataReader) processRows(rows [][]string) (*SheetData, error) {
	if len(rows) < 2 {
		return nil, errors.InvalidParameter("file", "needs a header row and at least one data row")
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	data := &SheetData{Headers: headers}
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		empty := true
		for j, cell := range row {
			if j < len(headers) {
				cell = strings.TrimSpace(cell)
				rowData[headers[j]] = cell
				empty = empty && cell == ""
			}
		}
		if !empty {
			data.Rows = append(data.Rows, rowData)
		}
	}
	r.logger.Debug("[DataReader] %s processed (%d columns, %d rows)", strings.ToUpper(r.fileType), len(headers), len(data.Rows))
	return data, nil
}

// ReadScenarios reads every row as a scenario. Rows without a design column
// value use defaultDesign. Unknown headers are rejected so a misspelt
// parameter is not silently ignored.
func (r *DataReader) ReadScenarios(defaultDesign study.Design) ([]study.Scenario, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	return Scenarios(data, defaultDesign)
}

// Scenarios converts sheet rows to scenarios
func Scenarios(data *SheetData, defaultDesign study.Design) ([]study.Scenario, error) {
	for _, h := range data.Headers {
		if h == "" || h == DesignColumn || h == LabelColumn || study.IsParam(h) {
			continue
		}
		return nil, errors.InvalidParameterf("file", "unknown column %q", h)
	}

	scenarios := make([]study.Scenario, 0, len(data.Rows))
	for i, row := range data.Rows {
		line := i + 2
		sc := study.Scenario{Label: row[LabelColumn], Design: defaultDesign}
		if sc.Label == "" {
			sc.Label = "row " + strconv.Itoa(line)
		}
		if d := row[DesignColumn]; d != "" {
			sc.Design = study.Design(d)
		}
		if sc.Design == "" {
			return nil, errors.InvalidParameterf("design", "row %d has no design", line)
		}
		for _, h := range data.Headers {
			if !study.IsParam(h) || row[h] == "" {
				continue
			}
			v, err := parseCell(row[h])
			if err != nil {
				return nil, errors.InvalidParameterf(h, "row %d: %q is not a number", line, row[h])
			}
			if err := sc.Input.Set(h, v); err != nil {
				return nil, err
			}
		}
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

func parseCell(s string) (float64, error) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return 1, nil
	case "false", "no":
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// ScenarioReader reads scenario files by path
type ScenarioReader struct {
	logger *internal.Logger
}

var _ ports.ScenarioReaderPort = (*ScenarioReader)(nil)

// NewScenarioReader creates a scenario reader for xlsx and csv files
func NewScenarioReader(logger *internal.Logger) *ScenarioReader {
	return &ScenarioReader{logger: logger}
}

// ReadScenarios reads the scenarios in the file at path
func (s *ScenarioReader) ReadScenarios(path string, defaultDesign study.Design) ([]study.Scenario, error) {
	return NewDataReader(path, s.logger).ReadScenarios(defaultDesign)
}

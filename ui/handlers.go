package ui

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"aryastastic/app"
	"aryastastic/domain/study"
	"aryastastic/internal/errors"
	"aryastastic/internal/report"
)

const maxUploadBytes = 10 << 20

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleDesigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"designs": a.service.Designs()})
}

func (a *App) handleCalculate(w http.ResponseWriter, r *http.Request) {
	design := study.Design(chi.URLParam(r, "design"))
	in, err := decodeInput(r)
	if err != nil {
		a.writeAppError(w, err)
		return
	}

	calc, err := a.service.Calculate(r.Context(), design, in)
	if err != nil {
		a.writeAppError(w, err)
		return
	}

	if wantsFormat(r, "html") {
		md := report.Markdown(report.Document{ID: calc.ID.String(), Design: calc.Design, Result: calc.Result})
		a.renderTemplate(w, "report.html", reportPage{Title: design.String(), Body: toHTML(md)})
		return
	}
	writeJSON(w, http.StatusOK, calc)
}

type sweepBody struct {
	Base      study.Input `json:"base"`
	Parameter string      `json:"parameter"`
	Values    []float64   `json:"values"`
}

func (a *App) handleSweep(w http.ResponseWriter, r *http.Request) {
	var body sweepBody
	if err := decodeJSON(r, &body); err != nil {
		a.writeAppError(w, err)
		return
	}

	sweep, err := a.service.Sweep(r.Context(), app.SweepRequest{
		Design:    study.Design(chi.URLParam(r, "design")),
		Base:      body.Base,
		Parameter: body.Parameter,
		Values:    body.Values,
	})
	if err != nil {
		a.writeAppError(w, err)
		return
	}

	switch {
	case wantsFormat(r, "xlsx"):
		a.writeWorkbook(w, sweep)
	case wantsFormat(r, "html"):
		a.renderTemplate(w, "report.html", reportPage{Title: sweep.Design.String() + " sweep", Body: toHTML(report.SweepMarkdown(sweep))})
	default:
		writeJSON(w, http.StatusOK, sweep)
	}
}

func (a *App) writeWorkbook(w http.ResponseWriter, sweep *study.Sweep) {
	if a.exporter == nil {
		writeError(w, http.StatusNotImplemented, errors.CodeUnsupported, "format", "xlsx export is not configured")
		return
	}
	w.Header().Set("Content-Type", a.exporter.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+sweep.Design.String()+`-sweep.xlsx"`)
	if err := a.exporter.Export(w, sweep); err != nil {
		a.logger.Error("export sweep %s: %v", sweep.ID, err)
	}
}

// handleBatch calculates every row of an uploaded xlsx or csv file. The
// design query parameter applies to rows without a design column.
func (a *App) handleBatch(w http.ResponseWriter, r *http.Request) {
	if a.scenarios == nil {
		writeError(w, http.StatusNotImplemented, errors.CodeUnsupported, "", "batch upload is not configured")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		a.writeAppError(w, errors.InvalidParameterf("file", "expected a multipart file upload: %v", err))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".csv" && ext != ".xlsx" {
		a.writeAppError(w, errors.InvalidParameterf("file", "unsupported file type %q", ext))
		return
	}
	tmp, err := os.CreateTemp("", "batch-*"+ext)
	if err != nil {
		a.writeAppError(w, errors.Wrap(err, "buffer upload"))
		return
	}
	defer os.Remove(tmp.Name())
	_, err = io.Copy(tmp, file)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		a.writeAppError(w, errors.Wrap(err, "buffer upload"))
		return
	}

	scenarios, err := a.scenarios.ReadScenarios(tmp.Name(), study.Design(r.URL.Query().Get("design")))
	if err != nil {
		a.writeAppError(w, err)
		return
	}
	outcomes, err := a.service.Batch(r.Context(), scenarios)
	if err != nil {
		a.writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"outcomes": outcomes})
}

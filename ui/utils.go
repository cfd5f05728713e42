package ui

import (
	"encoding/json"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"

	"aryastastic/domain/study"
	"aryastastic/internal/errors"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, field, message string) {
	writeJSON(w, status, map[string]errorBody{"error": {Code: code, Field: field, Message: message}})
}

// statusFor maps an application error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidParameter:
		return http.StatusBadRequest
	case errors.CodeUnsupported:
		return http.StatusUnprocessableEntity
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) writeAppError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.CodeInternalError
	}
	status := statusFor(code)
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed: %v", err)
	}
	writeError(w, status, code, errors.GetField(err), err.Error())
}

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded"
}

// decodeJSON binds a single JSON value, rejecting unknown fields
func decodeJSON(r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := binding.JSON.Bind(r, v); err != nil {
		return errors.InvalidParameterf("body", "invalid JSON: %v", err)
	}
	return nil
}

// decodeInput binds a study input from a JSON body or from form values.
// Blank form values count as not supplied.
func decodeInput(r *http.Request) (study.Input, error) {
	var in study.Input
	if !isForm(r) {
		return in, decodeJSON(r, &in)
	}

	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return in, errors.InvalidParameterf("body", "invalid form: %v", err)
	}
	if err := normalizeForm(r.PostForm); err != nil {
		return in, err
	}
	if err := binding.FormPost.Bind(r, &in); err != nil {
		return in, errors.InvalidParameterf("body", "invalid form: %v", err)
	}
	return in, nil
}

// normalizeForm rejects unknown keys, drops blank values so they bind as
// absent rather than zero, and maps checkbox values onto booleans.
func normalizeForm(form url.Values) error {
	for key, values := range form {
		if !study.IsParam(key) {
			return errors.InvalidParameterf(key, "unknown parameter")
		}
		raw := strings.TrimSpace(values[len(values)-1])
		if raw == "" {
			delete(form, key)
			continue
		}
		if key == "oneSided" {
			raw = checkbox(raw)
		} else if _, err := strconv.ParseFloat(raw, 64); err != nil {
			return errors.InvalidParameterf(key, "%q is not a number", raw)
		}
		form[key] = []string{raw}
	}
	return nil
}

func checkbox(raw string) string {
	switch strings.ToLower(raw) {
	case "on", "yes":
		return "true"
	case "off", "no":
		return "false"
	}
	return raw
}

func wantsFormat(r *http.Request, format string) bool {
	return strings.EqualFold(r.URL.Query().Get("format"), format)
}

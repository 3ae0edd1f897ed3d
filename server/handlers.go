package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"

	"github.com/YuminosukeSato/salarygo/dataset"
	"github.com/YuminosukeSato/salarygo/pkg/errors"
	"github.com/YuminosukeSato/salarygo/pkg/log"
)

type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type predictResponse struct {
	PredictedSalary float64 `json:"predicted_salary"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Message: "Service is healthy"})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	rec, err := decodeObject(r.Body)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if missing := dataset.MissingFields(s.deps.Schema, rec); len(missing) > 0 {
		s.deps.Logger.Info("Rejected request",
			log.ErrorCodeKey, log.ErrorMissingFields,
			"missing", missing,
		)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errors.ErrMissingFields.Error()})
		return
	}

	pred, err := s.predict(rec)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{PredictedSalary: math.Round(pred*100) / 100})
}

// predict runs the model and turns any panic into an error.
func (s *Server) predict(rec map[string]any) (pred float64, err error) {
	defer errors.Recover(&err, "server.predict")
	return s.deps.Predictor.PredictRecord(rec)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errors.ErrMissingFields) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: errors.ErrMissingFields.Error()})
		return
	}
	s.deps.Logger.Error("Prediction failed", err,
		log.ErrorCodeKey, log.ErrorPredictFailure,
		log.HTTPPathKey, r.URL.Path,
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// decodeObject reads a single JSON object. Numbers are kept as json.Number
// so integers round-trip exactly.
func decodeObject(body io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read request body")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errors.NewValueError("decode", "request body is empty")
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, errors.Wrap(err, "malformed JSON body")
	}
	if dec.More() {
		return nil, errors.NewValueError("decode", "request body holds more than one JSON value")
	}
	rec, ok := v.(map[string]any)
	if !ok {
		return nil, errors.NewValueError("decode", "request body must be a JSON object")
	}
	return rec, nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

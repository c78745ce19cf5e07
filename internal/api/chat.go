package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/compose"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/storage"
	"github.com/gaurav-aionos/AI-powered-business-analyser/internal/warehouse"
)

const maxRequestBodyBytes = 1 << 20

type chatRequest struct {
	Message string `json:"message"`
}

func handleChat(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Agent == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "AGENT_UNAVAILABLE", "chat agent is not configured", true, nil)
		return
	}

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "message is required", false, nil)
		return
	}

	payload, err := deps.Agent.Answer(r.Context(), message)
	if err != nil {
		var queryErr *warehouse.QueryError
		if errors.As(err, &queryErr) {
			writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", queryErr.Error(), false, map[string]any{
				"sql": queryErr.SQL,
			})
			return
		}
		var composeErr *compose.CompositionError
		if errors.As(err, &composeErr) {
			writeError(r.Context(), w, http.StatusInternalServerError, "COMPOSITION_FAILED", composeErr.Error(), false, nil)
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), true, nil)
		return
	}

	writeJSON(w, http.StatusOK, payload)
}

type intentRequest struct {
	Message string `json:"message"`
}

// handleIntent exposes the classification stage on its own, without
// execution. Useful for debugging prompts and the fallback tier.
func handleIntent(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Classifier == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "CLASSIFIER_UNAVAILABLE", "classifier is not configured", true, nil)
		return
	}

	var req intentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "message is required", false, nil)
		return
	}

	it := deps.Classifier.Classify(r.Context(), message)
	writeJSON(w, http.StatusOK, map[string]any{
		"intent":     it,
		"fallback":   it.Fallback,
		"diagnostic": it.Note,
	})
}

type schemaTable struct {
	Name    string                 `json:"name"`
	Columns []warehouse.ColumnInfo `json:"columns"`
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Schema == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "SCHEMA_UNAVAILABLE", "schema source is not configured", true, nil)
		return
	}

	names, err := deps.Schema.ListTables(r.Context())
	if err != nil {
		writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_INTROSPECTION_FAILED", err.Error(), true, nil)
		return
	}

	tables := make([]schemaTable, 0, len(names))
	for _, name := range names {
		columns, err := deps.Schema.DescribeTable(r.Context(), name)
		if err != nil {
			writeError(r.Context(), w, http.StatusInternalServerError, "SCHEMA_INTROSPECTION_FAILED", err.Error(), true, nil)
			return
		}
		tables = append(tables, schemaTable{Name: name, Columns: columns})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tables":         tables,
		"entity_mapping": deps.Mapping.Entities(),
	})
}

func handleExportDownload(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Exports == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "EXPORTS_UNAVAILABLE", "export store is not configured", true, nil)
		return
	}

	key := r.PathValue("key")
	reader, err := deps.Exports.Get(r.Context(), key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			writeError(r.Context(), w, http.StatusNotFound, "EXPORT_NOT_FOUND", "no export at this key", false, nil)
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "EXPORT_FETCH_FAILED", err.Error(), true, nil)
		return
	}
	defer func() { _ = reader.Close() }()

	w.Header().Set("Content-Type", "application/vnd.apache.parquet")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error(), false, nil)
		return false
	}
	return true
}

package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/eleven-am/taskboard/internal/apperr"
	"github.com/eleven-am/taskboard/internal/logger"
)

// Meta carries pagination data in list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// envelope is the uniform JSON wrapper used by every endpoint.
type envelope struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Data    interface{}   `json:"data,omitempty"`
	Meta    *Meta         `json:"meta,omitempty"`
	Error   *apperr.Error `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.HTTP().Error("encoding response: %v", err)
	}
}

// respond writes a 200 success envelope.
func respond(w http.ResponseWriter, data interface{}, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message, Data: data})
}

// respondCreated writes a 201 success envelope.
func respondCreated(w http.ResponseWriter, data interface{}, message string) {
	writeJSON(w, http.StatusCreated, envelope{Success: true, Message: message, Data: data})
}

// respondNoContent writes an empty 204.
func respondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// respondPaginated writes a 200 envelope with pagination meta.
// totalPages is ceil(total/limit).
func respondPaginated(w http.ResponseWriter, data interface{}, page, limit, total int) {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	writeJSON(w, http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Meta:    &Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages},
	})
}

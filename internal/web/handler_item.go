package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/itemstore/internal/domain"
	"github.com/vbonduro/itemstore/internal/service"
)

const maxBodyBytes = 1 << 16

type itemRequest struct {
	ItemName string `json:"itemName"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := s.service.CreateItem(r.Context(), req.ItemName, req.Price, req.Quantity)
	if err != nil {
		s.writeServiceError(w, "create item", err)
		return
	}

	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	item, ok, err := s.service.GetItem(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, "get item", err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req itemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	item, err := s.service.UpdateItem(r.Context(), id, domain.ItemUpdate(req))
	if err != nil {
		s.writeServiceError(w, "update item", err)
		return
	}

	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	cond := domain.ItemSearchCond{ItemName: q.Get("itemName")}
	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		maxPrice, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid maxPrice", http.StatusBadRequest)
			return
		}
		cond.MaxPrice = &maxPrice
	}

	items, err := s.service.SearchItems(r.Context(), cond)
	if err != nil {
		s.writeServiceError(w, "search items", err)
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}

	s.writeJSON(w, http.StatusOK, items)
}

// writeServiceError maps service errors onto status codes; anything
// unexpected is logged and reported as a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidItem):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrItemNotFound):
		http.Error(w, "item not found", http.StatusNotFound)
	default:
		s.logger.Error(op+" error", "error", err)
		http.Error(w, "failed to "+op, http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseID extracts the {id} path variable and returns it as int64.
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

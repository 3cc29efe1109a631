package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/honeynil/financial-monitor/internal/models"
	service "github.com/honeynil/financial-monitor/internal/services"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
)

type Handler struct {
	service service.TransactionService
}

func NewHandler(s service.TransactionService) *Handler {
	return &Handler{service: s}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/api/transactions", h.Create).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/api/transactions", h.List).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/api/transactions/{id}", h.GetByID).Methods(http.MethodGet, http.MethodOptions)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.New("invalid request body"))
		return
	}

	// Shape pre-filter; the service re-checks the business rules itself.
	if len(in.ID) > models.MaxIDLength {
		h.writeError(w, http.StatusBadRequest,
			fmt.Errorf("Transaction ID must be at most %d characters.", models.MaxIDLength))
		return
	}

	tx, err := h.service.Process(r.Context(), &in)
	if err != nil {
		switch {
		case errors.Is(err, pkgerrors.ErrDuplicateTransaction):
			h.writeError(w, http.StatusConflict, err)
		case errors.Is(err, pkgerrors.ErrInvalidInput),
			errors.Is(err, pkgerrors.ErrInvalidAmount),
			errors.Is(err, pkgerrors.ErrInvalidCurrency),
			errors.Is(err, pkgerrors.ErrUnsupportedCurrency),
			errors.Is(err, pkgerrors.ErrInvalidStatus):
			h.writeError(w, http.StatusBadRequest, err)
		default:
			slog.Error("transaction ingestion failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, errors.New("An unexpected error occurred."))
		}
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/transactions/%s", tx.ID))
	h.writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.service.List(r.Context())
	if err != nil {
		slog.Error("failed to list transactions", "error", err)
		h.writeError(w, http.StatusInternalServerError, errors.New("An unexpected error occurred."))
		return
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	tx, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrTransactionNotFound) {
			h.writeError(w, http.StatusNotFound, err)
			return
		}
		slog.Error("failed to get transaction", "transaction_id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, errors.New("An unexpected error occurred."))
		return
	}

	h.writeJSON(w, http.StatusOK, tx)
}

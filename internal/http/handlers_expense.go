package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"kakeibo/internal/services"
)

func (s *server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	created, err := s.expenses.CreateExpense(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	userID, from, to, err := parseListWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	expenses, err := s.expenses.ListExpenses(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	in, err := parseExpenseInput(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	updated, err := s.expenses.UpdateExpense(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseExpenseInput(r *http.Request) (services.ExpenseInput, error) {
	var in services.ExpenseInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		return services.ExpenseInput{}, fmt.Errorf("invalid request body: %w", err)
	}
	return in, nil
}

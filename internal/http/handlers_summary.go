package http

import (
	"math"
	"net/http"

	"kakeibo/internal/core"
)

// monthlyTotalView is the wire shape of a monthly bucket. The trend delta
// is non-finite when the preceding month's total was zero; encoding/json
// cannot represent ±Inf/NaN as numbers, so those degenerate deltas are
// rendered as strings and left for the client to display.
type monthlyTotalView struct {
	Month             string `json:"month"`
	Total             int64  `json:"total"`
	PartyATotal       int64  `json:"partyATotal"`
	PartyBTotal       int64  `json:"partyBTotal"`
	PreviousMonthDiff any    `json:"previousMonthDiff,omitempty"`
}

func toMonthlyView(totals []core.MonthlyTotal) []monthlyTotalView {
	views := make([]monthlyTotalView, len(totals))
	for i, t := range totals {
		views[i] = monthlyTotalView{
			Month:       t.Month,
			Total:       t.Total,
			PartyATotal: t.PartyATotal,
			PartyBTotal: t.PartyBTotal,
		}
		if t.PreviousMonthDiff == nil {
			continue
		}
		switch diff := *t.PreviousMonthDiff; {
		case math.IsInf(diff, 1):
			views[i].PreviousMonthDiff = "Infinity"
		case math.IsInf(diff, -1):
			views[i].PreviousMonthDiff = "-Infinity"
		case math.IsNaN(diff):
			views[i].PreviousMonthDiff = "NaN"
		default:
			views[i].PreviousMonthDiff = diff
		}
	}
	return views
}

func (s *server) handleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	userID, err := parseOwner(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	totals, err := s.summaries.MonthlyTotals(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMonthlyView(totals))
}

func (s *server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	userID, from, to, err := parseListWindow(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := s.summaries.CategoryExpenses(r.Context(), userID, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

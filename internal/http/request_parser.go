package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"kakeibo/internal/core"
)

// parseListWindow extracts the owner and the optional inclusive date range
// from query parameters. Range bounds must be full YYYY-MM-DD dates when
// present.
func parseListWindow(r *http.Request) (userID, from, to string, err error) {
	userID = strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		return "", "", "", fmt.Errorf("missing userId parameter")
	}

	from = strings.TrimSpace(r.URL.Query().Get("from"))
	to = strings.TrimSpace(r.URL.Query().Get("to"))
	for _, bound := range []string{from, to} {
		if bound == "" {
			continue
		}
		if _, perr := time.Parse(core.DateLayout, bound); perr != nil {
			return "", "", "", fmt.Errorf("invalid date bound %q: want YYYY-MM-DD", bound)
		}
	}
	return userID, from, to, nil
}

// parseOwner extracts just the owner id from query parameters.
func parseOwner(r *http.Request) (string, error) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		return "", fmt.Errorf("missing userId parameter")
	}
	return userID, nil
}

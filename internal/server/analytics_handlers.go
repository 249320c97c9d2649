package server

import (
	"log"
	"net/http"
	"strconv"
	"targetrange/internal/analytics"
)

func (s *Server) handleAnalyticsLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "Analytics requires a database connection")
		return
	}

	category := r.URL.Query().Get("cat")
	if category == "" {
		category = "score"
	}
	limit := 10
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}

	q := analytics.NewQueries(s.DB)
	entries, err := q.GetLeaderboard(category, limit)
	if err != nil {
		log.Printf("[Analytics] leaderboard error: %v\n", err)
		writeError(w, http.StatusBadRequest, "Error loading leaderboard")
		return
	}
	if entries == nil {
		entries = []analytics.LeaderboardEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleAnalyticsSession(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		writeError(w, http.StatusServiceUnavailable, "Analytics requires a database connection")
		return
	}

	q := analytics.NewQueries(s.DB)
	stats, err := q.GetSessionStats(r.PathValue("id"))
	if err != nil {
		log.Printf("[Analytics] session stats error: %v\n", err)
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

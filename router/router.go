// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-tally/db"
	"github.com/danielhkuo/quickly-tally/handlers"
	"github.com/danielhkuo/quickly-tally/middleware"
)

func NewRouter(store *db.Store) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	resultsHandler := handlers.NewResultsHandler(store)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll views and results (public, computed per request)
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(resultsHandler.GetPoll))
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("GET /polls/{id}/leaderboard", middleware.WithLogging(resultsHandler.GetLeaderboard))
	mux.HandleFunc("GET /polls/{id}/participation", middleware.WithLogging(resultsHandler.GetParticipation))
	mux.HandleFunc("GET /polls/{id}/vote-count", middleware.WithLogging(resultsHandler.GetVoteCount))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-tally API v1"))
	})

	return mux
}

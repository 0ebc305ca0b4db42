// Package api provides the read-only HTTP API of the bot.
// Every write goes through Telegram; the API only presents state.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"lucky-dice-bot/internal/achievement"
	"lucky-dice-bot/internal/pkg/clock"
	"lucky-dice-bot/internal/reward"
	"lucky-dice-bot/internal/service"
	"lucky-dice-bot/internal/shop"
)

// Server is the HTTP API server.
type Server struct {
	accounts       *service.AccountService
	challenges     *service.ChallengeService
	shop           *service.ShopService
	adventure      *service.AdventureService
	clock          clock.Clock
	metricsEnabled bool
}

// NewServer creates a new API server.
func NewServer(
	accounts *service.AccountService,
	challenges *service.ChallengeService,
	shopSvc *service.ShopService,
	adventure *service.AdventureService,
	clk clock.Clock,
) *Server {
	return &Server{
		accounts:   accounts,
		challenges: challenges,
		shop:       shopSvc,
		adventure:  adventure,
		clock:      clk,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/challenge", s.handleChallenge)
		r.Get("/shop", s.handleCatalog)
		r.Route("/profiles/{id}", func(r chi.Router) {
			r.Get("/", s.handleProfile)
			r.Get("/challenge", s.handleProfileChallenge)
			r.Get("/progression", s.handleProgression)
			r.Get("/achievements", s.handleAchievements)
			r.Get("/shop", s.handleShop)
		})
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handleChallenge returns the shared challenge of a day.
// GET /api/challenge?date=YYYY-MM-DD (defaults to today)
func (s *Server) handleChallenge(w http.ResponseWriter, r *http.Request) {
	date := s.clock.Now()
	if q := r.URL.Query().Get("date"); q != "" {
		d, err := time.ParseInLocation(time.DateOnly, q, date.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		date = d
	}
	writeJSON(w, http.StatusOK, s.challenges.ForDate(date))
}

// handleCatalog returns the shop catalog.
// GET /api/shop
func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": itemsJSON(shop.GetAllItems()),
	})
}

// handleProfile returns a player's profile with derived values.
// GET /api/profiles/{id}
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	p, err := s.accounts.Profile(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile":       p,
		"level":         p.Level(),
		"diceStyle":     shop.ActiveDiceStyle(p.UnlockedItems),
		"bonusPercent":  reward.BonusPercent(p.StreakDays),
		"dailyBonusDue": p.DailyBonusDate != clock.Today(s.clock),
	})
}

// handleProfileChallenge returns a player's copy of today's challenge.
// GET /api/profiles/{id}/challenge
func (s *Server) handleProfileChallenge(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	c, err := s.challenges.Today(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// handleProgression returns a player's adventure progression.
// GET /api/profiles/{id}/progression
func (s *Server) handleProgression(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	v, err := s.adventure.State(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// handleAchievements returns every achievement with a player's progress.
// GET /api/profiles/{id}/achievements
func (s *Server) handleAchievements(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	statuses, err := s.accounts.Achievements(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"achievements": achievementsJSON(statuses),
	})
}

// handleShop returns the catalog with a player's ownership.
// GET /api/profiles/{id}/shop
func (s *Server) handleShop(w http.ResponseWriter, r *http.Request) {
	id, ok := userID(w, r)
	if !ok {
		return
	}
	listings, p, err := s.shop.Items(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	items := make([]map[string]interface{}, 0, len(listings))
	for _, l := range listings {
		item := itemJSON(l.ItemConfig)
		item["unlocked"] = l.Unlocked
		item["affordable"] = l.Affordable
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": p.LuckPoints,
		"items":   items,
	})
}

func userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile id")
		return 0, false
	}
	return id, true
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if r.Context().Err() != nil {
		status = http.StatusServiceUnavailable
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("API request failed")
	writeError(w, status, "internal error")
}

func itemJSON(item shop.ItemConfig) map[string]interface{} {
	return map[string]interface{}{
		"id":          string(item.Type),
		"name":        item.Name,
		"emoji":       item.Emoji,
		"price":       item.Price,
		"category":    string(item.Category),
		"description": item.Description,
	}
}

func itemsJSON(items []shop.ItemConfig) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		out = append(out, itemJSON(item))
	}
	return out
}

func achievementsJSON(statuses []achievement.Status) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, map[string]interface{}{
			"id":          st.ID,
			"name":        st.Name,
			"emoji":       st.Emoji,
			"description": st.Description,
			"points":      st.Points,
			"target":      st.Target,
			"progress":    st.Progress,
			"completed":   st.Completed,
		})
	}
	return out
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

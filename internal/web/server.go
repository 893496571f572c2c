// Package web exposes the study service over a JSON HTTP API.
package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/mnemolabs/mnemo/internal/domain"
	"github.com/mnemolabs/mnemo/internal/srs"
	"github.com/mnemolabs/mnemo/internal/storage"
	"github.com/mnemolabs/mnemo/internal/study"
	appsync "github.com/mnemolabs/mnemo/internal/sync"
)

// Server holds the dependencies for the HTTP server.
type Server struct {
	db     *storage.DB
	study  *study.Service
	router *http.ServeMux
}

// NewServer creates and configures a new server.
func NewServer(db *storage.DB, studySvc *study.Service) *Server {
	s := &Server{
		db:     db,
		study:  studySvc,
		router: http.NewServeMux(),
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /decks", s.handleListDecks())
	s.router.HandleFunc("GET /session", s.handleTodaySession())
	s.router.HandleFunc("GET /cards/due", s.handleCardQuery(s.study.DueCards))
	s.router.HandleFunc("GET /cards/difficult", s.handleCardQuery(s.study.DifficultCards))
	s.router.HandleFunc("GET /cards/review-words", s.handleCardQuery(s.study.ReviewWords))
	s.router.HandleFunc("GET /cards/problematic", s.handleCardQuery(s.study.ProblematicWords))
	s.router.HandleFunc("GET /tags", s.handleTagStats())
	s.router.HandleFunc("GET /stats", s.handleStats())

	s.router.HandleFunc("POST /cards/{id}/review", s.handleReview())
	s.router.HandleFunc("POST /cards/{id}/discard", s.handleCardToggle(s.study.ToggleDiscarded))
	s.router.HandleFunc("POST /cards/{id}/favorite", s.handleCardToggle(s.study.ToggleFavorite))
	s.router.HandleFunc("POST /cards/{id}/needs-review", s.handleCardToggle(s.study.ToggleNeedsReview))
	s.router.HandleFunc("POST /cards/{id}/problematic", s.handleMarkProblematic())
	s.router.HandleFunc("POST /restore", s.handleRestore())
	s.router.HandleFunc("POST /sessions", s.handleRecordSession())

	s.router.HandleFunc("GET /sources", s.handleListSources())
	s.router.HandleFunc("DELETE /sources/{id}", s.handleDeleteSource())
	s.router.HandleFunc("POST /sync", s.handleSync())
}

// cardView is the wire shape of a card: the stored fields plus the derived
// maturity status and difficulty tag, which are computed on demand.
type cardView struct {
	ID                  string     `json:"id"`
	DeckID              string     `json:"deckId"`
	Front               string     `json:"front"`
	Back                string     `json:"back"`
	Context             string     `json:"context,omitempty"`
	EaseFactor          float64    `json:"easeFactor"`
	Interval            int        `json:"interval"`
	Repetitions         int        `json:"repetitions"`
	NextReview          time.Time  `json:"nextReview"`
	LastReview          *time.Time `json:"lastReview,omitempty"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	TotalFailures       int        `json:"totalFailures"`
	LastFailureDate     *time.Time `json:"lastFailureDate,omitempty"`
	IsFavorite          bool       `json:"isFavorite"`
	IsDiscarded         bool       `json:"isDiscarded"`
	NeedsReview         bool       `json:"needsReview"`
	IsProblematic       bool       `json:"isProblematic"`
	DiscardedAt         *time.Time `json:"discardedAt,omitempty"`
	Level               string     `json:"level,omitempty"`
	Status              string     `json:"status"`
	Tag                 string     `json:"tag,omitempty"`
}

func toView(c domain.Card) cardView {
	view := cardView{
		ID:                  c.ID,
		DeckID:              c.DeckID,
		Front:               c.Front,
		Back:                c.Back,
		Context:             c.Context,
		EaseFactor:          c.EaseFactor,
		Interval:            c.Interval,
		Repetitions:         c.Repetitions,
		NextReview:          c.NextReview,
		LastReview:          c.LastReview,
		ConsecutiveFailures: c.ConsecutiveFailures,
		TotalFailures:       c.TotalFailures,
		LastFailureDate:     c.LastFailureDate,
		IsFavorite:          c.IsFavorite,
		IsDiscarded:         c.IsDiscarded,
		NeedsReview:         c.NeedsReview,
		IsProblematic:       c.IsProblematic,
		DiscardedAt:         c.DiscardedAt,
		Level:               c.Level,
		Status:              string(c.Status()),
	}
	if tag := srs.Classify(c); tag != nil {
		view.Tag = tag.ID
	}
	return view
}

func toViews(cards []domain.Card) []cardView {
	views := make([]cardView, 0, len(cards))
	for _, c := range cards {
		views = append(views, toView(c))
	}
	return views
}

func (s *Server) handleListDecks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		decks, err := s.db.ListDecks()
		if err != nil {
			s.internalError(w, "listing decks", err)
			return
		}
		writeJSON(w, http.StatusOK, decks)
	}
}

func (s *Server) handleTodaySession() http.HandlerFunc {
	type response struct {
		Review  []cardView `json:"review"`
		New     []cardView `json:"new"`
		Today   int        `json:"today"`
		Pending int        `json:"pending"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.study.TodaySession(r.URL.Query().Get("deck"))
		if err != nil {
			s.internalError(w, "composing session", err)
			return
		}
		writeJSON(w, http.StatusOK, response{
			Review:  toViews(session.Review),
			New:     toViews(session.New),
			Today:   session.Total(),
			Pending: session.Pending,
		})
	}
}

func (s *Server) handleCardQuery(query func(deckID string) ([]domain.Card, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cards, err := query(r.URL.Query().Get("deck"))
		if err != nil {
			s.internalError(w, "selecting cards", err)
			return
		}
		writeJSON(w, http.StatusOK, toViews(cards))
	}
}

func (s *Server) handleTagStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.study.TagStats(r.URL.Query().Get("deck"))
		if err != nil {
			s.internalError(w, "aggregating tags", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.study.Stats()
		if err != nil {
			s.internalError(w, "reading stats", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleReview() http.HandlerFunc {
	type request struct {
		Quality int `json:"quality"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		card, err := s.study.SubmitReview(r.PathValue("id"), req.Quality)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidQuality) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			s.internalError(w, "submitting review", err)
			return
		}
		if card == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, toView(*card))
	}
}

func (s *Server) handleCardToggle(toggle func(cardID string) (*domain.Card, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		card, err := toggle(r.PathValue("id"))
		if err != nil {
			s.internalError(w, "toggling card flag", err)
			return
		}
		if card == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, toView(*card))
	}
}

func (s *Server) handleMarkProblematic() http.HandlerFunc {
	type request struct {
		Value bool `json:"value"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		card, err := s.study.MarkProblematic(r.PathValue("id"), req.Value)
		if err != nil {
			s.internalError(w, "pinning card", err)
			return
		}
		if card == nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, http.StatusOK, toView(*card))
	}
}

func (s *Server) handleRestore() http.HandlerFunc {
	type response struct {
		Restored []cardView `json:"restored"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		restored, err := s.study.RestoreAllDiscarded(r.URL.Query().Get("deck"))
		if err != nil {
			s.internalError(w, "restoring cards", err)
			return
		}
		writeJSON(w, http.StatusOK, response{Restored: toViews(restored)})
	}
}

func (s *Server) handleRecordSession() http.HandlerFunc {
	type request struct {
		DeckID       string `json:"deckId"`
		CardsStudied int    `json:"cardsStudied"`
		Correct      int    `json:"correct"`
		Incorrect    int    `json:"incorrect"`
		TimeMinutes  int    `json:"timeMinutes"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}

		stats, err := s.study.RecordSession(domain.StudySession{
			DeckID:       req.DeckID,
			CardsStudied: req.CardsStudied,
			Correct:      req.Correct,
			Incorrect:    req.Incorrect,
			TimeMinutes:  req.TimeMinutes,
		})
		if err != nil {
			s.internalError(w, "recording session", err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func (s *Server) handleListSources() http.HandlerFunc {
	type sourceView struct {
		ID          int64      `json:"id"`
		Path        string     `json:"path"`
		Type        string     `json:"type"`
		DeckID      string     `json:"deckId"`
		LastScanned *time.Time `json:"lastScanned,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sources, err := s.db.GetAllSources()
		if err != nil {
			s.internalError(w, "listing sources", err)
			return
		}
		views := make([]sourceView, 0, len(sources))
		for _, src := range sources {
			view := sourceView{ID: src.ID, Path: src.Path, Type: src.Type, DeckID: src.DeckID}
			if src.LastScanned.Valid {
				scanned := src.LastScanned.Time
				view.LastScanned = &scanned
			}
			views = append(views, view)
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func (s *Server) handleDeleteSource() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid source ID", http.StatusBadRequest)
			return
		}
		if err := s.db.DeleteSource(id); err != nil {
			s.internalError(w, "deleting source", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSync triggers a manual source sync in the foreground.
func (s *Server) handleSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := appsync.RunSync(s.db, time.Now()); err != nil {
			s.internalError(w, "syncing sources", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) internalError(w http.ResponseWriter, action string, err error) {
	slog.Error("request failed", "action", action, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

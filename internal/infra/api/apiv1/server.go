// Package apiv1 carries the versioned JSON API surface.
package apiv1

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"incentoro/internal/domain"
	"incentoro/internal/infra/api"
	red "incentoro/internal/infra/redis"
	"incentoro/internal/usecase"
)

// Server holds the use cases behind /api/v1.
type Server struct {
	tools      *usecase.ToolUseCase
	ledger     usecase.LedgerUseCase
	clicks     usecase.ClickUseCase
	calculator *usecase.CalculatorUseCase
	limiter    *red.RateLimiter // nil disables click rate limiting
	log        *zerolog.Logger
}

func NewServer(
	tools *usecase.ToolUseCase,
	ledger usecase.LedgerUseCase,
	clicks usecase.ClickUseCase,
	calculator *usecase.CalculatorUseCase,
	limiter *red.RateLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{tools: tools, ledger: ledger, clicks: clicks, calculator: calculator, limiter: limiter, log: logger}
}

// Register mounts the v1 routes on the router.
func Register(r chi.Router, s *Server) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/tools", s.handleListTools)
		r.Post("/clicks", s.handleRecordClick)
		r.Get("/ledger", s.handleLedger)
		r.Post("/calculator/quote", s.handleQuote)
	})
}

// ---- wire types ----

// Money values cross the wire as strings rounded to 2dp; rounding happens
// only here, never in the ledger itself.

type Tool struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CashbackPercent string `json:"cashback_percent"`
	Price           string `json:"price"`
	Category        string `json:"category,omitempty"`
	Description     string `json:"description,omitempty"`
	ImageURL        string `json:"image_url,omitempty"`
}

type LedgerEntry struct {
	ID                   string     `json:"id"`
	ToolName             string     `json:"tool_name"`
	Amount               string     `json:"amount"`
	CreatedAt            time.Time  `json:"created_at"`
	Status               string     `json:"status"`
	Source               string     `json:"source"`
	ExpectedConfirmation *time.Time `json:"expected_confirmation,omitempty"`
}

type LedgerResponse struct {
	Entries      []LedgerEntry `json:"entries"`
	Total        string        `json:"total"`
	Pending      string        `json:"pending"`
	Withdrawable string        `json:"withdrawable"`
}

type ClickRequest struct {
	ToolID string `json:"tool_id"`
}

type ClickResponse struct {
	URL string `json:"url"`
}

type QuoteRequest struct {
	Amount string `json:"amount"`
}

type QuoteResponse struct {
	Amount          string `json:"amount"`
	FreeRate        string `json:"free_rate"`
	PremiumRate     string `json:"premium_rate"`
	FreeCashback    string `json:"free_cashback"`
	PremiumCashback string `json:"premium_cashback"`
}

// ---- handlers ----

func (s *Server) handleListTools(w http.ResponseWriter, r *http.Request) {
	tools, err := s.tools.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	items := make([]Tool, 0, len(tools))
	for _, t := range tools {
		items = append(items, Tool{
			ID:              t.ID,
			Name:            t.Name,
			CashbackPercent: t.BaseCashbackPercent.StringFixed(2),
			Price:           t.Price.StringFixed(2),
			Category:        t.Category,
			Description:     t.Description,
			ImageURL:        t.ImageURL,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	id, _ := api.IdentityFrom(r.Context())

	var req ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ToolID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tool_id required"})
		return
	}

	if s.limiter != nil && id.UserID != "" {
		ok, err := s.limiter.Allow(r.Context(), red.ClickKey(id.UserID), 30, time.Minute)
		if err != nil {
			s.log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
		} else if !ok {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "too many clicks"})
			return
		}
	}

	res, err := s.clicks.RecordClick(r.Context(), id.UserID, id.Email, req.ToolID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ClickResponse{URL: res.OutboundURL})
}

func (s *Server) handleLedger(w http.ResponseWriter, r *http.Request) {
	id, _ := api.IdentityFrom(r.Context())

	history, err := s.ledger.History(r.Context(), id.UserID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	entries := make([]LedgerEntry, 0, len(history.Entries))
	for _, e := range history.Entries {
		entries = append(entries, LedgerEntry{
			ID:                   e.ID,
			ToolName:             e.ToolName,
			Amount:               e.Amount.StringFixed(2),
			CreatedAt:            e.CreatedAt,
			Status:               string(e.Status),
			Source:               string(e.Source),
			ExpectedConfirmation: e.ExpectedConfirmation,
		})
	}
	writeJSON(w, http.StatusOK, LedgerResponse{
		Entries:      entries,
		Total:        history.Summary.Total.StringFixed(2),
		Pending:      history.Summary.Pending.StringFixed(2),
		Withdrawable: history.Summary.Withdrawable.StringFixed(2),
	})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}

	q, err := s.calculator.Quote(amount)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuoteResponse{
		Amount:          q.Amount.StringFixed(2),
		FreeRate:        q.FreeRate.StringFixed(2),
		PremiumRate:     q.PremiumRate.StringFixed(2),
		FreeCashback:    q.FreeCashback.StringFixed(2),
		PremiumCashback: q.PremiumCashback.StringFixed(2),
	})
}

// ---- helpers ----

func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		api.Unauthorized(w)
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, domain.ErrInvalidArgument):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "invalid argument"})
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

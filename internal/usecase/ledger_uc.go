// File: internal/usecase/ledger_uc.go
package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/policy"
	"incentoro/internal/domain/ports/repository"
)

// LedgerEntry is a normalized, status-tagged cashback record as consumed by
// every view. ExpectedConfirmation is set only while the entry is pending;
// a confirmed entry carries nil ("already confirmed").
type LedgerEntry struct {
	ID                   string
	ToolName             string
	Amount               decimal.Decimal
	CreatedAt            time.Time
	Status               model.EntryStatus
	Source               model.EntrySource
	ExpectedConfirmation *time.Time
}

// LedgerSummary holds the derived aggregates. They are recomputed from the
// entry set on every query and never stored; Total == Pending + Withdrawable
// holds for any input.
type LedgerSummary struct {
	Total        decimal.Decimal
	Pending      decimal.Decimal
	Withdrawable decimal.Decimal
}

type LedgerHistory struct {
	Entries []LedgerEntry
	Summary LedgerSummary
}

// LedgerUseCase classifies and aggregates a user's cashback entries. It is
// the sole source of aggregate figures; views render its output instead of
// recomputing sums locally.
type LedgerUseCase interface {
	History(ctx context.Context, userID string) (*LedgerHistory, error)
}

var _ LedgerUseCase = (*ledgerUC)(nil)

type ledgerUC struct {
	entries   repository.EntryRepository
	purchases repository.PurchaseRepository
	tools     repository.ToolRepository
	window    *policy.CookieWindow
	platform  string
	log       *zerolog.Logger
}

func NewLedgerUseCase(
	entries repository.EntryRepository,
	purchases repository.PurchaseRepository,
	tools repository.ToolRepository,
	window *policy.CookieWindow,
	logger *zerolog.Logger,
) *ledgerUC {
	l := logger.With().Str("component", "LedgerUC").Logger()
	return &ledgerUC{
		entries:   entries,
		purchases: purchases,
		tools:     tools,
		window:    window,
		platform:  "partnerstack",
		log:       &l,
	}
}

// History fetches internal transactions and mirrored network purchases
// concurrently, blocks at the merge point, and returns the normalized
// sequence sorted by CreatedAt descending (stable on ties).
//
// Store failures on this read path surface to the caller as retryable
// errors; there is no implicit retry here.
func (uc *ledgerUC) History(ctx context.Context, userID string) (*LedgerHistory, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	var (
		internal []*model.CashbackEntry
		external []*model.ExternalPurchase
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		internal, err = uc.entries.ListByUser(gctx, repository.NoTX, userID)
		return err
	})
	g.Go(func() error {
		var err error
		external, err = uc.purchases.ListByUser(gctx, repository.NoTX, userID, uc.platform)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]LedgerEntry, 0, len(internal)+len(external))
	for _, e := range internal {
		out = append(out, uc.normalizeInternal(ctx, e))
	}
	for _, p := range external {
		out = append(out, uc.normalizeExternal(ctx, p))
	}

	// Most recent first; SliceStable keeps input order on equal timestamps.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	h := &LedgerHistory{Entries: out}
	for _, e := range out {
		h.Summary.Total = h.Summary.Total.Add(e.Amount)
		switch e.Status {
		case model.EntryStatusCompleted:
			h.Summary.Withdrawable = h.Summary.Withdrawable.Add(e.Amount)
		default:
			h.Summary.Pending = h.Summary.Pending.Add(e.Amount)
		}
	}
	return h, nil
}

func (uc *ledgerUC) normalizeInternal(ctx context.Context, e *model.CashbackEntry) LedgerEntry {
	le := LedgerEntry{
		ID:        e.ID,
		ToolName:  uc.resolveToolName(ctx, e.ToolID, e.ToolName),
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
		Status:    e.Status,
		Source:    e.Source,
	}
	if e.Status == model.EntryStatusPending {
		mature := e.CookiePeriodEnd
		if mature.IsZero() {
			mature = uc.window.MatureAt(e.CreatedAt, e.ToolID)
		}
		le.ExpectedConfirmation = &mature
	}
	return le
}

func (uc *ledgerUC) normalizeExternal(ctx context.Context, p *model.ExternalPurchase) LedgerEntry {
	status := model.NormalizeExternalStatus(p.ExternalStatus)
	le := LedgerEntry{
		ID:        p.ID,
		ToolName:  uc.resolveToolName(ctx, p.ToolID, ""),
		Amount:    p.CashbackAmount,
		CreatedAt: p.CreatedAt,
		Status:    status,
		Source:    model.EntrySourcePartnerStack,
	}
	if status == model.EntryStatusPending {
		mature := uc.window.MatureAt(p.CreatedAt, p.ToolID)
		le.ExpectedConfirmation = &mature
	}
	return le
}

// resolveToolName substitutes the explicit sentinel when the backing tool
// record is absent. Missing-relation is an expected case, never an error.
func (uc *ledgerUC) resolveToolName(ctx context.Context, toolID, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if toolID == "" {
		return model.UnknownToolName
	}
	tool, err := uc.tools.FindByID(ctx, repository.NoTX, toolID)
	if err != nil || tool.IsZero() {
		if err != nil && err != domain.ErrNotFound {
			uc.log.Warn().Err(err).Str("tool_id", toolID).Msg("tool lookup failed; using sentinel")
		}
		return model.UnknownToolName
	}
	return tool.Name
}

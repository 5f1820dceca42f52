// File: internal/usecase/click_uc.go
package usecase

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"incentoro/internal/domain"
	"incentoro/internal/domain/model"
	"incentoro/internal/domain/policy"
	"incentoro/internal/domain/ports/adapter"
	"incentoro/internal/domain/ports/repository"
	"incentoro/internal/infra/metrics"
)

// ClickResult is what the caller needs to complete the outbound navigation.
type ClickResult struct {
	OutboundURL string
	Entry       *model.CashbackEntry
}

// ClickUseCase records a click-through on a tool's affiliate link.
//
// The click log, the pending entry, and the tracking email are best-effort
// relative to the outbound URL: each failure is logged and counted, none may
// delay or block the navigation.
type ClickUseCase interface {
	RecordClick(ctx context.Context, userID, email, toolID string) (*ClickResult, error)
}

var _ ClickUseCase = (*clickUC)(nil)

type clickUC struct {
	tools   repository.ToolRepository
	clicks  repository.ClickRepository
	entries repository.EntryRepository
	subs    repository.SubscriptionRepository
	mailer  adapter.Mailer
	window  *policy.CookieWindow
	log     *zerolog.Logger

	notifyTimeout time.Duration
	now           func() time.Time
	notifyDone    chan struct{} // closed hook for tests; nil in production
}

func NewClickUseCase(
	tools repository.ToolRepository,
	clicks repository.ClickRepository,
	entries repository.EntryRepository,
	subs repository.SubscriptionRepository,
	mailer adapter.Mailer,
	window *policy.CookieWindow,
	logger *zerolog.Logger,
) *clickUC {
	l := logger.With().Str("component", "ClickUC").Logger()
	return &clickUC{
		tools:         tools,
		clicks:        clicks,
		entries:       entries,
		subs:          subs,
		mailer:        mailer,
		window:        window,
		log:           &l,
		notifyTimeout: 5 * time.Second,
		now:           time.Now,
	}
}

// RecordClick requires an authenticated user: an empty userID is a
// precondition failure routed back to the sign-in flow, not an exception.
// Only a missing tool aborts the flow; everything after the lookup is
// fire-and-forget relative to the returned URL.
func (uc *clickUC) RecordClick(ctx context.Context, userID, email, toolID string) (*ClickResult, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}

	tool, err := uc.tools.FindByID(ctx, repository.NoTX, toolID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	plan := uc.currentPlan(ctx, userID)
	rate := policy.EffectiveRate(tool.BaseCashbackPercent, plan)
	amount := policy.CashbackAmount(tool.Price, rate)

	entry, err := model.NewCashbackEntry(
		ulid.Make().String(), userID, tool.ID, tool.Name,
		amount, now, uc.window.ResolveDays(tool.ID),
	)
	if err != nil {
		return nil, err
	}
	if err := uc.entries.Save(ctx, repository.NoTX, entry); err != nil {
		// A lost pending entry is recovered by the network sync; the
		// user-facing flow continues.
		uc.log.Error().Err(err).Str("user_id", userID).Str("tool_id", tool.ID).Msg("pending entry write failed")
		entry = nil
	}

	click, err := model.NewClickLog(ulid.Make().String(), userID, tool.ID, tool.Name, tool.BaseURL, now)
	if err == nil {
		err = uc.clicks.Save(ctx, repository.NoTX, click)
	}
	if err != nil {
		metrics.IncClickLogFailure()
		uc.log.Warn().Err(err).Str("user_id", userID).Str("tool_id", tool.ID).Msg("click log write failed")
	}
	metrics.IncClick(tool.ID)

	uc.notifyAsync(email, tool.Name)

	return &ClickResult{OutboundURL: tool.BaseURL, Entry: entry}, nil
}

func (uc *clickUC) currentPlan(ctx context.Context, userID string) model.PlanType {
	sub, err := uc.subs.FindActiveByUser(ctx, repository.NoTX, userID)
	if err != nil || sub == nil || !sub.IsActive(uc.now()) {
		if err != nil && err != domain.ErrNotFound {
			uc.log.Warn().Err(err).Str("user_id", userID).Msg("plan lookup failed; assuming free")
		}
		return model.PlanFree
	}
	return sub.PlanType
}

// notifyAsync sends the tracking-started email off the critical path. The
// goroutine gets its own deadline so an abandoned request context cannot
// cancel the send mid-flight.
func (uc *clickUC) notifyAsync(email, toolName string) {
	if email == "" {
		return
	}
	go func() {
		defer func() {
			if uc.notifyDone != nil {
				close(uc.notifyDone)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), uc.notifyTimeout)
		defer cancel()
		if err := uc.mailer.SendClickTracking(ctx, email, toolName); err != nil {
			metrics.IncEmail("click_tracking", "error")
			uc.log.Warn().Err(err).Str("tool", toolName).Msg("click tracking email failed")
			return
		}
		metrics.IncEmail("click_tracking", "ok")
	}()
}

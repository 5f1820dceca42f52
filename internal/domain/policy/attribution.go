// Package policy holds the pure cashback rules: attribution windows and plan
// rate modifiers. Every consumer (click recording, ledger reads, confirmation
// worker) shares the same instances; the tables are defined exactly once.
package policy

import "time"

// DefaultCookiePeriodDays is the attribution window applied to any tool
// without an explicit override.
const DefaultCookiePeriodDays = 30

// CookieWindow resolves how many days a tool's cashback claim stays pending
// before it is eligible for confirmation. Lookups are total: unknown tools
// fall back to the default, never an error.
//
// Overrides are keyed by the stable tool ID. Display names are fragile to
// renames, so name-based lookups go through an explicit legacy name -> ID
// migration map kept only for rows recorded before tool IDs existed.
type CookieWindow struct {
	overrides map[string]int
	nameToID  map[string]string
}

// NewCookieWindow copies the given tables. Nil maps are fine.
func NewCookieWindow(overrides map[string]int, nameToID map[string]string) *CookieWindow {
	w := &CookieWindow{
		overrides: make(map[string]int, len(overrides)),
		nameToID:  make(map[string]string, len(nameToID)),
	}
	for id, days := range overrides {
		if days > 0 {
			w.overrides[id] = days
		}
	}
	for name, id := range nameToID {
		w.nameToID[name] = id
	}
	return w
}

// DefaultCookieWindow returns the shipped override table.
func DefaultCookieWindow() *CookieWindow {
	return NewCookieWindow(
		map[string]int{
			"koala-ai": 60,
			"frase":    60,
			"murf-ai":  90,
		},
		map[string]string{
			"Koala AI": "koala-ai",
			"Frase":    "frase",
			"Murf AI":  "murf-ai",
		},
	)
}

// ResolveDays returns the attribution window for a tool ID.
func (w *CookieWindow) ResolveDays(toolID string) int {
	if days, ok := w.overrides[toolID]; ok {
		return days
	}
	return DefaultCookiePeriodDays
}

// ResolveDaysByName resolves via the legacy display-name mapping. The match
// is exact (case- and form-sensitive); unmapped names get the default.
func (w *CookieWindow) ResolveDaysByName(name string) int {
	if id, ok := w.nameToID[name]; ok {
		return w.ResolveDays(id)
	}
	return DefaultCookiePeriodDays
}

// MatureAt computes the maturity timestamp for a claim created at createdAt.
// Deterministic in its inputs; never consults the clock.
func (w *CookieWindow) MatureAt(createdAt time.Time, toolID string) time.Time {
	return createdAt.AddDate(0, 0, w.ResolveDays(toolID))
}

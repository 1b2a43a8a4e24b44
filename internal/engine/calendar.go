package engine

import (
	"strings"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

type calendarKey struct {
	Market string
	Date   string
}

// Calendar is an immutable per-request lookup over demand-affecting events.
// It is built once from the caller's event snapshot and never mutated, so a
// forecast over the same snapshot always sees the same multipliers.
type Calendar struct {
	byKey map[calendarKey][]domain.CalendarEvent
}

// NewCalendar indexes an event snapshot by market and day.
func NewCalendar(events []domain.CalendarEvent) *Calendar {
	c := &Calendar{byKey: make(map[calendarKey][]domain.CalendarEvent, len(events))}
	for _, e := range events {
		key := calendarKey{
			Market: normalizeMarket(e.Market),
			Date:   e.Date.UTC().Format("2006-01-02"),
		}
		c.byKey[key] = append(c.byKey[key], e)
	}
	return c
}

// Multiplier returns the combined demand multiplier for a date, market and
// product category. Days without an applicable event yield 1.0. When several
// events apply, their multipliers compound.
func (c *Calendar) Multiplier(date time.Time, market, category string) float64 {
	if c == nil || len(c.byKey) == 0 {
		return 1.0
	}

	key := calendarKey{
		Market: normalizeMarket(market),
		Date:   date.UTC().Format("2006-01-02"),
	}

	multiplier := 1.0
	for _, e := range c.byKey[key] {
		if e.DemandMultiplier <= 0 {
			continue
		}
		if !eventCoversCategory(e, category) {
			continue
		}
		multiplier *= e.DemandMultiplier
	}

	return multiplier
}

// Events returns the indexed events for a market and day, for inspection
// endpoints. The returned slice must not be mutated.
func (c *Calendar) Events(date time.Time, market string) []domain.CalendarEvent {
	if c == nil {
		return nil
	}
	key := calendarKey{
		Market: normalizeMarket(market),
		Date:   date.UTC().Format("2006-01-02"),
	}
	return c.byKey[key]
}

func eventCoversCategory(e domain.CalendarEvent, category string) bool {
	if len(e.AffectedCategories) == 0 {
		return true
	}
	for _, c := range e.AffectedCategories {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(category)) {
			return true
		}
	}
	return false
}

func normalizeMarket(market string) string {
	return strings.ToLower(strings.TrimSpace(market))
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/lib/pq"
)

type calendarRepository struct {
	db *DB
}

func NewCalendarRepository(db *DB) *calendarRepository {
	return &calendarRepository{db: db}
}

// GetEvents returns the demand-affecting events of a market between from and
// to inclusive. Affected categories are stored as a text array; an empty array
// means the event covers the whole catalog.
func (r *calendarRepository) GetEvents(ctx context.Context, market string, from, to time.Time) ([]domain.CalendarEvent, error) {
	query := `
		SELECT name, event_type, date, market, impact_level, demand_multiplier, affected_categories
		FROM calendar_events
		WHERE LOWER(market) = LOWER($1) AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, market, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar events: %w", err)
	}
	defer rows.Close()

	var events []domain.CalendarEvent
	for rows.Next() {
		var e domain.CalendarEvent
		var categories pq.StringArray
		if err := rows.Scan(&e.Name, &e.EventType, &e.Date, &e.Market, &e.ImpactLevel, &e.DemandMultiplier, &categories); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		e.AffectedCategories = []string(categories)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read calendar events: %w", err)
	}

	return events, nil
}

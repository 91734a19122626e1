package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/BanhTheCake/getnokori/internal/mail/domain"
)

// GetSendsStats produces a dense daily series of send counts for one event
// status between from and to inclusive. Days without matching rows stay at
// zero; an empty query result is a valid all-zero series, not an error.
func (s *service) GetSendsStats(ctx context.Context, accountID uuid.UUID, event, from, to string) ([]domain.StatPoint, error) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	fromDate, toDate := today.AddDate(0, 0, -8), today.AddDate(0, 0, -1)
	var err error
	if from != "" {
		if fromDate, err = time.Parse(dateLayout, from); err != nil {
			return nil, domain.Validation("invalid from date")
		}
	}
	if to != "" {
		if toDate, err = time.Parse(dateLayout, to); err != nil {
			return nil, domain.Validation("invalid to date")
		}
	}
	if toDate.Before(fromDate) {
		return nil, domain.Validation("from must not be after to")
	}
	if event == "" {
		event = domain.StatusDelivered
	}

	series, index := emptyTrend(fromDate, toDate)

	rows, err := s.repo.SendStatsByDay(ctx, accountID, event, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if i, ok := index[row.Date.Time.UTC().Format(dateLayout)]; ok {
			series[i].Count = row.Count
		}
	}
	return series, nil
}

// emptyTrend builds the zero-filled daily skeleton for [from, to] inclusive,
// in chronological order, plus a date-key index for the sparse merge.
func emptyTrend(from, to time.Time) ([]domain.StatPoint, map[string]int) {
	days := int(to.Sub(from).Hours()/24) + 1
	series := make([]domain.StatPoint, 0, days)
	index := make(map[string]int, days)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		index[key] = len(series)
		series = append(series, domain.StatPoint{Date: key})
	}
	return series, index
}

package analytics

import (
	"fmt"
	"strings"
	"time"

	"persona-chatter/internal/storage"
)

// DailyStats summarizes one persona's exchanges for a single day.
type DailyStats struct {
	Date          string     `json:"date"`
	Persona       string     `json:"persona"`
	Exchanges     int        `json:"exchanges"`
	TotalAllTime  int        `json:"total_all_time"`
	UserChars     int        `json:"user_chars"`
	BotChars      int        `json:"bot_chars"`
	AvgReplyChars float64    `json:"avg_reply_chars"`
	FirstAt       *time.Time `json:"first_at,omitempty"`
	LastAt        *time.Time `json:"last_at,omitempty"`
}

// AnalyzeDay counts the exchanges whose timestamp falls on targetDate,
// evaluated in targetDate's location.
func AnalyzeDay(persona string, exchanges []storage.Exchange, targetDate time.Time) *DailyStats {
	startOfDay := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(), 0, 0, 0, 0, targetDate.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	stats := &DailyStats{
		Date:         startOfDay.Format("2006-01-02"),
		Persona:      persona,
		TotalAllTime: len(exchanges),
	}

	for _, ex := range exchanges {
		if ex.Timestamp.Before(startOfDay) || !ex.Timestamp.Before(endOfDay) {
			continue
		}
		stats.Exchanges++
		stats.UserChars += len([]rune(ex.User))
		stats.BotChars += len([]rune(ex.Bot))

		ts := ex.Timestamp
		if stats.FirstAt == nil || ts.Before(*stats.FirstAt) {
			stats.FirstAt = &ts
		}
		if stats.LastAt == nil || ts.After(*stats.LastAt) {
			stats.LastAt = &ts
		}
	}

	if stats.Exchanges > 0 {
		stats.AvgReplyChars = float64(stats.BotChars) / float64(stats.Exchanges)
	}
	return stats
}

// Summary renders stats as a single human readable line for logs.
func (ds *DailyStats) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s on %s: %d exchanges (%d all time)", ds.Persona, ds.Date, ds.Exchanges, ds.TotalAllTime)
	if ds.Exchanges > 0 {
		fmt.Fprintf(&b, ", avg reply %.0f chars, active %s-%s",
			ds.AvgReplyChars, ds.FirstAt.Format("15:04"), ds.LastAt.Format("15:04"))
	}
	return b.String()
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// Granularity selects how many weeks fold into one report bucket.
type Granularity string

const (
	GranularityWeekly   Granularity = "weekly"
	GranularityBiweekly Granularity = "biweekly"
	GranularityMonthly  Granularity = "monthly"
)

var granularityAliases = map[string]Granularity{
	"weekly":    GranularityWeekly,
	"semanal":   GranularityWeekly,
	"biweekly":  GranularityBiweekly,
	"quincenal": GranularityBiweekly,
	"monthly":   GranularityMonthly,
	"mensual":   GranularityMonthly,
}

// ParseGranularity accepts English and legacy Spanish names; empty means weekly.
func ParseGranularity(raw string) (Granularity, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return GranularityWeekly, nil
	}
	if g, ok := granularityAliases[key]; ok {
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q", raw)
}

// BucketSize returns the number of weeks per bucket.
func (g Granularity) BucketSize() int {
	switch g {
	case GranularityBiweekly:
		return 2
	case GranularityMonthly:
		return 4
	default:
		return 1
	}
}

// WeeklyCount is the number of sessions per category held in one calendar week.
type WeeklyCount struct {
	WeekNumber int              `json:"week_number"`
	Counts     map[Category]int `json:"counts"`
}

// WeeklyCountRow is the flat form of a WeeklyCount as returned by SQL grouping.
// WeekStart is the Monday of the calendar week.
type WeeklyCountRow struct {
	WeekStart time.Time `db:"week_start"`
	Category  Category  `db:"category"`
	Total     int       `db:"total"`
}

// ReportBucket is one aggregated range of weeks ready for charting.
type ReportBucket struct {
	Label     string           `json:"label"`
	StartWeek int              `json:"start_week"`
	EndWeek   int              `json:"end_week"`
	Counts    map[Category]int `json:"counts"`
}

// ReportQuery scopes a session report.
type ReportQuery struct {
	GroupID     string
	RangeStart  int
	RangeEnd    int
	Granularity Granularity
	Categories  []Category
}

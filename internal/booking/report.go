package booking

import (
	"fmt"
	"sort"
	"time"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

// Aggregate folds per-week session counts inside [rangeStart, rangeEnd] into buckets of
// the requested granularity. Counts are summed per category and every visible category is
// present in every bucket, zero when no session matched. When categories is empty all
// known categories are visible. Buckets are ordered by starting week.
func Aggregate(counts []models.WeeklyCount, rangeStart, rangeEnd int, granularity models.Granularity, categories ...models.Category) []models.ReportBucket {
	if rangeEnd < rangeStart {
		return []models.ReportBucket{}
	}
	visible := categories
	if len(visible) == 0 {
		visible = models.Categories
	}
	size := granularity.BucketSize()

	buckets := make(map[int]*models.ReportBucket)
	for _, week := range counts {
		if week.WeekNumber < rangeStart || week.WeekNumber > rangeEnd {
			continue
		}
		idx := (week.WeekNumber - rangeStart) / size
		bucket, ok := buckets[idx]
		if !ok {
			bucket = newBucket(idx, rangeStart, rangeEnd, size, visible)
			buckets[idx] = bucket
		}
		for _, category := range visible {
			if n := week.Counts[category]; n > 0 {
				bucket.Counts[category] += n
			}
		}
	}

	indexes := make([]int, 0, len(buckets))
	for idx := range buckets {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)

	result := make([]models.ReportBucket, 0, len(indexes))
	for _, idx := range indexes {
		result = append(result, *buckets[idx])
	}
	return result
}

func newBucket(idx, rangeStart, rangeEnd, size int, categories []models.Category) *models.ReportBucket {
	first := rangeStart + idx*size
	last := first + size - 1
	if last > rangeEnd {
		last = rangeEnd
	}
	label := fmt.Sprintf("Week %d", first)
	if size > 1 {
		label = fmt.Sprintf("Sem %d-%d", first, last)
	}
	zeroed := make(map[models.Category]int, len(categories))
	for _, category := range categories {
		zeroed[category] = 0
	}
	return &models.ReportBucket{Label: label, StartWeek: first, EndWeek: last, Counts: zeroed}
}

// WeeklyCountsFromRows pivots flat (week start, category, total) rows into one WeeklyCount
// per calendar week with every known category zero-filled. Week numbers count from 1 at the
// earliest week present, so weeks from different years never share a number.
func WeeklyCountsFromRows(rows []models.WeeklyCountRow) []models.WeeklyCount {
	if len(rows) == 0 {
		return []models.WeeklyCount{}
	}
	first := weekStart(rows[0].WeekStart)
	for _, row := range rows[1:] {
		if start := weekStart(row.WeekStart); start.Before(first) {
			first = start
		}
	}

	byWeek := make(map[int]map[models.Category]int)
	for _, row := range rows {
		week := weeksBetween(first, weekStart(row.WeekStart)) + 1
		counts, ok := byWeek[week]
		if !ok {
			counts = make(map[models.Category]int, len(models.Categories))
			for _, category := range models.Categories {
				counts[category] = 0
			}
			byWeek[week] = counts
		}
		if row.Total > 0 {
			counts[row.Category] += row.Total
		}
	}
	weeks := make([]int, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Ints(weeks)
	result := make([]models.WeeklyCount, 0, len(weeks))
	for _, week := range weeks {
		result = append(result, models.WeeklyCount{WeekNumber: week, Counts: byWeek[week]})
	}
	return result
}

// weekStart normalises t to the Monday of its week at UTC midnight.
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func weeksBetween(from, to time.Time) int {
	days := int(to.Sub(from).Round(24*time.Hour) / (24 * time.Hour))
	return days / 7
}

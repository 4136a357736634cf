package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-tutoring-api/internal/models"
)

func generalWeeks(start int, values ...int) []models.WeeklyCount {
	weeks := make([]models.WeeklyCount, 0, len(values))
	for i, v := range values {
		weeks = append(weeks, models.WeeklyCount{
			WeekNumber: start + i,
			Counts:     map[models.Category]int{models.CategoryGeneral: v},
		})
	}
	return weeks
}

func TestAggregateBiweekly(t *testing.T) {
	buckets := Aggregate(generalWeeks(1, 2, 0, 3, 1), 1, 4, models.GranularityBiweekly)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Sem 1-2", buckets[0].Label)
	assert.Equal(t, 2, buckets[0].Counts[models.CategoryGeneral])
	assert.Equal(t, "Sem 3-4", buckets[1].Label)
	assert.Equal(t, 4, buckets[1].Counts[models.CategoryGeneral])
}

func TestAggregateWeeklyLabelsAndZeroFill(t *testing.T) {
	buckets := Aggregate(generalWeeks(5, 1, 2), 1, 10, models.GranularityWeekly)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Week 5", buckets[0].Label)
	assert.Equal(t, "Week 6", buckets[1].Label)
	for _, bucket := range buckets {
		assert.Len(t, bucket.Counts, len(models.Categories))
		for _, category := range models.Categories {
			_, ok := bucket.Counts[category]
			assert.True(t, ok, category)
		}
	}
}

func TestAggregateMonthlyClampsLastLabel(t *testing.T) {
	buckets := Aggregate(generalWeeks(1, 1, 1, 1, 1, 1, 1), 1, 6, models.GranularityMonthly)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Sem 1-4", buckets[0].Label)
	assert.Equal(t, 4, buckets[0].Counts[models.CategoryGeneral])
	assert.Equal(t, "Sem 5-6", buckets[1].Label)
	assert.Equal(t, 6, buckets[1].EndWeek)
	assert.Equal(t, 2, buckets[1].Counts[models.CategoryGeneral])
}

func TestAggregateSortsSparseInput(t *testing.T) {
	counts := []models.WeeklyCount{
		{WeekNumber: 9, Counts: map[models.Category]int{models.CategoryCounseling: 1}},
		{WeekNumber: 2, Counts: map[models.Category]int{models.CategoryCounseling: 3}},
		{WeekNumber: 5, Counts: map[models.Category]int{models.CategoryCounseling: 2}},
	}

	buckets := Aggregate(counts, 1, 12, models.GranularityBiweekly)
	require.Len(t, buckets, 3)
	assert.Equal(t, []string{"Sem 1-2", "Sem 5-6", "Sem 9-10"}, []string{buckets[0].Label, buckets[1].Label, buckets[2].Label})
}

func TestAggregatePreservesSumsAndIsIdempotent(t *testing.T) {
	counts := []models.WeeklyCount{
		{WeekNumber: 1, Counts: map[models.Category]int{models.CategoryGeneral: 1, models.CategoryFollowUp: 2}},
		{WeekNumber: 2, Counts: map[models.Category]int{models.CategoryCounseling: 4}},
		{WeekNumber: 3, Counts: map[models.Category]int{models.CategoryGeneral: 5}},
		{WeekNumber: 4, Counts: map[models.Category]int{models.CategoryTutorChange: 1}},
		{WeekNumber: 5, Counts: map[models.Category]int{models.CategoryGeneral: 7, models.CategoryAcademicIssue: 2}},
		{WeekNumber: 6, Counts: map[models.Category]int{models.CategoryPersonalIssue: 3}},
		{WeekNumber: 7, Counts: map[models.Category]int{models.CategoryGeneral: 9}},
	}

	for _, g := range []models.Granularity{models.GranularityWeekly, models.GranularityBiweekly, models.GranularityMonthly} {
		for _, r := range [][2]int{{1, 7}, {2, 6}, {3, 3}, {0, 20}} {
			buckets := Aggregate(counts, r[0], r[1], g)
			assert.Equal(t, buckets, Aggregate(counts, r[0], r[1], g))

			for _, category := range models.Categories {
				want := 0
				for _, week := range counts {
					if week.WeekNumber >= r[0] && week.WeekNumber <= r[1] {
						want += week.Counts[category]
					}
				}
				got := 0
				for _, bucket := range buckets {
					got += bucket.Counts[category]
				}
				assert.Equal(t, want, got, "%s %v %s", g, r, category)
			}
		}
	}
}

func TestAggregateVisibleCategories(t *testing.T) {
	counts := []models.WeeklyCount{
		{WeekNumber: 1, Counts: map[models.Category]int{models.CategoryGeneral: 1, models.CategoryCounseling: 2}},
	}

	buckets := Aggregate(counts, 1, 1, models.GranularityWeekly, models.CategoryCounseling)
	require.Len(t, buckets, 1)
	assert.Equal(t, map[models.Category]int{models.CategoryCounseling: 2}, buckets[0].Counts)
}

func TestAggregateEmptyRange(t *testing.T) {
	assert.Empty(t, Aggregate(generalWeeks(1, 1, 2), 5, 2, models.GranularityWeekly))
	assert.Empty(t, Aggregate(nil, 1, 4, models.GranularityMonthly))
}

func TestWeeklyCountsFromRows(t *testing.T) {
	monday := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
	rows := []models.WeeklyCountRow{
		{WeekStart: monday.AddDate(0, 0, 14), Category: models.CategoryGeneral, Total: 2},
		{WeekStart: monday, Category: models.CategoryCounseling, Total: 1},
		{WeekStart: monday.AddDate(0, 0, 16), Category: models.CategoryFollowUp, Total: 4},
	}

	weeks := WeeklyCountsFromRows(rows)
	require.Len(t, weeks, 2)
	assert.Equal(t, 1, weeks[0].WeekNumber)
	assert.Equal(t, 0, weeks[0].Counts[models.CategoryGeneral])
	assert.Len(t, weeks[0].Counts, len(models.Categories))
	assert.Equal(t, 3, weeks[1].WeekNumber)
	assert.Equal(t, 2, weeks[1].Counts[models.CategoryGeneral])
	assert.Equal(t, 4, weeks[1].Counts[models.CategoryFollowUp])

	assert.Empty(t, WeeklyCountsFromRows(nil))
}

func TestWeeklyCountsFromRowsAcrossYears(t *testing.T) {
	rows := []models.WeeklyCountRow{
		{WeekStart: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC), Category: models.CategoryGeneral, Total: 1},
		{WeekStart: time.Date(2025, time.December, 29, 0, 0, 0, 0, time.UTC), Category: models.CategoryGeneral, Total: 5},
		{WeekStart: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), Category: models.CategoryGeneral, Total: 2},
	}

	weeks := WeeklyCountsFromRows(rows)
	require.Len(t, weeks, 3)
	assert.Equal(t, []int{1, 52, 53}, []int{weeks[0].WeekNumber, weeks[1].WeekNumber, weeks[2].WeekNumber})
	assert.Equal(t, 1, weeks[0].Counts[models.CategoryGeneral])
	assert.Equal(t, 2, weeks[2].Counts[models.CategoryGeneral])
}

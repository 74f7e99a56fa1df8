package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// TimeBucket is a coarse cooking-time range.
type TimeBucket string

const (
	TimeAll    TimeBucket = "All"
	TimeQuick  TimeBucket = "Quick"  // up to 30 minutes
	TimeMedium TimeBucket = "Medium" // 30 to 60 minutes
	TimeLong   TimeBucket = "Long"   // over an hour
)

// Labels of the cooking-time dropdown, keyed by bucket.
var timeLabels = map[TimeBucket]string{
	TimeAll:    "All",
	TimeQuick:  "Quick (< 30 mins)",
	TimeMedium: "Medium (30-60 mins)",
	TimeLong:   "Long (> 60 mins)",
}

// TimeBuckets lists the dropdown options in display order.
func TimeBuckets() []TimeBucket {
	return []TimeBucket{TimeAll, TimeQuick, TimeMedium, TimeLong}
}

// Label returns the dropdown text for b.
func (b TimeBucket) Label() string {
	return timeLabels[b]
}

// ParseTimeBucket accepts a bucket name or its dropdown label, case-insensitively.
// The empty string means TimeAll.
func ParseTimeBucket(s string) (TimeBucket, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeAll, nil
	}
	for _, b := range TimeBuckets() {
		if strings.EqualFold(s, string(b)) || strings.EqualFold(s, b.Label()) {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown cooking time filter %q", s)
}

// Matches reports whether a free-text duration such as "45 minutes" or "1 hour"
// falls in b. Only the leading integer and the presence of "minutes" or "hour"
// are considered, so "2 hours 30 minutes" counts as both Quick and Long.
func (b TimeBucket) Matches(cookingTime string) bool {
	if b == TimeAll || b == "" {
		return true
	}
	fields := strings.Fields(cookingTime)
	if len(fields) == 0 {
		return false
	}
	value, err := strconv.Atoi(fields[0])
	if err != nil {
		return false
	}
	minutes := strings.Contains(cookingTime, "minutes")
	hour := strings.Contains(cookingTime, "hour")

	switch b {
	case TimeQuick:
		return minutes && value <= 30
	case TimeMedium:
		return (hour && value == 1) || (minutes && value > 30 && value <= 60)
	case TimeLong:
		return hour && value > 1
	}
	return false
}

// Filter returns the recipes matching all three predicates, in their original order.
// An empty query matches every name; CuisineAll (or "") matches every cuisine.
func Filter(recipes []models.Recipe, query, cuisine string, bucket TimeBucket) []models.Recipe {
	query = strings.ToLower(query)
	out := []models.Recipe{}
	for _, r := range recipes {
		if query != "" && !strings.Contains(strings.ToLower(r.Name), query) {
			continue
		}
		if cuisine != "" && cuisine != CuisineAll && r.Cuisine != cuisine {
			continue
		}
		if !bucket.Matches(r.CookingTime) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterCategory narrows recipes to a quick-filter category. The quick-meals
// category selects by cooking time rather than by the recipe's category field.
func FilterCategory(recipes []models.Recipe, category string) []models.Recipe {
	if category == "" {
		return recipes
	}
	out := []models.Recipe{}
	for _, r := range recipes {
		if category == CategoryQuickMeals {
			if TimeQuick.Matches(r.CookingTime) {
				out = append(out, r)
			}
			continue
		}
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

package assistant

import (
	"regexp"
	"strings"

	"github.com/isdelr/recipe-collection-be/internal/models"
)

// MaxRecommendations caps the number of parsed recipes.
const MaxRecommendations = 3

var (
	headingRe      = regexp.MustCompile(`^#{1,6}\s*(.*)$`)
	recipeHeaderRe = regexp.MustCompile(`(?i)^recipe\s*#?\s*\d+\s*[:.)\-–]*\s*(.*)$`)
	nameLineRe     = regexp.MustCompile(`(?i)^(?:\d+[.)]\s*)?(?:recipe\s+)?name\s*:\s*(.+)$`)
	ingredientsRe  = regexp.MustCompile(`(?i)^(?:\d+[.)]\s*)?(?:list of\s+)?ingredients\s*(?::\s*(.*))?$`)
	instructionsRe = regexp.MustCompile(`(?i)^(?:\d+[.)]\s*)?(?:step-by-step\s+)?(?:instructions|steps|directions|method)\s*(?::\s*(.*))?$`)
	timeRe         = regexp.MustCompile(`(?i)^(?:\d+[.)]\s*)?(?:estimated\s+)?(?:cooking|cook|total)\s+time\s*(?::\s*(.*))?$`)
	boldLineRe     = regexp.MustCompile(`^(?:\*\*|__)[^*_].*(?:\*\*|__):?$`)
	numberedRe     = regexp.MustCompile(`^\d+[.)]\s+\S`)
	titleNumberRe  = regexp.MustCompile(`^\d+[.)]\s+`)
	bulletRe       = regexp.MustCompile(`(?i)^(?:[-*•]\s+|\d+[.)]\s+|step\s*\d+\s*[:.)]\s*)`)
)

type section int

const (
	sectionNone section = iota
	sectionIngredients
	sectionInstructions
	sectionTime
)

// ParseRecommendations extracts up to MaxRecommendations recipes from free
// model output. Recipes start at "Recipe N: name" lines, markdown headings,
// fully bold lines or numbered lines outside a list; anything it cannot make
// sense of is skipped. Unusable text yields an empty list.
func ParseRecommendations(text string) []models.RecommendedRecipe {
	out := []models.RecommendedRecipe{}
	var cur *models.RecommendedRecipe
	sec := sectionNone

	flush := func() {
		if cur != nil && cur.Name != "" && (len(cur.Ingredients) > 0 || len(cur.Instructions) > 0) {
			out = append(out, *cur)
		}
		cur = nil
		sec = sectionNone
	}

	for _, raw := range strings.Split(text, "\n") {
		bold := boldLineRe.MatchString(strings.TrimSpace(raw))
		line := strings.TrimSpace(strings.NewReplacer("**", "", "__", "").Replace(raw))
		if line == "" {
			continue
		}

		heading := false
		if m := headingRe.FindStringSubmatch(line); m != nil {
			heading = true
			line = strings.TrimSpace(m[1])
		}

		if m := recipeHeaderRe.FindStringSubmatch(line); m != nil {
			flush()
			cur = &models.RecommendedRecipe{Name: cleanName(m[1])}
			continue
		}
		if m := nameLineRe.FindStringSubmatch(line); m != nil {
			if cur == nil || (cur.Name != "" && (len(cur.Ingredients) > 0 || len(cur.Instructions) > 0)) {
				flush()
				cur = &models.RecommendedRecipe{}
			}
			cur.Name = cleanName(m[1])
			continue
		}
		if m := ingredientsRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				sec = sectionIngredients
				if item := cleanItem(m[1]); item != "" {
					cur.Ingredients = append(cur.Ingredients, item)
				}
			}
			continue
		}
		if m := instructionsRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				sec = sectionInstructions
				if item := cleanItem(m[1]); item != "" {
					cur.Instructions = append(cur.Instructions, item)
				}
			}
			continue
		}
		if m := timeRe.FindStringSubmatch(line); m != nil {
			if cur != nil {
				sec = sectionTime
				if v := strings.TrimSpace(m[1]); v != "" {
					cur.CookingTime = v
					sec = sectionNone
				}
			}
			continue
		}
		// Numbered lines inside an ingredient or step list are items, not titles.
		if heading || bold || (sec == sectionNone && numberedRe.MatchString(line)) {
			flush()
			cur = &models.RecommendedRecipe{Name: cleanName(titleNumberRe.ReplaceAllString(line, ""))}
			continue
		}
		if cur == nil {
			continue
		}

		switch sec {
		case sectionIngredients:
			cur.Ingredients = append(cur.Ingredients, cleanItem(line))
		case sectionInstructions:
			cur.Instructions = append(cur.Instructions, cleanItem(line))
		case sectionTime:
			cur.CookingTime = cleanItem(line)
			sec = sectionNone
		}
	}
	flush()

	if len(out) > MaxRecommendations {
		out = out[:MaxRecommendations]
	}
	return out
}

func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	return strings.TrimSpace(bulletRe.ReplaceAllString(s, ""))
}

func cleanName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "*_:#\"")
	return strings.TrimSpace(s)
}

package shopping

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

// PlanSource loads the meal plans of a user overlapping [start, end], with recipes and their
// ingredients resolved. [repositories.MealPlanRepository] satisfies it.
type PlanSource interface {
	PlansInRange(ctx context.Context, userID string, start, end models.Date) ([]*models.MealPlan, error)
}

// SkippedIngredient is an ingredient whose quantity could not be parsed.
type SkippedIngredient struct {
	Recipe   string      // Name of the recipe the ingredient belongs to
	Date     models.Date // Date of the meal plan item that scheduled the recipe
	Name     string      // Ingredient name as written
	Quantity string      // Raw quantity text
}

// List is the result of a single aggregation.
type List struct {
	Items          []models.ShoppingItem // Aggregated lines sorted by name
	Skipped        []SkippedIngredient   // Ingredients that contributed no quantity
	MissingRecipes int                   // In-range items whose recipe no longer exists
}

// Aggregator builds shopping lists from a [PlanSource].
type Aggregator struct {
	plans PlanSource
}

// NewAggregator creates an [Aggregator] reading plans from src.
func NewAggregator(src PlanSource) *Aggregator {
	return &Aggregator{plans: src}
}

// mergeKey identifies one shopping list line.
type mergeKey struct {
	name string
	unit string
}

func keyOf(ing models.Ingredient) mergeKey {
	unit := ""
	if ing.Unit != nil {
		unit = *ing.Unit
	}
	return mergeKey{
		name: strings.ToLower(strings.TrimSpace(ing.Name)),
		unit: strings.ToLower(strings.TrimSpace(unit)),
	}
}

// entry accumulates one line while aggregating.
type entry struct {
	item      models.ShoppingItem
	originals []string
}

// Generate aggregates the ingredients of every meal plan item of userID dated within the inclusive
// range [start, end].
//
// Ingredients merge when their trimmed, lowercased name and unit match. The first occurrence decides
// the displayed name and unit. Quantities that are not plain decimal numbers add nothing and are
// reported in [List.Skipped], as are quantities that would push a total past the float64 range.
// Items whose recipe was deleted are counted in [List.MissingRecipes].
func (a *Aggregator) Generate(ctx context.Context, userID string, start, end models.Date) (*List, error) {
	if userID == "" {
		return nil, shared.ErrNotAuthenticated
	}
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", shared.ErrInvalidDate)
	}

	plans, err := a.plans.PlansInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load meal plans: %w", err)
	}

	list := &List{Items: []models.ShoppingItem{}}
	entries := map[mergeKey]*entry{}
	var order []*entry

	for _, plan := range plans {
		if !plan.Overlaps(start, end) {
			continue
		}
		for _, item := range plan.Items {
			if !item.Date.Within(start, end) {
				continue
			}
			if item.Recipe == nil {
				list.MissingRecipes++
				continue
			}

			for _, ing := range item.Recipe.Ingredients {
				key := keyOf(ing)
				e, ok := entries[key]
				if !ok {
					e = &entry{item: models.ShoppingItem{Name: strings.TrimSpace(ing.Name)}}
					if ing.Unit != nil {
						unit := strings.TrimSpace(*ing.Unit)
						e.item.Unit = &unit
					}
					entries[key] = e
					order = append(order, e)
				}

				qty, ok := ParseQuantity(ing.Quantity)
				if ok && math.IsInf(e.item.Quantity+qty, 0) {
					ok = false
				}
				if !ok {
					e.originals = append(e.originals, ing.Quantity)
					list.Skipped = append(list.Skipped, SkippedIngredient{
						Recipe:   item.Recipe.Name,
						Date:     item.Date,
						Name:     ing.Name,
						Quantity: ing.Quantity,
					})
					continue
				}
				e.item.Quantity += qty
			}
		}
	}

	for _, e := range order {
		if len(e.originals) > 0 {
			original := strings.Join(e.originals, ", ")
			e.item.OriginalString = &original
		}
		list.Items = append(list.Items, e.item)
	}

	sort.SliceStable(list.Items, func(i, j int) bool {
		return list.Items[i].Name < list.Items[j].Name
	})

	return list, nil
}

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseQuantity parses a plain decimal number such as "2", "0.5" or "1e3", ignoring surrounding
// whitespace. Fractions, ranges, hex and words like "pinch" are rejected.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

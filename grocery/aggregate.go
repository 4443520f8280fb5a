package grocery

import (
	"mealplanner"
)

// ordered accumulator: category -> item -> unit -> total quantity, with
// first-seen insertion order preserved at every level so repeated
// aggregation of the same plan yields byte-identical output.
type unitTotal struct {
	unit string
	qty  float64
}

type itemTotals struct {
	item  string
	units []unitTotal
}

func (it *itemTotals) add(unit string, qty float64) {
	for i := range it.units {
		if it.units[i].unit == unit {
			it.units[i].qty += qty
			return
		}
	}
	it.units = append(it.units, unitTotal{unit: unit, qty: qty})
}

type categoryTotals struct {
	category string
	items    []*itemTotals
}

func (ct *categoryTotals) item(name string) *itemTotals {
	for _, it := range ct.items {
		if it.item == name {
			return it
		}
	}
	it := &itemTotals{item: name}
	ct.items = append(ct.items, it)
	return it
}

// Aggregate folds every food item of every meal into a categorized grocery
// list: canonicalize, classify, parse the portion, normalize its unit,
// accumulate, then reduce each item's units to the category target unit and
// format packaging-aware lines.
func Aggregate(plan mealplanner.MealPlan) mealplanner.GroceryList {
	var cats []*categoryTotals
	category := func(name string) *categoryTotals {
		for _, c := range cats {
			if c.category == name {
				return c
			}
		}
		c := &categoryTotals{category: name}
		cats = append(cats, c)
		return c
	}

	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, food := range meal.Foods {
				item := CanonicalizeItem(food.Item)
				if item == "" {
					continue
				}
				cat := ClassifyItem(item)
				parsed := ParsePortion(food.Portion)
				unit := NormalizeUnit(parsed.Unit, item, cat)
				category(cat).item(item).add(unit, parsed.Quantity)
			}
		}
	}

	var list mealplanner.GroceryList
	for _, ct := range cats {
		gc := mealplanner.GroceryCategory{Name: ct.category}
		for _, it := range ct.items {
			target := TargetUnitFor(ct.category, it.item)
			var total float64
			for _, ut := range it.units {
				total += ConvertUnit(ut.qty, ut.unit, target)
			}
			if total > 0 {
				gc.Lines = append(gc.Lines, FormatPackagedItem(ct.category, it.item, target, total))
			} else {
				gc.Lines = append(gc.Lines, it.item)
			}
		}
		list.Categories = append(list.Categories, gc)
	}
	return list
}

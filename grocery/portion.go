package grocery

import (
	"regexp"
	"strconv"
	"strings"
)

// ParsedPortion is a quantity plus raw unit text extracted from free-text
// portion strings like "6 oz" or "1.5 cups cooked".
type ParsedPortion struct {
	Quantity float64
	Unit     string
}

var portionRE = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]+(?:\s*[a-zA-Z]+)?)?`)

// ParsePortion extracts the leading quantity and unit words from a portion
// string. Unparseable input degrades to a zero quantity with an empty unit,
// never an error.
func ParsePortion(portion string) ParsedPortion {
	if strings.TrimSpace(portion) == "" {
		return ParsedPortion{}
	}
	m := portionRE.FindStringSubmatch(strings.ToLower(portion))
	if m == nil {
		return ParsedPortion{}
	}
	qty, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return ParsedPortion{}
	}
	return ParsedPortion{Quantity: qty, Unit: strings.TrimSpace(m[2])}
}

// NormalizeUnit maps unit spellings to the canonical set (cup, tbsp, tsp,
// oz, lb, count) and defaults an empty unit by category.
func NormalizeUnit(unit, item, category string) string {
	u := strings.TrimSpace(strings.ToLower(unit))
	if i := strings.IndexByte(u, ' '); i >= 0 {
		u = u[:i]
	}

	switch {
	case u == "cup" || u == "cups" || u == "c":
		u = "cup"
	case u == "tablespoon" || u == "tablespoons" || u == "tbsp" || u == "tbs" || u == "tbl":
		u = "tbsp"
	case u == "teaspoon" || u == "teaspoons" || u == "tsp":
		u = "tsp"
	case u == "ounce" || u == "ounces" || u == "oz":
		u = "oz"
	case u == "pound" || u == "pounds" || u == "lb" || u == "lbs":
		u = "lb"
	case strings.Contains(u, "egg") || strings.Contains(u, "banana") || strings.Contains(u, "potato") ||
		u == "medium" || u == "large" || u == "small" || u == "count":
		u = "count"
	}

	if u == "" {
		switch category {
		case CategoryProteins:
			u = "oz"
		case CategoryDairy:
			u = "cup"
		case CategoryProduce:
			u = "count"
		}
	}
	return u
}

// TargetUnitFor picks the unit a category's totals reduce to before
// formatting. An empty target means quantities pass through unconverted.
func TargetUnitFor(category, item string) string {
	s := strings.ToLower(item)
	switch category {
	case CategoryProteins:
		if strings.Contains(s, "egg") {
			return "count"
		}
		return "oz"
	case CategoryDairy, CategoryGrains:
		return "cup"
	case CategoryProduce:
		return "count"
	case CategoryPantry:
		if strings.Contains(s, "oil") || strings.Contains(s, "butter") {
			return "tbsp"
		}
	}
	return ""
}

// ConvertUnit converts a quantity between canonical units. Unknown pairs
// pass the quantity through unchanged rather than guessing a factor.
func ConvertUnit(qty float64, from, to string) float64 {
	if to == "" || from == to {
		return qty
	}
	switch from + ">" + to {
	case "lb>oz":
		return qty * 16
	case "oz>lb":
		return qty / 16
	case "tbsp>cup":
		return qty / 16
	case "cup>tbsp":
		return qty * 16
	case "tsp>tbsp":
		return qty / 3
	case "tbsp>tsp":
		return qty * 3
	case "tsp>cup":
		return qty / 48
	case "cup>tsp":
		return qty * 48
	}
	return qty
}

package grocery

import (
	"fmt"
	"math"
	"strings"
)

// FormatPackagedItem renders one grocery line in store-shelf packaging terms
// rather than recipe units: cartons of eggs, gallons of milk, bags of rice.
// Items with no packaging rule fall back to "Item: qty unit".
func FormatPackagedItem(category, itemName, unit string, qty float64) string {
	item := strings.ToLower(itemName)

	// Eggs come in cartons of 12.
	if strings.Contains(item, "egg") {
		cartons := int64(math.Ceil(qty / 12))
		return pluralize("Egg", cartons) + ": " + fmt.Sprintf("%d %s (12 each)", cartons, pluralize("carton", cartons))
	}

	// Milk by the gallon (16 cups), minimum one.
	if strings.Contains(item, "milk") {
		gallons := int64(math.Ceil(qty / 16))
		if gallons < 1 {
			gallons = 1
		}
		return fmt.Sprintf("Milk: %d %s", gallons, pluralize("gallon", gallons))
	}

	// Greek yogurt in 32 oz tubs (4 cups each).
	if strings.Contains(item, "greek yogurt") {
		tubs := int64(math.Ceil(qty / 4))
		return fmt.Sprintf("Greek yogurt: %d x 32 oz %s", tubs, pluralize("tub", tubs))
	}

	// Rice, quinoa and oats in 2 lb bags, converting cups by rough density.
	if category == CategoryGrains && (strings.Contains(item, "rice") || strings.Contains(item, "quinoa") || strings.Contains(item, "oat")) {
		lbPerCup := 0.5
		if strings.Contains(item, "oat") {
			lbPerCup = 0.3
		}
		pounds := qty
		if unit == "cup" {
			pounds = qty * lbPerCup
		}
		bags := int64(math.Ceil(pounds / 2))
		return fmt.Sprintf("%s: %d x 2 lb %s", capitalizeWords(itemName), bags, pluralize("bag", bags))
	}

	// Oils and butter in 16 oz bottles (1 tbsp is about 0.5 oz).
	if category == CategoryPantry && (strings.Contains(item, "oil") || strings.Contains(item, "butter")) {
		oz := qty
		if unit == "tbsp" {
			oz = qty * 0.5
		}
		bottles := int64(math.Ceil(oz / 16))
		return fmt.Sprintf("%s: %d x 16 oz %s", capitalizeWords(itemName), bottles, pluralize("bottle", bottles))
	}

	// Berries by the container, about a cup each.
	if strings.Contains(item, "berry") || strings.Contains(item, "berries") {
		containers := int64(math.Ceil(qty))
		return fmt.Sprintf("Berries: %d %s", containers, pluralize("container", containers))
	}

	// Broccoli by the head, about 2 cups each.
	if strings.Contains(item, "broccoli") {
		heads := int64(math.Ceil(qty / 2))
		return fmt.Sprintf("Broccoli: %d %s", heads, pluralize("head", heads))
	}

	// Spinach in 8 oz bags, a cup weighing about an ounce.
	if strings.Contains(item, "spinach") {
		bags := int64(math.Ceil(qty / 8))
		return fmt.Sprintf("Spinach: %d x 8 oz %s", bags, pluralize("bag", bags))
	}

	// Proteins by the pound, rounded up to 0.5 lb increments.
	if category == CategoryProteins {
		pounds := qty
		if unit == "oz" {
			pounds = qty / 16
		}
		rounded := math.Ceil(pounds*2) / 2
		return fmt.Sprintf("%s: %s lb", capitalizeWords(itemName), formatQty(rounded))
	}

	// Cheese in 8 oz blocks (1 cup is about 4 oz).
	if strings.Contains(item, "cheese") {
		oz := qty
		if unit == "cup" {
			oz = qty * 4
		}
		blocks := int64(math.Ceil(oz / 8))
		return fmt.Sprintf("Cheese: %d x 8 oz %s", blocks, pluralize("block", blocks))
	}

	displayUnit := unit
	if displayUnit == "count" {
		displayUnit = "each"
	}
	if displayUnit == "" {
		return capitalizeWords(itemName)
	}
	return fmt.Sprintf("%s: %s %s", capitalizeWords(itemName), formatQty(qty), displayUnit)
}

// formatQty prints whole numbers without a decimal point and everything else
// with two places.
func formatQty(q float64) string {
	if math.Abs(q-math.Round(q)) < 1e-6 {
		return fmt.Sprintf("%d", int64(math.Round(q)))
	}
	return fmt.Sprintf("%.2f", q)
}

func pluralize(word string, count int64) string {
	if count == 1 {
		return word
	}
	return word + "s"
}

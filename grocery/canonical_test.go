package grocery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeItem(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Grilled chicken breast", "Chicken"},
		{"chicken breast (cooked)", "Chicken"},
		{"Baked salmon fillet", "Salmon"},
		{"Whole milk", "Milk"},
		{"Brown rice", "Rice"},
		{"White rice", "Rice"},
		{"Sweet potatoes", "Sweet Potato"},
		{"Broccoli florets", "Broccoli"},
		{"Eggs", "Egg"},
		{"Scrambled eggs", "Egg"},
		{"Greek yogurt (plain)", "Greek Yogurt"},
		{"Mixed berries", "Berries"},
		{"Strawberries", "Berries"},
		{"blueberries", "Berries"},
		{"berrys", "Berries"},
		{"aspargus", "Asparagus"},
		// protected endings survive singularization
		{"Asparagus", "Asparagus"},
		{"Watercress", "Watercress"},
		// plain trailing s is stripped
		{"Carrots", "Carrot"},
		{"  fresh  spinach  leaves ", "Spinach"},
		{"Large apple", "Apple"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, CanonicalizeItem(tt.input))
		})
	}
}

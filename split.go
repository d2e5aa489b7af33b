package mealinfo

import (
	"regexp"
	"strconv"
	"strings"
)

// checked in order, the first one present wins
var ItemDelimiters = []string{"<br/>", "<br>", "\n"}

type Nutrient struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type MenuItem struct {
	Name          string `json:"name"`
	AllergenCodes []int  `json:"allergen_codes,omitempty"`
}

// SplitItems splits a delimiter-joined upstream field into trimmed non-empty
// items. A string without any delimiter is a single item.
func SplitItems(s string) []string {
	if len(strings.TrimSpace(s)) == 0 {
		return nil
	}

	parts := []string{s}
	for _, delimiter := range ItemDelimiters {
		if strings.Contains(s, delimiter) {
			parts = strings.Split(s, delimiter)
			break
		}
	}

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if len(part) > 0 {
			items = append(items, part)
		}
	}

	return items
}

// ParseNutrients reads "label : value" items. Items without both a label and
// a value are dropped.
func ParseNutrients(s string) []Nutrient {
	nutrients := make([]Nutrient, 0)

	for _, item := range SplitItems(s) {
		// split on the first colon only, "비율 : 1:2" keeps "1:2" as the value
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			continue
		}

		label := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if len(label) == 0 || len(value) == 0 {
			continue
		}

		nutrients = append(nutrients, Nutrient{Label: label, Value: value})
	}

	return nutrients
}

var allergenSuffixPattern = regexp.MustCompile(`\s*\(\s*([0-9]+(?:\s*\.\s*[0-9]+)*)\s*\.?\s*\)\s*$`)

// ParseMenuItem separates the trailing allergen code list, "소갈비찜 (5.6.13.16)".
// The leading '*' the upstream uses as a marker is dropped from the name.
func ParseMenuItem(item string) MenuItem {
	item = strings.TrimSpace(item)
	menuItem := MenuItem{Name: item}

	if loc := allergenSuffixPattern.FindStringSubmatchIndex(item); loc != nil {
		codes := item[loc[2]:loc[3]]
		menuItem.Name = strings.TrimSpace(item[:loc[0]])

		for _, code := range strings.Split(codes, ".") {
			n, err := strconv.Atoi(strings.TrimSpace(code))
			if err != nil {
				continue
			}
			menuItem.AllergenCodes = append(menuItem.AllergenCodes, n)
		}
	}

	menuItem.Name = strings.TrimSpace(strings.TrimLeft(menuItem.Name, "*"))

	return menuItem
}

func ParseMenu(s string) []MenuItem {
	items := SplitItems(s)
	menu := make([]MenuItem, 0, len(items))
	for _, item := range items {
		menu = append(menu, ParseMenuItem(item))
	}
	return menu
}

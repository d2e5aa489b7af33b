package mealinfo

import (
	"reflect"
	"testing"
)

func TestSplitItemsDelimiters(t *testing.T) {
	expected := []string{"밥", "어묵우동국", "깍두기"}

	for _, input := range []string{
		"밥<br/>어묵우동국<br/> 깍두기 ",
		"밥<br>어묵우동국<br><br>깍두기",
		"밥\n어묵우동국\n\n깍두기\n",
	} {
		items := SplitItems(input)
		if !reflect.DeepEqual(items, expected) {
			t.Errorf("%q: Expecting %v, got %v", input, expected, items)
			return
		}
	}
}

func TestSplitItemsSingle(t *testing.T) {
	items := SplitItems("  비빔밥  ")
	if len(items) != 1 || items[0] != "비빔밥" {
		t.Errorf("Expecting single item, got %v", items)
		return
	}

	if items := SplitItems("   "); len(items) != 0 {
		t.Errorf("Expecting no items, got %v", items)
		return
	}
}

func TestSplitItemsPriority(t *testing.T) {
	// <br/> wins, the newline stays inside the item and is trimmed away only at the ends
	items := SplitItems("a\nb<br/>c")
	expected := []string{"a\nb", "c"}
	if !reflect.DeepEqual(items, expected) {
		t.Errorf("Expecting %v, got %v", expected, items)
		return
	}
}

func TestParseNutrients(t *testing.T) {
	nutrients := ParseNutrients("단백질(g) : 35.4<br/>지방(g):17.2<br/>no value here<br/>빈값 : <br/>비율 : 1:2")
	expected := []Nutrient{
		{Label: "단백질(g)", Value: "35.4"},
		{Label: "지방(g)", Value: "17.2"},
		{Label: "비율", Value: "1:2"},
	}

	if !reflect.DeepEqual(nutrients, expected) {
		t.Errorf("Expecting %v, got %v", expected, nutrients)
		return
	}
}

func TestParseMenuItem(t *testing.T) {
	cases := map[string]MenuItem{
		"*어묵우동국 (1.5.6.9.13)": {Name: "어묵우동국", AllergenCodes: []int{1, 5, 6, 9, 13}},
		"우유 (2.)":             {Name: "우유", AllergenCodes: []int{2}},
		"깍두기":                  {Name: "깍두기"},
		"친환경 (유기농) 사과":         {Name: "친환경 (유기농) 사과"},
	}

	for input, expected := range cases {
		item := ParseMenuItem(input)
		if !reflect.DeepEqual(item, expected) {
			t.Errorf("%q: Expecting %+v, got %+v", input, expected, item)
			return
		}
	}
}

package mealinfo

import (
	"errors"
	"testing"
)

func TestParseMealDataPaired(t *testing.T) {
	record, err := ParseMealData([]byte(TestPairedResponse))
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if record == nil {
		t.Errorf("Expected a record, got nil")
		return
	}

	if record.Menu != "*어묵우동국 (1.5.6.9.13)<br/>깍두기 (9)" {
		t.Errorf("Expected menu to be kept verbatim, got '%s'", record.Menu)
		return
	}
	if record.Nutrition != "탄수화물(g) : 120.1<br/>단백질(g) : 35.4" {
		t.Errorf("Expected nutrition to be kept verbatim, got '%s'", record.Nutrition)
		return
	}
	if record.AllergyInfo != "1,5,6,9,13" {
		t.Errorf("Expected allergy info '1,5,6,9,13', got '%s'", record.AllergyInfo)
		return
	}
	if record.SchoolName != "테스트고등학교" || record.MealName != "중식" || record.ServiceDate != "20250616" {
		t.Errorf("Expected school/meal/date fields, got %+v", record)
		return
	}
}

func TestParseMealDataUsesFirstRow(t *testing.T) {
	body := `{"mealServiceDietInfo":[{"head":[]},{"row":[{"DDISH_NM":"조식"},{"DDISH_NM":"중식","CAL_INFO":"700"}]}]}`

	record, err := ParseMealData([]byte(body))
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if record == nil || record.Menu != "조식" {
		t.Errorf("Expected first row, got %v", record)
		return
	}
	if record.Calories != "" || record.Nutrition != "" || record.AllergyInfo != "" {
		t.Errorf("Expected missing fields to be empty, got %+v", record)
		return
	}
}

func TestParseMealDataSingleObject(t *testing.T) {
	body := `{"mealServiceDietInfo":{"row":[{"DDISH_NM":"밥<br/>국","CAL_INFO":"650.0 Kcal"}]}}`

	record, err := ParseMealData([]byte(body))
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if record == nil || record.Menu != "밥<br/>국" || record.Calories != "650.0 Kcal" {
		t.Errorf("Expected single object record, got %v", record)
		return
	}
}

func TestParseMealDataNoData(t *testing.T) {
	bodies := []string{
		TestNoDataResponse,
		// no-data header inside the paired array, rows ignored
		`{"mealServiceDietInfo":[{"head":[{"list_total_count":0},{"RESULT":{"CODE":"INFO-200"}}]},{"row":[{"DDISH_NM":"x"}]}]}`,
		`{"mealServiceDietInfo":[{"head":[]},{"row":[]}]}`,
		`{"mealServiceDietInfo":[{"head":[]}]}`,
		`{"mealServiceDietInfo":{"row":[]}}`,
		`{"mealServiceDietInfo":"nope"}`,
		`{"somethingElse":true}`,
		`[1,2,3]`,
		`null`,
	}

	for _, body := range bodies {
		record, err := ParseMealData([]byte(body))
		if err != nil {
			t.Errorf("%s: Unexpected Error: %v", body, err)
			return
		}
		if record != nil {
			t.Errorf("%s: Expected nil record, got %v", body, record)
			return
		}
	}
}

func TestParseMealDataInvalidJSON(t *testing.T) {
	for _, body := range []string{"", "<html></html>", `{"mealServiceDietInfo":`} {
		_, err := ParseMealData([]byte(body))
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("'%s': Expected ParseError, got %v", body, err)
			return
		}
	}
}

func TestParseMealDataLooseFieldTypes(t *testing.T) {
	body := `{"mealServiceDietInfo":{"row":[{"DDISH_NM":"a","CAL_INFO":800,"NTR_INFO":null,"ALLRG_INFO":true,"MLSV_YMD":20250616,"MLSV_FGR":312}]}}`

	record, err := ParseMealData([]byte(body))
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if record == nil {
		t.Errorf("Expected a record for a non-empty row, got nil")
		return
	}
	if record.Menu != "a" || record.Calories != "800" || record.Nutrition != "" {
		t.Errorf("Expected menu 'a', calories '800', empty nutrition, got %+v", record)
		return
	}
	if record.AllergyInfo != "true" || record.ServiceDate != "20250616" {
		t.Errorf("Expected scalars as their JSON text, got %+v", record)
		return
	}
}

func TestParseMealDataIgnoresOddResult(t *testing.T) {
	bodies := []string{
		`{"RESULT":"weird","mealServiceDietInfo":{"row":[{"DDISH_NM":"a"}]}}`,
		`{"RESULT":{"CODE":200},"mealServiceDietInfo":[{"head":[{"RESULT":[]}]},{"row":[{"DDISH_NM":"a"}]}]}`,
	}

	for _, body := range bodies {
		record, err := ParseMealData([]byte(body))
		if err != nil {
			t.Errorf("%s: Unexpected Error: %v", body, err)
			return
		}
		if record == nil || record.Menu != "a" {
			t.Errorf("%s: Expected menu 'a', got %v", body, record)
			return
		}
	}
}

package mealinfo

import (
	"time"
)

// Fixtures are only served when fixture_mode is on, so a failing fetch never
// silently turns into demo data in production.
var Fixtures = map[string]MealRecord{
	"2025-06-16": MealRecord{
		Menu:        "*어묵우동국 (1.5.6.9.13)<br/>*소갈비찜 (5.6.13.16)<br/>*청경채오이겉절이 (5.6.13)<br/>광어살강정 (5.6.13)<br/>깍두기 (9)<br/>우유 (2)<br/>*친환경사과 (13)",
		Nutrition:   "단백질(g) : 35.4<br/>지방(g) : 17.2<br/>비타민A(R.E) : 25.0<br/>티아민(mg) : 0.3<br/>리보플라빈(mg) : 0.5<br/>비타민C(mg) : 8.0<br/>칼슘(mg) : 214.9<br/>철분(mg) : 4.2",
		Calories:    "약 800kcal",
		AllergyInfo: "알레르기 정보: 1,5,6,9,13,16",
	},
}

func LookupFixture(date time.Time) (*MealRecord, bool) {
	record, ok := Fixtures[date.Format(DateLayout)]
	if !ok {
		return nil, false
	}
	return &record, true
}

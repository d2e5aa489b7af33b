package mealinfo

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

const LabelCalories = "칼로리"
const LabelAllergy = "알레르기 정보"
const TextNoMenu = "메뉴 정보가 없습니다."
const TextNoNutrition = "영양 정보가 없습니다."
const TextNoData = "해당 날짜의 급식 정보가 없습니다."
const TextLoading = "급식 정보를 불러오는 중..."

var koreanWeekdays = []string{"일", "월", "화", "수", "목", "금", "토"}

// FormatKoreanDate renders "2025년 6월 16일 (월)".
func FormatKoreanDate(t time.Time) string {
	return fmt.Sprintf("%d년 %d월 %d일 (%s)", t.Year(), int(t.Month()), t.Day(), koreanWeekdays[t.Weekday()])
}

// NutritionRows is what the nutrition panel shows: calories first, then
// each nutrient, then the allergy line. Empty parts are left out.
func NutritionRows(record *MealRecord) []Nutrient {
	rows := make([]Nutrient, 0)
	if record == nil {
		return rows
	}

	if len(record.Calories) > 0 {
		rows = append(rows, Nutrient{Label: LabelCalories, Value: record.Calories})
	}

	rows = append(rows, ParseNutrients(record.Nutrition)...)

	if len(record.AllergyInfo) > 0 {
		rows = append(rows, Nutrient{Label: LabelAllergy, Value: record.AllergyInfo})
	}

	return rows
}

/**
 * TextPresenter
 */

// TextPresenter writes each state to a terminal.
type TextPresenter struct {
	out io.Writer
}

func NewTextPresenter(out io.Writer) *TextPresenter {
	return &TextPresenter{out: out}
}

func (p *TextPresenter) ShowLoading() {
	fmt.Fprintln(p.out, TextLoading)
}

func (p *TextPresenter) ShowError(message string, detail string) {
	fmt.Fprintf(p.out, "오류: %s\n", message)
	if len(detail) > 0 {
		fmt.Fprintf(p.out, "  %s\n", detail)
	}
}

func (p *TextPresenter) ShowNoData() {
	fmt.Fprintln(p.out, TextNoData)
}

func (p *TextPresenter) ShowResult(date time.Time, record *MealRecord) {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s 급식 정보\n", FormatKoreanDate(date)))
	if len(record.MealName) > 0 {
		sb.WriteString(fmt.Sprintf("[%s]\n", record.MealName))
	}

	sb.WriteString("\n메뉴\n")
	items := SplitItems(record.Menu)
	if len(items) == 0 {
		sb.WriteString("  " + TextNoMenu + "\n")
	}
	for _, item := range items {
		sb.WriteString("  - " + item + "\n")
	}

	sb.WriteString("\n영양 정보\n")
	rows := NutritionRows(record)
	if len(rows) == 0 {
		sb.WriteString("  " + TextNoNutrition + "\n")
	}
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", row.Label, row.Value))
	}

	fmt.Fprint(p.out, sb.String())
}

/**
 * ViewPresenter
 */

const ViewLoading = "loading"
const ViewError = "error"
const ViewResult = "result"
const ViewNoData = "no-data"

// MealView is the last displayed state in serializable form.
type MealView struct {
	State     string      `json:"state"`
	Date      string      `json:"date,omitempty"`
	Title     string      `json:"title,omitempty"`
	Message   string      `json:"message,omitempty"`
	Detail    string      `json:"detail,omitempty"`
	Menu      []MenuItem  `json:"menu,omitempty"`
	Nutrition []Nutrient  `json:"nutrition,omitempty"`
	Record    *MealRecord `json:"record,omitempty"`
}

// ViewPresenter keeps the latest state instead of drawing it.
type ViewPresenter struct {
	view  MealView
	mutex *sync.Mutex
}

func NewViewPresenter() *ViewPresenter {
	return &ViewPresenter{mutex: &sync.Mutex{}}
}

func (p *ViewPresenter) set(view MealView) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.view = view
}

func (p *ViewPresenter) View() MealView {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.view
}

func (p *ViewPresenter) ShowLoading() {
	p.set(MealView{State: ViewLoading})
}

func (p *ViewPresenter) ShowError(message string, detail string) {
	p.set(MealView{State: ViewError, Message: message, Detail: detail})
}

func (p *ViewPresenter) ShowNoData() {
	p.set(MealView{State: ViewNoData})
}

func (p *ViewPresenter) ShowResult(date time.Time, record *MealRecord) {
	p.set(MealView{
		State:     ViewResult,
		Date:      date.Format(DateLayout),
		Title:     fmt.Sprintf("%s 급식 정보", FormatKoreanDate(date)),
		Menu:      ParseMenu(record.Menu),
		Nutrition: NutritionRows(record),
		Record:    record,
	})
}

package mealinfo

import (
	"net/url"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"
const CompactDateLayout = "20060102"

const ParamOfficeCode = "ATPT_OFCDC_SC_CODE"
const ParamSchoolCode = "SD_SCHUL_CODE"
const ParamMealDate = "MLSV_YMD"
const ParamApiKey = "KEY"
const ParamResponseType = "Type"

const MessageDateRequired = "please select a date"
const MessageFutureDate = "meal information for future dates is not available"

type Query struct {
	OfficeCode string
	SchoolCode string
	Date       time.Time
}

// ParseDate reads a YYYY-MM-DD date as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 {
		return time.Time{}, &ValidationError{Message: MessageDateRequired}
	}

	if loc == nil {
		loc = time.Local
	}

	date, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Message: "invalid date: " + s}
	}

	return date, nil
}

func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// Validate rejects an empty date or one strictly after today. Only the
// calendar date is compared, in the zone of now.
func (q Query) Validate(now time.Time) error {
	if q.Date.IsZero() {
		return &ValidationError{Message: MessageDateRequired}
	}

	today := truncateToDay(now)
	selected := truncateToDay(q.Date.In(now.Location()))

	if selected.After(today) {
		return &ValidationError{Message: MessageFutureDate}
	}

	return nil
}

func FormatCompactDate(t time.Time) string {
	return t.Format(CompactDateLayout)
}

// BuildMealUrl keeps the three lookup parameters first, in the order the
// upstream api documents them. extra is appended for non-empty values only.
func BuildMealUrl(baseUrl string, q Query, extra ...[2]string) string {
	var sb strings.Builder
	sb.WriteString(baseUrl)
	if strings.Contains(baseUrl, "?") {
		sb.WriteString("&")
	} else {
		sb.WriteString("?")
	}

	params := [][2]string{
		{ParamOfficeCode, q.OfficeCode},
		{ParamSchoolCode, q.SchoolCode},
		{ParamMealDate, FormatCompactDate(q.Date)},
	}

	for idx, param := range append(params, extra...) {
		if idx >= len(params) && len(param[1]) == 0 {
			continue
		}
		if idx > 0 {
			sb.WriteString("&")
		}
		sb.WriteString(param[0])
		sb.WriteString("=")
		sb.WriteString(url.QueryEscape(param[1]))
	}

	return sb.String()
}

package mealinfo

import (
	"bytes"
	"encoding/json"
)

const ResultCodeNoData = "INFO-200"

const ServiceKey = "mealServiceDietInfo"

// MealRecord is normalized from the first row of a response. Menu and
// Nutrition keep the upstream delimiters, see SplitItems.
type MealRecord struct {
	Menu        string `json:"menu"`
	Nutrition   string `json:"nutrition"`
	Calories    string `json:"calories"`
	AllergyInfo string `json:"allergy_info"`
	SchoolName  string `json:"school_name,omitempty"`
	MealName    string `json:"meal_name,omitempty"`
	ServiceDate string `json:"service_date,omitempty"`
}

// every level is decoded into raw fields so one oddly typed value can't
// hide the rest of the response
type rawFields map[string]json.RawMessage

type mealApiResult struct {
	Code    string `json:"CODE"`
	Message string `json:"MESSAGE"`
}

func decodeFields(raw []byte) (rawFields, bool) {
	fields := make(rawFields)
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func decodeArray(raw []byte) ([]json.RawMessage, bool) {
	items := make([]json.RawMessage, 0)
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		return nil, false
	}
	return items, true
}

// fieldText is the field as text: strings unquoted, other scalars as their
// JSON text, null or missing as "".
func (fields rawFields) fieldText(name string) string {
	raw := bytes.TrimSpace(fields[name])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}

	if raw[0] == '"' {
		text := ""
		if err := json.Unmarshal(raw, &text); err == nil {
			return text
		}
	}

	return string(raw)
}

// isNoData reports whether fields carries a RESULT object with INFO-200.
// A RESULT of any other shape is ignored.
func (fields rawFields) isNoData() bool {
	raw, ok := fields["RESULT"]
	if !ok {
		return false
	}

	result := new(mealApiResult)
	if err := json.Unmarshal(raw, result); err != nil {
		Log.Debugf("Ignoring RESULT of unexpected shape: %s", snippet(raw, 64))
		return false
	}

	if result.Code == ResultCodeNoData {
		Log.Debugf("No data: %s", result.Message)
		return true
	}

	return false
}

func (fields rawFields) toRecord() *MealRecord {
	return &MealRecord{
		Menu:        fields.fieldText("DDISH_NM"),
		Nutrition:   fields.fieldText("NTR_INFO"),
		Calories:    fields.fieldText("CAL_INFO"),
		AllergyInfo: fields.fieldText("ALLRG_INFO"),
		SchoolName:  fields.fieldText("SCHUL_NM"),
		MealName:    fields.fieldText("MMEAL_SC_NM"),
		ServiceDate: fields.fieldText("MLSV_YMD"),
	}
}

// ParseMealData returns nil, nil when the response holds no meal for the
// date, including shapes it does not recognize. Only a body that is not JSON
// at all is an error.
func ParseMealData(body []byte) (*MealRecord, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, &ParseError{}
	}

	top, ok := decodeFields(body)
	if !ok {
		// valid JSON but not an object, e.g. a bare array or string
		Log.Debugf("Unrecognized response shape: %s", snippet(body, 64))
		return nil, nil
	}

	if top.isNoData() {
		return nil, nil
	}

	service := bytes.TrimSpace(top[ServiceKey])
	if len(service) == 0 {
		return nil, nil
	}

	switch service[0] {
	case '[':
		return parsePairedSections(service), nil
	case '{':
		return parseSingleSection(service), nil
	}

	return nil, nil
}

// element 0 is the header, element 1 holds the rows
func parsePairedSections(raw []byte) *MealRecord {
	sections, ok := decodeArray(raw)
	if !ok {
		Log.Debugf("Unrecognized %s array", ServiceKey)
		return nil
	}

	if len(sections) > 0 && headerIsNoData(sections[0]) {
		return nil
	}

	if len(sections) < 2 {
		return nil
	}

	return parseSingleSection(sections[1])
}

func headerIsNoData(raw []byte) bool {
	header, ok := decodeFields(raw)
	if !ok {
		return false
	}

	heads, ok := decodeArray(header["head"])
	if !ok {
		return false
	}

	for _, head := range heads {
		if fields, ok := decodeFields(head); ok && fields.isNoData() {
			return true
		}
	}

	return false
}

func parseSingleSection(raw []byte) *MealRecord {
	section, ok := decodeFields(raw)
	if !ok {
		Log.Debugf("Unrecognized %s section", ServiceKey)
		return nil
	}

	rows, ok := decodeArray(section["row"])
	if !ok || len(rows) == 0 {
		return nil
	}

	if len(rows) > 1 {
		Log.Debugf("Response has %d rows, using the first", len(rows))
	}

	// a row that isn't an object yields a record of empty fields
	fields, ok := decodeFields(rows[0])
	if !ok {
		fields = rawFields{}
	}

	return fields.toRecord()
}

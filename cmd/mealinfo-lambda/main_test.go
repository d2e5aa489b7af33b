package main

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	mealinfo "github.com/neismeal/mealinfo"
)

const testResponse = `{"mealServiceDietInfo":[{"head":[{"list_total_count":1}]},{"row":[{"DDISH_NM":"밥<br/>국","CAL_INFO":"700.0 Kcal"}]}]}`

type queryRecorder struct {
	mutex   sync.Mutex
	queries []url.Values
}

func (qr *queryRecorder) last() url.Values {
	qr.mutex.Lock()
	defer qr.mutex.Unlock()
	if len(qr.queries) == 0 {
		return nil
	}
	return qr.queries[len(qr.queries)-1]
}

// the fetcher is loaded once per process, so both cases share one config
func TestHandleRequest(t *testing.T) {
	recorder := &queryRecorder{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorder.mutex.Lock()
		recorder.queries = append(recorder.queries, r.URL.Query())
		recorder.mutex.Unlock()
		w.Write([]byte(testResponse))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "mealinfo.yaml")
	contents := "api_url: \"" + server.URL + "\"\nrelay_url: \"" + server.URL + "/relay\"\ndump_output: true\n"
	if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("Unexpected Error: %v", err)
	}
	os.Setenv(mealinfo.ConfigPathEnvName, path)
	defer os.Unsetenv(mealinfo.ConfigPathEnvName)
	os.Unsetenv(mealinfo.APIHostEnvName)

	view, err := HandleRequest(context.Background(), MealEvent{})
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if view.State != mealinfo.ViewResult || view.Record == nil || view.Record.Calories != "700.0 Kcal" {
		t.Errorf("Expecting result view, got %+v", view)
		return
	}

	f, _ := loadFetcher()
	if f.Config().DumpOutput {
		t.Errorf("Expecting dump_output to be off on lambda")
		return
	}

	// empty event codes keep the configured school and default to today
	query := recorder.last()
	today := time.Now().In(f.Location()).Format("20060102")
	if query.Get("MLSV_YMD") != today {
		t.Errorf("Expecting date %s, got %s", today, query.Get("MLSV_YMD"))
		return
	}
	if query.Get("ATPT_OFCDC_SC_CODE") != mealinfo.DefaultOfficeCode || query.Get("SD_SCHUL_CODE") != mealinfo.DefaultSchoolCode {
		t.Errorf("Expecting configured school, got %v", query)
		return
	}

	view, err = HandleRequest(context.Background(), MealEvent{Date: "2025-06-16", OfficeCode: "B10", SchoolCode: "7010536"})
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if view.State != mealinfo.ViewResult || view.Date != "2025-06-16" {
		t.Errorf("Expecting result view for 2025-06-16, got %+v", view)
		return
	}

	query = recorder.last()
	if query.Get("ATPT_OFCDC_SC_CODE") != "B10" || query.Get("SD_SCHUL_CODE") != "7010536" || query.Get("MLSV_YMD") != "20250616" {
		t.Errorf("Expecting B10/7010536 on 20250616, got %v", query)
		return
	}

	view, err = HandleRequest(context.Background(), MealEvent{Date: "2999-01-01"})
	if err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if view.State != mealinfo.ViewError {
		t.Errorf("Expecting error view for a future date, got %+v", view)
		return
	}
}

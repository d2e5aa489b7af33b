package mealinfo

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"testing"
)

func runWithServer(t *testing.T, args ...string) (int, string) {
	direct := newCountingServer(http.StatusOK, TestPairedResponse)
	defer direct.Close()

	path := writeTestConfig(t, "api_url: \""+direct.URL+"\"\nrelay_url: \""+closedServerUrl()+"\"\ntimeout: 2\n")
	os.Setenv(ConfigPathEnvName, path)
	defer os.Unsetenv(ConfigPathEnvName)
	os.Unsetenv(APIHostEnvName)

	out := new(bytes.Buffer)
	code := Run(append([]string{"mealinfo"}, args...), out)
	return code, out.String()
}

func TestRunJSON(t *testing.T) {
	code, output := runWithServer(t, "json", "2025-06-16")
	if code != ExitOK {
		t.Errorf("Expecting exit code %d, got %d: %s", ExitOK, code, output)
		return
	}

	view := MealView{}
	if err := json.Unmarshal([]byte(output), &view); err != nil {
		t.Errorf("Unexpected Error: %v", err)
		return
	}
	if view.State != ViewResult || view.Record == nil || view.Record.Calories != "812.3 Kcal" {
		t.Errorf("Expecting result view, got %+v", view)
		return
	}
}

func TestRunShow(t *testing.T) {
	code, output := runWithServer(t, "2025-06-16")
	if code != ExitOK {
		t.Errorf("Expecting exit code %d, got %d: %s", ExitOK, code, output)
		return
	}
	if !strings.Contains(output, "2025년 6월 16일 (월) 급식 정보") || !strings.Contains(output, "  - 깍두기 (9)") {
		t.Errorf("Unexpected output:\n%s", output)
		return
	}
}

func TestRunInvalidDate(t *testing.T) {
	code, output := runWithServer(t, "show", "16/06/2025")
	if code != ExitFailed {
		t.Errorf("Expecting exit code %d, got %d: %s", ExitFailed, code, output)
		return
	}
}

func TestRunUsage(t *testing.T) {
	code, output := runWithServer(t, "json", "2025-06-16", "R10", "8761121", "extra")
	if code != ExitUsage || !strings.HasPrefix(output, "Usage:") {
		t.Errorf("Expecting usage, got %d: %s", code, output)
		return
	}
}

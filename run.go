package mealinfo

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

const ExitOK = 0
const ExitFailed = 1
const ExitUsage = 2

// WithSchool returns a copy of the fetcher that looks up another school.
// Empty codes keep the configured ones.
func (f *MealDataFetcher) WithSchool(officeCode string, schoolCode string) *MealDataFetcher {
	config := *f.config
	if len(officeCode) > 0 {
		config.OfficeCode = officeCode
	}
	if len(schoolCode) > 0 {
		config.SchoolCode = schoolCode
	}

	copied := *f
	copied.config = &config
	return &copied
}

// SearchView runs a single search and returns the state it ended in.
func SearchView(source MealSource, date string) MealView {
	presenter := NewViewPresenter()
	NewSession(source, presenter).Search(date)
	return presenter.View()
}

// Run is the terminal entry point, returns the process exit code.
func Run(args []string, stdout io.Writer) int {
	config, err := NewConfigDefaultPath()
	if err != nil {
		Log.Errorf("Can't read config: %v", err)
		return ExitFailed
	}

	fetcher, err := NewMealDataFetcher(config)
	if err != nil {
		Log.Errorf("%v", err)
		return ExitFailed
	}

	if len(args) == 0 {
		args = []string{"mealinfo"}
	}

	mode := "show"
	rest := args[1:]
	if len(rest) > 0 && (rest[0] == "show" || rest[0] == "json") {
		mode = rest[0]
		rest = rest[1:]
	}

	if len(rest) > 3 {
		printUsage(args, stdout)
		return ExitUsage
	}

	date := fetcher.today().Format(DateLayout)
	if len(rest) > 0 {
		if rest[0] == "help" || rest[0] == "-h" || rest[0] == "--help" {
			printUsage(args, stdout)
			return ExitOK
		}
		date = rest[0]
	}

	var source MealSource = fetcher
	if len(rest) > 1 {
		schoolCode := ""
		if len(rest) > 2 {
			schoolCode = rest[2]
		}
		source = fetcher.WithSchool(rest[1], schoolCode)
	}

	switch mode {
	case "json":
		view := SearchView(source, date)
		encoder := json.NewEncoder(stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(view); err != nil {
			Log.Errorf("%v", err)
			return ExitFailed
		}
		if view.State == ViewError {
			return ExitFailed
		}
	default:
		presenter := NewViewPresenter()
		session := NewSession(source, &teePresenter{presenters: []Presenter{NewTextPresenter(stdout), presenter}})
		session.Search(date)
		if presenter.View().State == ViewError {
			return ExitFailed
		}
	}

	return ExitOK
}

// teePresenter forwards every state to all of its presenters.
type teePresenter struct {
	presenters []Presenter
}

func (t *teePresenter) ShowLoading() {
	for _, p := range t.presenters {
		p.ShowLoading()
	}
}

func (t *teePresenter) ShowError(message string, detail string) {
	for _, p := range t.presenters {
		p.ShowError(message, detail)
	}
}

func (t *teePresenter) ShowResult(date time.Time, record *MealRecord) {
	for _, p := range t.presenters {
		p.ShowResult(date, record)
	}
}

func (t *teePresenter) ShowNoData() {
	for _, p := range t.presenters {
		p.ShowNoData()
	}
}

func printUsage(args []string, out io.Writer) {
	if out == nil {
		out = os.Stdout
	}
	exeName := filepath.Base(args[0])
	fmt.Fprintf(out, "Usage: %s [show | json] [YYYY-MM-DD [office_code [school_code]]]\n", exeName)
}

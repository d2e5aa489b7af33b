package main

import (
	"context"
	"fmt"
	"github.com/aws/aws-lambda-go/lambda"
	"sync"

	mealinfo "github.com/neismeal/mealinfo"
)

// AWS Lambda wrapper

type MealEvent struct {
	Date       string `json:"date"`
	OfficeCode string `json:"office_code"`
	SchoolCode string `json:"school_code"`
}

var fetcherOnce sync.Once
var fetcher *mealinfo.MealDataFetcher
var fetcherErr error

func loadFetcher() (*mealinfo.MealDataFetcher, error) {
	fetcherOnce.Do(func() {
		config, err := mealinfo.NewConfigDefaultPath()
		if err != nil {
			fetcherErr = fmt.Errorf("Can't read config: %w", err)
			return
		}

		// no local disk worth writing to on lambda
		config.DumpOutput = false

		fetcher, fetcherErr = mealinfo.NewMealDataFetcher(config)
	})

	return fetcher, fetcherErr
}

func HandleRequest(ctx context.Context, evt MealEvent) (mealinfo.MealView, error) {
	f, err := loadFetcher()
	if err != nil {
		return mealinfo.MealView{}, err
	}

	date := evt.Date
	if len(date) == 0 {
		date = f.Now().In(f.Location()).Format(mealinfo.DateLayout)
	}

	view := mealinfo.SearchView(f.WithSchool(evt.OfficeCode, evt.SchoolCode), date)
	mealinfo.Log.Infof("Lookup %s %s/%s finished with state %s", date, evt.OfficeCode, evt.SchoolCode, view.State)

	return view, nil
}

func main() {
	lambda.Start(HandleRequest)
}

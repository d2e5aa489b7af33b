package mealinfo

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// MealDataFetcher looks up one day's meal. Each Fetch makes at most two
// sequential requests, direct and then relayed, and keeps nothing between calls.
type MealDataFetcher struct {
	config   *Config
	relay    Relay
	location *time.Location

	// overrides for tests and embedding hosts
	Now          func() time.Time
	DirectClient *http.Client
}

func NewMealDataFetcher(config *Config) (*MealDataFetcher, error) {
	if config == nil {
		return nil, fmt.Errorf("MealDataFetcher: nil config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	relay, err := NewRelay(config)
	if err != nil {
		return nil, err
	}

	location, err := config.Location()
	if err != nil {
		return nil, err
	}

	fetcher := new(MealDataFetcher)
	fetcher.config = config
	fetcher.relay = relay
	fetcher.location = location
	fetcher.Now = time.Now

	return fetcher, nil
}

func (f *MealDataFetcher) Config() *Config {
	return f.config
}

func (f *MealDataFetcher) Location() *time.Location {
	return f.location
}

func (f *MealDataFetcher) today() time.Time {
	return f.Now().In(f.location)
}

// NewQuery builds a query for the configured office and school.
func (f *MealDataFetcher) NewQuery(date string) (Query, error) {
	parsed, err := ParseDate(date, f.location)
	if err != nil {
		return Query{}, err
	}

	return Query{
		OfficeCode: f.config.OfficeCode,
		SchoolCode: f.config.SchoolCode,
		Date:       parsed,
	}, nil
}

func (f *MealDataFetcher) MealUrl(q Query) string {
	return BuildMealUrl(f.config.ApiUrl, q,
		[2]string{ParamApiKey, f.config.ApiKey},
		[2]string{ParamResponseType, f.config.ResponseType})
}

// Fetch returns nil, nil when there is no meal for the date.
func (f *MealDataFetcher) Fetch(q Query) (*MealRecord, error) {
	if err := q.Validate(f.today()); err != nil {
		return nil, err
	}

	mealUrl := f.MealUrl(q)
	Log.Debugf("Request URL: %s", censorUrlString(mealUrl))

	if record, ok := f.fetchDirect(mealUrl); ok {
		return record, nil
	}

	record, err := f.fetchRelayed(mealUrl)
	if err != nil {
		if f.config.FixtureMode {
			if fixture, ok := LookupFixture(q.Date); ok {
				Log.Warnf("Fetch failed, serving fixture for %s: %v", q.Date.Format(DateLayout), err)
				return fixture, nil
			}
		}
		return nil, err
	}

	return record, nil
}

// ok is false on any transport failure, non-2xx status or non-JSON body.
func (f *MealDataFetcher) fetchDirect(mealUrl string) (record *MealRecord, ok bool) {
	endpoint := NewGetEndpoint(mealUrl, f.config.Timeout)
	endpoint.HttpClient = f.DirectClient

	body, _, err := endpoint.Fetch("direct")
	if err != nil {
		Log.Debugf("Direct request failed: %v", err)
		return nil, false
	}

	record, err = ParseMealData(body)
	if err != nil {
		Log.Debugf("Direct response: %v", err)
		dumpOutput(f.config, "direct", body)
		return nil, false
	}

	return record, true
}

func (f *MealDataFetcher) fetchRelayed(mealUrl string) (*MealRecord, error) {
	endpoint, err := f.relay.Endpoint(mealUrl, f.config.Timeout)
	if err != nil {
		return nil, err
	}

	Log.Debugf("Relay URL: %s", censorUrlString(endpoint.Url))

	body, _, err := endpoint.Fetch(f.relay.Name())
	if err != nil {
		var statusErr *HttpStatusError
		if errors.As(err, &statusErr) {
			return nil, statusErr
		}
		return nil, &NetworkError{Url: endpoint.Url, Cause: err}
	}

	record, err := ParseMealData(body)
	if err != nil {
		Log.Errorf("%s: %v", f.relay.Name(), err)
		dumpOutput(f.config, f.relay.Name(), body)
		return nil, err
	}

	return record, nil
}

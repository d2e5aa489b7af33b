package mealinfo

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Presenter displays exactly one of four states at a time.
type Presenter interface {
	ShowLoading()
	ShowError(message string, detail string)
	ShowResult(date time.Time, record *MealRecord)
	ShowNoData()
}

type MealSource interface {
	NewQuery(date string) (Query, error)
	Validate(q Query) error
	Fetch(q Query) (*MealRecord, error)
}

func (f *MealDataFetcher) Validate(q Query) error {
	return q.Validate(f.today())
}

// Session is the search operation a host wires to its input. Searches may
// overlap; only the newest one reaches the presenter.
type Session struct {
	source    MealSource
	presenter Presenter
	tracker   *SearchTracker
	// serializes presenter calls against the current-search check
	presentMutex *sync.Mutex
}

func NewSession(source MealSource, presenter Presenter) *Session {
	session := new(Session)
	session.source = source
	session.presenter = presenter
	session.tracker = NewSearchTracker()
	session.presentMutex = &sync.Mutex{}
	return session
}

func (s *Session) Tracker() *SearchTracker {
	return s.tracker
}

// present runs fn only while id is still the current search.
func (s *Session) present(id string, fn func()) bool {
	s.presentMutex.Lock()
	defer s.presentMutex.Unlock()

	if !s.tracker.IsCurrent(id) {
		return false
	}

	fn()
	return true
}

// Search looks up date (YYYY-MM-DD) and blocks until the presenter has been
// updated or the result was dropped as stale. Returns the search id.
func (s *Session) Search(date string) string {
	id := uuid.New().String()
	s.tracker.Begin(id)

	q, err := s.source.NewQuery(date)
	if err == nil {
		err = s.source.Validate(q)
	}
	if err != nil {
		s.tracker.Finish(id, false)
		message, detail := UserMessage(err)
		s.present(id, func() { s.presenter.ShowError(message, detail) })
		return id
	}

	s.present(id, s.presenter.ShowLoading)

	Log.Debugf("Search %s: date %s", id, q.Date.Format(DateLayout))

	record, err := s.source.Fetch(q)

	current, elapsed := s.tracker.Finish(id, err == nil)
	if !current {
		Log.Debugf("Search %s finished after %v but was superseded, dropping result", id, elapsed)
		return id
	}

	shown := s.present(id, func() {
		switch {
		case err != nil:
			Log.Errorf("Meal lookup failed: %v", err)
			message, detail := UserMessage(err)
			s.presenter.ShowError(message, detail)
		case record == nil:
			s.presenter.ShowNoData()
		default:
			s.presenter.ShowResult(q.Date, record)
		}
	})

	if !shown {
		Log.Debugf("Search %s was superseded while presenting, dropping result", id)
	}

	return id
}

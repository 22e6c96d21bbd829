package mock

import "github.com/fwojciec/sitemapgen"

var _ sitemapgen.ResultStore = (*ResultStore)(nil)

// ResultStore is a mock implementation of sitemapgen.ResultStore.
type ResultStore struct {
	SaveFn   func(name, content string) error
	CommitFn func() error
	AbortFn  func() error
}

func (s *ResultStore) Save(name, content string) error {
	return s.SaveFn(name, content)
}

func (s *ResultStore) Commit() error {
	return s.CommitFn()
}

func (s *ResultStore) Abort() error {
	return s.AbortFn()
}

package services

import (
	"sync"
	"testing"
	"time"

	"github.com/khalid0211/FileRAG/internal/adapters/driven/storage/memory"
)

type fixture struct {
	search  *memory.SearchService
	state   *memory.StateStore
	cache   *memory.DocumentCache
	log     *memory.QueryLog
	stores  *StoreService
	docs    *DocumentService
	history *HistoryService
	query   *QueryService
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		search: memory.NewSearchService(),
		state:  memory.NewStateStore(),
		cache:  memory.NewDocumentCache(),
		log:    memory.NewQueryLog(),
	}
	clock := tickingClock()
	f.stores = NewStoreService(f.search, f.state, f.cache)
	f.stores.now = clock
	f.docs = NewDocumentService(f.search, f.state, f.cache)
	f.docs.now = clock
	f.history = NewHistoryService(f.log)
	f.history.now = clock
	f.query = NewQueryService(f.search, f.stores, f.history)
	return f
}

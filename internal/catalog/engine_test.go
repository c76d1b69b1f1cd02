package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/internal/notify"
	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// fakePersister records persisted snapshots. When release is non-nil,
// Persist blocks until it is closed.
type fakePersister struct {
	mu      sync.Mutex
	items   [][]types.MenuItem
	err     error
	started chan struct{}
	release chan struct{}
}

func (p *fakePersister) Persist(ctx context.Context, items []types.MenuItem) error {
	if p.started != nil {
		p.started <- struct{}{}
	}
	if p.release != nil {
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = append(p.items, items)
	return p.err
}

func (p *fakePersister) calls() [][]types.MenuItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items
}

// fakeMenuStore also persists custom categories.
type fakeMenuStore struct {
	fakePersister
	categories [][]types.CustomCategory
	catErr     error
}

func (s *fakeMenuStore) PersistCategories(ctx context.Context, cats []types.CustomCategory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, cats)
	return s.catErr
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("custom-%d", n)
	}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *notify.Recorder) {
	t.Helper()
	rec := &notify.Recorder{}
	opts = append([]Option{
		WithNotifier(rec),
		WithLogger(zap.NewNop()),
		WithIDGenerator(sequentialIDs()),
	}, opts...)
	e, err := New(sampleItems(), nil, opts...)
	require.NoError(t, err)
	return e, rec
}

func waitSave(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("save did not complete")
		return nil
	}
}

func TestEngineDirtyLifecycle(t *testing.T) {
	e, _ := newTestEngine(t)
	assert.False(t, e.Dirty(), "clean after construction")

	mutations := []struct {
		name string
		fn   func()
	}{
		{"toggle item", func() { e.ToggleItem("1") }},
		{"toggle category", func() { e.ToggleCategory(types.PrimaryRef("Soups")) }},
		{"create category", func() { _, _ = e.CreateCustomCategory("Lunch", []string{"3"}) }},
		{"delete category", func() {
			cat, _ := e.CreateCustomCategory("Tmp", []string{"3"})
			<-e.Save(context.Background())
			e.DeleteCustomCategory(cat.ID)
		}},
	}

	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			m.fn()
			assert.True(t, e.Dirty())
			require.NoError(t, waitSave(t, e.Save(context.Background())))
			assert.False(t, e.Dirty(), "clean after save")

			m.fn()
			assert.True(t, e.Dirty())
			e.Discard()
			assert.False(t, e.Dirty(), "clean after discard")
		})
	}
}

func TestEngineIgnoresUnknownReferences(t *testing.T) {
	e, rec := newTestEngine(t)
	before := e.State().Items()

	assert.False(t, e.ToggleItem("missing"))
	assert.False(t, e.ToggleCategory(types.PrimaryRef("Drinks")))
	assert.False(t, e.ToggleCategory(types.CustomRef("missing")))
	assert.False(t, e.DeleteCustomCategory("missing"))

	assert.False(t, e.Dirty())
	assert.Equal(t, before, e.State().Items())
	assert.Empty(t, rec.Events(), "stale references are silent")
}

func TestEngineToggleItemNotifies(t *testing.T) {
	e, rec := newTestEngine(t)

	require.True(t, e.ToggleItem("1"))
	last, _ := rec.Last()
	assert.Equal(t, types.NotifySuccess, last.Kind)
	assert.Equal(t, "Item stopped", last.Title)
	assert.Contains(t, last.Description, "Borscht")

	require.True(t, e.ToggleItem("1"))
	last, _ = rec.Last()
	assert.Equal(t, "Item available", last.Title)
}

func TestEngineToggleCategoryExample(t *testing.T) {
	e, err := New([]types.MenuItem{
		{ID: "A", Name: "A", Category: "Soups", IsAvailable: true},
		{ID: "B", Name: "B", Category: "Soups", IsAvailable: false},
	}, nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	require.True(t, e.ToggleCategory(types.PrimaryRef("Soups")))
	assert.Equal(t, map[string]bool{"A": false, "B": false}, availability(e.State()))

	require.True(t, e.ToggleCategory(types.PrimaryRef("Soups")))
	assert.Equal(t, map[string]bool{"A": true, "B": true}, availability(e.State()))
}

func TestEngineCreateCustomCategoryValidation(t *testing.T) {
	tests := []struct {
		name    string
		catName string
		ids     []string
		wantErr error
	}{
		{name: "empty name", catName: "", ids: []string{"1"}, wantErr: types.ErrInvalidName},
		{name: "empty members", catName: "X", ids: []string{}, wantErr: types.ErrNoMembers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, rec := newTestEngine(t)

			_, err := e.CreateCustomCategory(tt.catName, tt.ids)
			assert.ErrorIs(t, err, types.ErrValidation)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, e.State().CustomCategories())
			assert.False(t, e.Dirty())

			last, ok := rec.Last()
			require.True(t, ok)
			assert.Equal(t, types.NotifyError, last.Kind)
		})
	}
}

func TestEngineCreateCustomCategory(t *testing.T) {
	e, rec := newTestEngine(t)

	cat, err := e.CreateCustomCategory(" Power Outage ", []string{"1", "6"})
	require.NoError(t, err)
	assert.Equal(t, "custom-1", cat.ID)
	assert.Equal(t, "Power Outage", cat.Name)
	assert.True(t, e.Dirty())

	last, _ := rec.Last()
	assert.Equal(t, "Category created", last.Title)

	groups := e.Grouped("")
	require.NotEmpty(t, groups)
	assert.Equal(t, types.CustomRef("custom-1"), groups[len(groups)-1].Ref)

	require.True(t, e.ToggleCategory(types.CustomRef(cat.ID)))
	assert.Equal(t, map[string]bool{"1": false, "2": false, "3": true, "4": true, "5": false, "6": false}, availability(e.State()))
}

func TestEngineDefaultIDsAreUnique(t *testing.T) {
	e, err := New(sampleItems(), nil, WithLogger(zap.NewNop()))
	require.NoError(t, err)

	a, err := e.CreateCustomCategory("A", []string{"1"})
	require.NoError(t, err)
	b, err := e.CreateCustomCategory("A", []string{"1"})
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestEngineDiscardKeepsCustomCategories(t *testing.T) {
	e, rec := newTestEngine(t)

	_, err := e.CreateCustomCategory("Power Outage", []string{"1"})
	require.NoError(t, err)
	e.ToggleItem("1")
	e.ToggleItem("3")

	e.Discard()

	assert.False(t, e.Dirty())
	assert.Equal(t, sampleItems(), e.State().Items(), "items revert to the initial snapshot")
	cats := e.State().CustomCategories()
	require.Len(t, cats, 1, "custom categories are not rolled back")
	assert.Equal(t, "Power Outage", cats[0].Name)

	last, _ := rec.Last()
	assert.Equal(t, "Changes discarded", last.Title)
}

func TestEngineDiscardRestoresLastSave(t *testing.T) {
	e, _ := newTestEngine(t)

	e.ToggleItem("1")
	require.NoError(t, waitSave(t, e.Save(context.Background())))
	saved := e.State().Items()

	for i := 0; i < 10; i++ {
		e.ToggleItem("2")
		e.ToggleCategory(types.PrimaryRef("Mains"))
	}
	e.Discard()

	assert.Equal(t, saved, e.State().Items())
}

func TestEngineSaveWithoutPersister(t *testing.T) {
	e, rec := newTestEngine(t)
	e.ToggleItem("1")

	require.NoError(t, waitSave(t, e.Save(context.Background())))
	assert.False(t, e.Dirty())
	assert.Equal(t, e.State().Items(), e.State().Baseline())

	last, _ := rec.Last()
	assert.Equal(t, types.NotifySuccess, last.Kind)
	assert.Equal(t, "Changes saved", last.Title)
}

func TestEngineSavePersistsSnapshot(t *testing.T) {
	store := &fakeMenuStore{}
	e, _ := newTestEngine(t, WithPersister(store))

	e.ToggleItem("1")
	cat, err := e.CreateCustomCategory("Lunch", []string{"3", "4"})
	require.NoError(t, err)

	require.NoError(t, waitSave(t, e.Save(context.Background())))
	e.Wait()

	calls := store.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, e.State().Baseline(), calls[0])
	require.Len(t, store.categories, 1)
	assert.Equal(t, []types.CustomCategory{cat}, store.categories[0])

	e.ToggleItem("2")
	assert.False(t, calls[0][1].IsAvailable, "persisted snapshot is not shared with the engine")
}

func TestEngineSaveFailureKeepsCommit(t *testing.T) {
	p := &fakePersister{err: errors.New("connection refused")}
	e, rec := newTestEngine(t, WithPersister(p))

	e.ToggleItem("1")
	err := waitSave(t, e.Save(context.Background()))
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "connection refused")

	assert.False(t, e.Dirty(), "optimistic commit is not reverted")
	item, _ := e.State().Item("1")
	assert.False(t, item.IsAvailable)
	base := e.State().Baseline()
	assert.False(t, base[0].IsAvailable)

	last, _ := rec.Last()
	assert.Equal(t, types.NotifyError, last.Kind)
	assert.Equal(t, "Save failed", last.Title)
}

func TestEngineCategoryPersistFailure(t *testing.T) {
	store := &fakeMenuStore{catErr: errors.New("locked")}
	e, _ := newTestEngine(t, WithPersister(store))

	err := waitSave(t, e.Save(context.Background()))
	assert.ErrorIs(t, err, types.ErrPersistenceFailure)
	assert.Contains(t, err.Error(), "categories")
}

func TestEngineMutationsDuringSave(t *testing.T) {
	p := &fakePersister{started: make(chan struct{}, 1), release: make(chan struct{})}
	e, _ := newTestEngine(t, WithPersister(p))

	e.ToggleItem("1")
	done := e.Save(context.Background())
	<-p.started

	// The save is in flight; the engine keeps accepting mutations.
	require.True(t, e.ToggleItem("3"))
	assert.True(t, e.Dirty())

	close(p.release)
	require.NoError(t, waitSave(t, done))

	assert.True(t, e.Dirty(), "late confirmation must not clear newer changes")
	item, _ := e.State().Item("3")
	assert.False(t, item.IsAvailable)

	persisted := p.calls()[0]
	assert.True(t, persisted[2].IsAvailable, "persisted snapshot predates the newer toggle")
}

// gatedPersister blocks its first Persist call until release is closed and
// keeps only the last snapshot written, as a store would.
type gatedPersister struct {
	mu      sync.Mutex
	calls   int
	stored  []types.MenuItem
	started chan struct{}
	release chan struct{}
}

func (p *gatedPersister) Persist(ctx context.Context, items []types.MenuItem) error {
	p.mu.Lock()
	p.calls++
	first := p.calls == 1
	p.mu.Unlock()

	if first {
		p.started <- struct{}{}
		<-p.release
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stored = items
	return nil
}

func (p *gatedPersister) last() []types.MenuItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stored
}

func TestEngineOverlappingSavesKeepNewestCommit(t *testing.T) {
	p := &gatedPersister{started: make(chan struct{}, 1), release: make(chan struct{})}
	e, _ := newTestEngine(t, WithPersister(p))

	e.ToggleItem("1")
	first := e.Save(context.Background())
	<-p.started

	e.ToggleItem("1")
	second := e.Save(context.Background())
	require.NoError(t, waitSave(t, second), "the newer save does not wait for the older one")

	close(p.release)
	require.NoError(t, waitSave(t, first))
	e.Wait()

	assert.False(t, e.Dirty())
	baseline, _ := e.State().Item("1")
	require.True(t, baseline.IsAvailable)

	stored := p.last()
	require.Len(t, stored, len(sampleItems()))
	assert.True(t, stored[0].IsAvailable, "storage must hold the newest committed snapshot")
}

func TestEngineWaitBlocksForInflightSaves(t *testing.T) {
	p := &fakePersister{release: make(chan struct{})}
	e, _ := newTestEngine(t, WithPersister(p))

	e.Save(context.Background())
	e.Save(context.Background())

	waited := make(chan struct{})
	go func() {
		e.Wait()
		close(waited)
	}()

	select {
	case <-waited:
		t.Fatal("Wait returned before saves finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(p.release)
	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}
	assert.Len(t, p.calls(), 2)
}

func TestEngineConcurrentToggles(t *testing.T) {
	e, _ := newTestEngine(t)
	before := availability(e.State())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		for _, id := range []string{"1", "2", "3", "4", "5", "6"} {
			wg.Add(2)
			go func(id string) {
				defer wg.Done()
				e.ToggleItem(id)
			}(id)
			go func(id string) {
				defer wg.Done()
				e.ToggleItem(id)
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, before, availability(e.State()), "an even number of toggles per item cancels out")
	assert.True(t, e.Dirty())
}

func TestNewRejectsMalformedCatalog(t *testing.T) {
	_, err := New([]types.MenuItem{{ID: "1", Name: "A"}, {ID: "1", Name: "B"}}, nil)
	assert.ErrorIs(t, err, types.ErrDuplicateID)
}

package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/stoplist/pkg/types"
)

// Engine owns a catalog State and applies mutations to it one at a time.
// It is safe for concurrent use; every mutation is applied atomically.
//
// Unknown item or category references are ignored, so a presentation layer
// holding stale IDs never gets an error. Save commits optimistically and runs
// the persister in the background.
type Engine struct {
	mu        sync.Mutex
	state     State
	notifier  types.Notifier
	persister types.Persister
	logger    *zap.Logger
	newID     func() string
	saves     sync.WaitGroup

	seq       uint64     // last commit number, guarded by mu
	persistMu sync.Mutex // guards written
	written   snapshot   // newest snapshot known to be in storage
}

// snapshot is one committed state handed to the persister.
type snapshot struct {
	seq        uint64
	items      []types.MenuItem
	categories []types.CustomCategory
}

// Option configures an Engine.
type Option func(*Engine)

// WithNotifier sets the sink for user-facing notifications.
func WithNotifier(n types.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithPersister sets the collaborator invoked on Save. Without one, Save only
// commits in memory.
func WithPersister(p types.Persister) Option {
	return func(e *Engine) { e.persister = p }
}

// WithLogger sets the logger. The default is zap.L().
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithIDGenerator overrides the custom category ID generator.
func WithIDGenerator(gen func() string) Option {
	return func(e *Engine) { e.newID = gen }
}

// New creates an Engine over a loaded catalog. The initial State is clean.
func New(items []types.MenuItem, categories []types.CustomCategory, opts ...Option) (*Engine, error) {
	st, err := NewState(items, categories)
	if err != nil {
		return nil, err
	}
	e := &Engine{
		state:    st,
		notifier: types.NotifierFunc(func(types.NotificationKind, string, string) {}),
		logger:   zap.L(),
		newID:    generateUUID,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the current State.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Dirty reports whether there are unsaved changes.
func (e *Engine) Dirty() bool {
	return e.State().Dirty()
}

// Grouped returns the grouped view of the current State.
func (e *Engine) Grouped(search string) []types.Group {
	return e.State().Grouped(search)
}

// ToggleItem flips one item's availability. It reports whether the item exists.
func (e *Engine) ToggleItem(id string) bool {
	next, err := e.apply(func(s State) (State, error) { return s.ToggleItem(id) })
	if err != nil {
		e.logger.Debug("toggle item ignored", zap.String("item_id", id), zap.Error(err))
		return false
	}
	item, _ := next.Item(id)
	e.logger.Debug("item toggled", zap.String("item_id", id), zap.Bool("available", item.IsAvailable))
	if item.IsAvailable {
		e.notifier.Notify(types.NotifySuccess, "Item available", fmt.Sprintf("%q is back on the menu", item.Name))
	} else {
		e.notifier.Notify(types.NotifySuccess, "Item stopped", fmt.Sprintf("%q added to the stop-list", item.Name))
	}
	return true
}

// ToggleCategory applies the bulk stop/restore policy to a category.
// It reports whether the category had any members.
func (e *Engine) ToggleCategory(ref types.CategoryRef) bool {
	next, err := e.apply(func(s State) (State, error) { return s.ToggleCategory(ref) })
	if err != nil {
		e.logger.Debug("toggle category ignored", zap.Stringer("category", ref), zap.Error(err))
		return false
	}
	members := next.Members(ref)
	available := members[0].IsAvailable
	e.logger.Debug("category toggled",
		zap.Stringer("category", ref),
		zap.Int("items", len(members)),
		zap.Bool("available", available))
	if available {
		e.notifier.Notify(types.NotifySuccess, "Category available", fmt.Sprintf("%d items are back on the menu", len(members)))
	} else {
		e.notifier.Notify(types.NotifySuccess, "Category stopped", fmt.Sprintf("%d items added to the stop-list", len(members)))
	}
	return true
}

// CreateCustomCategory adds a custom category over the given items.
// Validation failures return an error wrapping types.ErrValidation and leave
// the State unchanged.
func (e *Engine) CreateCustomCategory(name string, itemIDs []string) (types.CustomCategory, error) {
	id := e.newID()
	var created types.CustomCategory
	_, err := e.apply(func(s State) (State, error) {
		next, cat, err := s.CreateCustomCategory(id, name, itemIDs)
		created = cat
		return next, err
	})
	if err != nil {
		e.logger.Debug("create category rejected", zap.String("name", name), zap.Error(err))
		e.notifier.Notify(types.NotifyError, "Category not created", "Enter a category name and select at least one item")
		return types.CustomCategory{}, err
	}
	e.logger.Debug("category created", zap.String("category_id", created.ID), zap.Int("items", len(created.ItemIDs)))
	e.notifier.Notify(types.NotifySuccess, "Category created", fmt.Sprintf("Created custom category %q", created.Name))
	return created, nil
}

// DeleteCustomCategory removes a custom category. It reports whether the
// category existed.
func (e *Engine) DeleteCustomCategory(id string) bool {
	if _, err := e.apply(func(s State) (State, error) { return s.DeleteCustomCategory(id) }); err != nil {
		e.logger.Debug("delete category ignored", zap.String("category_id", id), zap.Error(err))
		return false
	}
	e.logger.Debug("category deleted", zap.String("category_id", id))
	e.notifier.Notify(types.NotifySuccess, "Category deleted", "The custom category was removed")
	return true
}

// Save commits the working items as the new baseline and hands the committed
// snapshot to the persister in the background.
//
// The commit is not reverted if persisting fails; the failure is reported
// through the notifier and on the returned channel, which receives exactly
// one value (nil on success) and is then closed. Mutations made while the
// persister runs stay in the working State. Overlapping saves may finish in
// any order, but storage always ends on the newest commit.
func (e *Engine) Save(ctx context.Context) <-chan error {
	e.mu.Lock()
	e.state = e.state.Commit()
	e.seq++
	snap := snapshot{
		seq:        e.seq,
		items:      e.state.Items(),
		categories: e.state.CustomCategories(),
	}
	e.mu.Unlock()

	done := make(chan error, 1)
	if e.persister == nil {
		e.notifySaved(nil)
		done <- nil
		close(done)
		return done
	}

	e.saves.Add(1)
	go func() {
		defer e.saves.Done()
		defer close(done)
		err := e.persistInOrder(ctx, snap)
		e.notifySaved(err)
		done <- err
	}()
	return done
}

// Wait blocks until every Save started so far has finished persisting.
func (e *Engine) Wait() {
	e.saves.Wait()
}

// Discard restores the working items to the last committed baseline.
// Custom categories created or deleted since then are kept.
func (e *Engine) Discard() {
	e.mu.Lock()
	e.state = e.state.Rollback()
	e.mu.Unlock()

	e.logger.Debug("changes discarded")
	e.notifier.Notify(types.NotifySuccess, "Changes discarded", "Reverted to the last saved state")
}

// apply runs a transition under the lock and installs its result on success.
func (e *Engine) apply(fn func(State) (State, error)) (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	next, err := fn(e.state)
	if err != nil {
		return e.state, err
	}
	e.state = next
	return next, nil
}

// persistInOrder writes snap. If a newer snapshot reached storage while snap
// was being written, the newer one is written again so an older commit never
// has the last word. The first error for snap is returned.
func (e *Engine) persistInOrder(ctx context.Context, snap snapshot) error {
	var firstErr error
	for {
		err := e.persist(ctx, snap.items, snap.categories)
		if err != nil && firstErr == nil {
			firstErr = err
		}

		e.persistMu.Lock()
		if snap.seq >= e.written.seq {
			if err == nil {
				e.written = snap
			}
			e.persistMu.Unlock()
			return firstErr
		}
		snap = e.written
		e.persistMu.Unlock()
		e.logger.Debug("older snapshot landed late, rewriting newest", zap.Uint64("seq", snap.seq))
	}
}

func (e *Engine) persist(ctx context.Context, items []types.MenuItem, categories []types.CustomCategory) error {
	if err := e.persister.Persist(ctx, items); err != nil {
		return fmt.Errorf("%w: items: %w", types.ErrPersistenceFailure, err)
	}
	if cp, ok := e.persister.(types.CategoryPersister); ok {
		if err := cp.PersistCategories(ctx, categories); err != nil {
			return fmt.Errorf("%w: categories: %w", types.ErrPersistenceFailure, err)
		}
	}
	return nil
}

func (e *Engine) notifySaved(err error) {
	if err != nil {
		e.logger.Error("save failed", zap.Error(err))
		e.notifier.Notify(types.NotifyError, "Save failed", err.Error())
		return
	}
	e.logger.Debug("changes saved")
	e.notifier.Notify(types.NotifySuccess, "Changes saved", "Stop-list updated")
}

// generateUUID generates a new UUID v7 for custom category IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

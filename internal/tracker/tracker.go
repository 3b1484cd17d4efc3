package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/2beens/gymlogger/internal/entries"
	"github.com/2beens/gymlogger/internal/forms"
	"github.com/2beens/gymlogger/internal/identity"
	"github.com/2beens/gymlogger/internal/session"
	"github.com/2beens/gymlogger/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=tracker_test

var (
	ErrNotSignedIn     = errors.New("not signed in")
	ErrNoPendingDelete = errors.New("no entry selected for deletion")
)

var kinds = []entries.Kind{
	entries.KindWeightlifting,
	entries.KindBodyWeight,
	entries.KindCardio,
}

type entriesAPI interface {
	List(ctx context.Context, userID string, kind entries.Kind) ([]entries.Entry, error)
	Create(ctx context.Context, userID string, entry entries.Entry) (string, error)
	Delete(ctx context.Context, userID, entryID string) error
}

type PendingDelete struct {
	Kind entries.Kind
	ID   string
}

// Tracker owns the signed in user's three collections. It loads them on
// every sign in, clears them on sign out and applies submissions and
// deletions to them.
type Tracker struct {
	api            entriesAPI
	metricsManager *metrics.Manager
	loc            *time.Location

	baseCtx   context.Context
	cancelAll context.CancelFunc
	syncWG    sync.WaitGroup

	mutex         sync.RWMutex
	signedIn      bool
	userID        string
	generation    uint64
	cancelSync    context.CancelFunc
	collections   map[entries.Kind][]entries.Entry
	pendingDelete *PendingDelete

	NowFunc func() time.Time
}

func New(api entriesAPI, metricsManager *metrics.Manager, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Tracker{
		api:            api,
		metricsManager: metricsManager,
		loc:            loc,
		baseCtx:        ctx,
		cancelAll:      cancel,
		collections:    make(map[entries.Kind][]entries.Entry, len(kinds)),
		NowFunc:        time.Now,
	}
}

// OnSessionChange is the session manager observer. A new generation
// cancels the running sync; signing in starts a fresh one.
func (t *Tracker) OnSessionChange(state session.State) {
	t.mutex.Lock()
	if state.Generation < t.generation {
		t.mutex.Unlock()
		log.Debugf("tracker: dropping stale session state (generation %d < %d)", state.Generation, t.generation)
		return
	}
	if state.Generation == t.generation && state.SignedIn == t.signedIn {
		t.mutex.Unlock()
		return
	}

	if t.cancelSync != nil {
		t.cancelSync()
		t.cancelSync = nil
	}
	t.generation = state.Generation
	t.signedIn = state.SignedIn
	t.userID = state.User.ID
	t.pendingDelete = nil
	for _, k := range kinds {
		t.collections[k] = nil
		t.setCollectionGauge(k, 0)
	}

	if !state.SignedIn || state.User.ID == "" {
		t.mutex.Unlock()
		log.Debugf("tracker: signed out, collections cleared (generation %d)", state.Generation)
		return
	}

	ctx, cancel := context.WithCancel(t.baseCtx)
	t.cancelSync = cancel
	t.syncWG.Add(1)
	t.mutex.Unlock()

	go func() {
		defer t.syncWG.Done()
		t.sync(ctx, state.Generation, state.User.ID)
	}()
}

func (t *Tracker) sync(ctx context.Context, generation uint64, userID string) {
	start := time.Now()
	var wg sync.WaitGroup
	for _, kind := range kinds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			list, err := t.api.List(ctx, userID, kind)
			if err != nil {
				if ctx.Err() == nil {
					log.Warnf("tracker: fetch %s entries: %s", kind, err)
					if t.metricsManager != nil {
						t.metricsManager.CounterSyncFailures.WithLabelValues(kind.String()).Inc()
					}
				}
				return
			}
			t.storeCollection(generation, kind, list)
		}()
	}
	wg.Wait()

	if t.metricsManager != nil {
		t.metricsManager.HistSyncDuration.Observe(time.Since(start).Seconds())
	}
	log.Debugf("tracker: sync of generation %d done in %s", generation, time.Since(start))
}

// storeCollection drops results that belong to an older session.
func (t *Tracker) storeCollection(generation uint64, kind entries.Kind, list []entries.Entry) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if generation != t.generation || !t.signedIn {
		log.Debugf("tracker: dropping stale %s entries of generation %d", kind, generation)
		return
	}
	if list == nil {
		list = []entries.Entry{}
	}
	t.collections[kind] = list
	t.setCollectionGauge(kind, len(list))
}

func (t *Tracker) setCollectionGauge(kind entries.Kind, size int) {
	if t.metricsManager != nil {
		t.metricsManager.GaugeCollectionSize.WithLabelValues(kind.String()).Set(float64(size))
	}
}

// Entries returns a copy of one collection, in stored order.
func (t *Tracker) Entries(kind entries.Kind) []entries.Entry {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return slices.Clone(t.collections[kind])
}

// Wait blocks until every started sync has finished.
func (t *Tracker) Wait() {
	t.syncWG.Wait()
}

// Close cancels running syncs and waits for them.
func (t *Tracker) Close() {
	t.cancelAll()
	t.syncWG.Wait()
}

func (t *Tracker) currentUser() (string, uint64, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.userID, t.generation, t.signedIn && t.userID != ""
}

// add prepends a stored entry unless the session changed meanwhile.
func (t *Tracker) add(generation uint64, entry entries.Entry) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if generation != t.generation || !t.signedIn {
		return
	}
	kind := entry.Kind()
	t.collections[kind] = append([]entries.Entry{entry}, t.collections[kind]...)
	t.setCollectionGauge(kind, len(t.collections[kind]))
}

func (t *Tracker) create(ctx context.Context, userID string, generation uint64, details entries.Details) error {
	entry := entries.New(details, t.NowFunc(), t.loc)
	id, err := t.api.Create(ctx, userID, entry)
	if err != nil {
		return err
	}
	t.add(generation, entry.WithID(id))
	return nil
}

// LogWeightlifting stores the complete rows of the form one by one. The
// first failure stops the loop; rows stored before it stay stored.
func (t *Tracker) LogWeightlifting(ctx context.Context, form *forms.WeightliftingForm) (string, error) {
	userID, generation, ok := t.currentUser()
	if !ok {
		return notSignedInMessage, ErrNotSignedIn
	}

	lifts, err := form.Build()
	if err != nil {
		return forms.UserMessage(err), err
	}

	for _, lift := range lifts {
		if err := t.create(ctx, userID, generation, lift); err != nil {
			log.Errorf("tracker: log %s: %s", lift.Exercise, err)
			return fmt.Sprintf("Error logging data: %s (%s)", ErrorText(err), lift.Exercise), err
		}
		form.Clear(lift.Exercise)
	}

	return fmt.Sprintf("Logged %d exercise(s)!", len(lifts)), nil
}

func (t *Tracker) LogBodyWeight(ctx context.Context, form *forms.BodyWeightForm) (string, error) {
	userID, generation, ok := t.currentUser()
	if !ok {
		return notSignedInMessage, ErrNotSignedIn
	}

	bw, err := form.Build()
	if err != nil {
		return forms.UserMessage(err), err
	}
	if err := t.create(ctx, userID, generation, bw); err != nil {
		log.Errorf("tracker: log body weight: %s", err)
		return "Error logging data: " + ErrorText(err), err
	}

	form.Clear()
	return "Body weight logged!", nil
}

func (t *Tracker) LogCardio(ctx context.Context, form *forms.CardioForm) (string, error) {
	userID, generation, ok := t.currentUser()
	if !ok {
		return notSignedInMessage, ErrNotSignedIn
	}

	cardio, err := form.Build()
	if err != nil {
		return forms.UserMessage(err), err
	}
	if err := t.create(ctx, userID, generation, cardio); err != nil {
		log.Errorf("tracker: log cardio: %s", err)
		return "Error logging data: " + ErrorText(err), err
	}

	form.Clear()
	return "Cardio logged!", nil
}

const notSignedInMessage = "Please sign in first."

// RequestDelete selects the entry to delete and waits for ConfirmDelete
// or CancelDelete.
func (t *Tracker) RequestDelete(kind entries.Kind, id string) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: type [%s]", entries.ErrInvalidEntry, kind)
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", entries.ErrInvalidEntry)
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.signedIn {
		return ErrNotSignedIn
	}
	if !slices.ContainsFunc(t.collections[kind], func(e entries.Entry) bool { return e.ID == id }) {
		return fmt.Errorf("%w: %s [%s]", entries.ErrNotFound, kind, id)
	}
	t.pendingDelete = &PendingDelete{Kind: kind, ID: id}
	return nil
}

func (t *Tracker) PendingDelete() (PendingDelete, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	if t.pendingDelete == nil {
		return PendingDelete{}, false
	}
	return *t.pendingDelete, true
}

func (t *Tracker) CancelDelete() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.pendingDelete = nil
}

// ConfirmDelete deletes the selected entry. The selection is cleared
// whatever the outcome.
func (t *Tracker) ConfirmDelete(ctx context.Context) (string, error) {
	t.mutex.Lock()
	pending := t.pendingDelete
	t.pendingDelete = nil
	userID, generation, signedIn := t.userID, t.generation, t.signedIn
	t.mutex.Unlock()

	if pending == nil {
		return "", ErrNoPendingDelete
	}
	if !signedIn || userID == "" {
		return notSignedInMessage, ErrNotSignedIn
	}

	if err := t.api.Delete(ctx, userID, pending.ID); err != nil {
		log.Errorf("tracker: delete %s entry %s: %s", pending.Kind, pending.ID, err)
		return "Error deleting data: " + ErrorText(err), err
	}

	t.remove(generation, pending.Kind, pending.ID)
	return fmt.Sprintf("%s entry deleted successfully!", pending.Kind.Title()), nil
}

func (t *Tracker) remove(generation uint64, kind entries.Kind, id string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if generation != t.generation || !t.signedIn {
		return
	}
	t.collections[kind] = slices.DeleteFunc(slices.Clone(t.collections[kind]), func(e entries.Entry) bool {
		return e.ID == id
	})
	t.setCollectionGauge(kind, len(t.collections[kind]))
}

// ErrorText picks the most useful text out of err for the message box.
func ErrorText(err error) string {
	var apiErr *entries.APIError
	var providerErr *identity.Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &providerErr):
		return providerErr.Error()
	case err.Error() == "":
		return "Unknown error"
	default:
		return err.Error()
	}
}

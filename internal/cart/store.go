package cart

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/marlowpress/storefront-backend/pkg/logger"
	"github.com/marlowpress/storefront-backend/pkg/types"
)

// Observer is invoked synchronously after every store mutation. By the time
// it runs, the mutation is fully applied: totals read inside an observer
// always reflect the mutation that triggered it.
type Observer func()

// Store owns the live cart for the process plus the cart UI visibility flag.
// Mutations are serialized in arrival order; each one notifies observers and
// hands a snapshot to durable storage without blocking the caller.
type Store struct {
	mu         sync.Mutex
	cart       *Cart
	open       bool
	observers  map[int]Observer
	nextObsID  int
	persistSeq uint64 // assigned with the mutation, under mu

	storage Storage
	logg    *logger.Logger

	persistMu    sync.Mutex
	persistedSeq uint64 // highest sequence durably written, under persistMu
	persistWG    sync.WaitGroup
}

const persistTimeout = 10 * time.Second

// NewStore binds a store to durable storage, hydrating any previously
// persisted cart. Construct one per application lifetime and inject it;
// everything sharing the store sees the one live cart.
func NewStore(ctx context.Context, storage Storage, logg *logger.Logger) (*Store, error) {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	s := &Store{
		cart:      New(),
		observers: map[int]Observer{},
		storage:   storage,
		logg:      logg,
	}
	data, err := storage.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) > 0 {
		restored, err := Deserialize(data)
		if err != nil {
			// A corrupt snapshot loses the cart, not the session.
			if logg != nil {
				logg.Warn(logg.WithField(ctx, "error", err.Error()), "discarding unreadable cart snapshot")
			}
		} else {
			s.cart = restored
		}
	}
	return s, nil
}

var (
	defaultOnce  sync.Once
	defaultStore *Store
)

// Default returns a lazily constructed process-wide store backed by memory
// storage. Prefer constructing and injecting a Store; this exists for
// call sites with no wiring seam.
func Default() *Store {
	defaultOnce.Do(func() {
		defaultStore, _ = NewStore(context.Background(), NewMemoryStorage(), nil)
	})
	return defaultStore
}

// Subscribe registers an observer and returns its unsubscribe function.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Cart returns a snapshot copy of the current cart.
func (s *Store) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Clone()
}

// Totals computes totals over the current cart.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// IsOpen reports the cart UI visibility flag.
func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// AddItem merges the item into the cart by identity.
func (s *Store) AddItem(item CartItem) {
	s.mutate(func(c *Cart) { c.AddItem(item) })
}

// RemoveItem deletes the identified item; absent ids are a no-op.
func (s *Store) RemoveItem(key string) {
	s.mutate(func(c *Cart) { c.RemoveItem(key) })
}

// SetQuantity sets the identified item's quantity; below one removes it.
func (s *Store) SetQuantity(key string, qty int) {
	s.mutate(func(c *Cart) { c.SetQuantity(key, qty) })
}

// SetEmail records the contact email.
func (s *Store) SetEmail(email string) {
	s.mutate(func(c *Cart) { c.Email = email })
}

// SetAddress records the shipping address captured at the delivery step.
func (s *Store) SetAddress(addr *types.Address) {
	s.mutate(func(c *Cart) { c.Address = addr })
}

// Clear empties the cart, as after a completed order.
func (s *Store) Clear() {
	s.mutate(func(c *Cart) { c.Clear() })
}

// Open flips the visibility flag on and notifies observers.
func (s *Store) Open() {
	s.setOpen(true)
}

// Close flips the visibility flag off and notifies observers.
func (s *Store) Close() {
	s.setOpen(false)
}

func (s *Store) setOpen(open bool) {
	s.mu.Lock()
	s.open = open
	observers := s.observerList()
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}

func (s *Store) mutate(apply func(*Cart)) {
	s.mu.Lock()
	apply(s.cart)
	data, err := Serialize(s.cart)
	var seq uint64
	if err == nil {
		// The sequence is taken while the mutation lock is still held, so
		// snapshot content and sequence order always agree even when two
		// mutators race to persist.
		s.persistSeq++
		seq = s.persistSeq
	}
	observers := s.observerList()
	s.mu.Unlock()

	if err == nil {
		s.persist(data, seq)
	} else if s.logg != nil {
		s.logg.Error(context.Background(), "cart snapshot serialization failed", err)
	}

	for _, fn := range observers {
		fn()
	}
}

func (s *Store) observerList() []Observer {
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	return observers
}

// persist hands the snapshot to storage off the caller's goroutine. Each
// snapshot carries the sequence assigned with its mutation; a slow older
// write is dropped rather than allowed to clobber a newer snapshot.
func (s *Store) persist(data []byte, seq uint64) {
	s.persistWG.Add(1)
	go func() {
		defer s.persistWG.Done()

		s.persistMu.Lock()
		defer s.persistMu.Unlock()
		if seq <= s.persistedSeq {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.storage.Save(ctx, data); err != nil {
			if s.logg != nil {
				s.logg.Error(ctx, "cart snapshot write failed", err)
			}
			return
		}
		s.persistedSeq = seq
	}()
}

// Flush waits for in-flight snapshot writes, typically at shutdown.
func (s *Store) Flush() {
	s.persistWG.Wait()
}

// Shutdown flushes pending writes and closes the storage backend when it
// holds closable resources.
func (s *Store) Shutdown() error {
	var errs error
	s.Flush()
	if closer, ok := s.storage.(interface{ Close() error }); ok {
		errs = multierr.Append(errs, closer.Close())
	}
	return errs
}

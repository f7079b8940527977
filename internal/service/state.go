// Package service implements the CardMaster application state: the entity
// collections, the mutations allowed on them, and the persistence of the whole
// state to a key-value store after every change.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/cardmaster/internal/idgen"
	"github.com/atinyakov/cardmaster/internal/models"
	"github.com/atinyakov/cardmaster/internal/seed"
)

// Storage keys of the persisted state.
const (
	KeyTransactions  = "cm_transactions"
	KeyCustomers     = "cm_customers"
	KeyTasks         = "cm_tasks"
	KeyNotifications = "cm_notifications"
	KeyUsers         = "cm_users"
	KeySiteName      = "cm_sitename"
	KeySiteLogo      = "cm_sitelogo"
)

// Storage defines the key-value persistence the State needs.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
}

// batchWriter is implemented by stores that can write several keys at once.
type batchWriter interface {
	SetAll(ctx context.Context, entries map[string][]byte) error
}

// Snapshot is a copy of the complete application state.
type Snapshot struct {
	Users         []models.User         `json:"users"`
	Transactions  []models.Transaction  `json:"transactions"`
	Customers     []models.Customer     `json:"customers"`
	Tasks         []models.Task         `json:"tasks"`
	Notifications []models.Notification `json:"notifications"`
	SiteName      string                `json:"siteName"`
	SiteLogo      string                `json:"siteLogo"`
}

// State owns every collection of the application. All mutations go through
// its methods and are followed by a full flush to the Storage.
type State struct {
	mu sync.RWMutex

	store    Storage
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	hashCost int
	notify   *Dispatcher

	users         []models.User
	transactions  []models.Transaction
	customers     []models.Customer
	tasks         []models.Task
	notifications []models.Notification
	siteName      string
	siteLogo      string
}

// Option customizes a State.
type Option func(*options)

type options struct {
	now        func() time.Time
	newID      func() string
	hashCost   int
	sampleSize int
	rng        *rand.Rand
}

// WithClock sets the time source used for dates and timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the generator of record identifiers.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithPasswordHashing stores passwords as bcrypt hashes of the given cost.
// Without it passwords are stored as entered.
func WithPasswordHashing(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// WithSampleSize sets how many sample transactions a fresh state starts with.
func WithSampleSize(n int) Option {
	return func(o *options) { o.sampleSize = n }
}

// WithRand sets the random source for sample data.
func WithRand(rng *rand.Rand) Option {
	return func(o *options) { o.rng = rng }
}

// NewState builds a State holding the built-in defaults: the three seeded
// accounts, generated sample transactions, empty customers, tasks and
// notifications, and the default site name. Nothing is read from store.
func NewState(store Storage, log *zap.Logger, opts ...Option) (*State, error) {
	o := options{
		now:        time.Now,
		newID:      idgen.New,
		sampleSize: seed.SampleSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = zap.NewNop()
	}

	s := &State{
		store:         store,
		log:           log,
		now:           o.now,
		newID:         o.newID,
		hashCost:      o.hashCost,
		notify:        NewDispatcher(o.newID, o.now),
		users:         seed.Users(),
		transactions:  seed.Transactions(o.rng, o.now(), o.sampleSize, o.newID),
		customers:     []models.Customer{},
		tasks:         []models.Task{},
		notifications: []models.Notification{},
		siteName:      seed.DefaultSiteName,
	}

	for i := range s.users {
		hashed, err := s.hashPassword(s.users[i].Password)
		if err != nil {
			return nil, err
		}
		s.users[i].Password = hashed
	}
	return s, nil
}

// Open builds a State and loads any previously persisted collections.
func Open(ctx context.Context, store Storage, log *zap.Logger, opts ...Option) (*State, error) {
	s, err := NewState(store, log, opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Load reads every key from the store. Each present key replaces the
// corresponding in-memory collection; absent keys keep their current value.
// Malformed stored data is returned as an error.
func (s *State) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	collections := []struct {
		key    string
		decode func([]byte) error
	}{
		{KeyTransactions, decodeList(&s.transactions)},
		{KeyCustomers, decodeList(&s.customers)},
		{KeyTasks, decodeList(&s.tasks)},
		{KeyNotifications, decodeList(&s.notifications)},
		{KeyUsers, decodeList(&s.users)},
	}
	for _, c := range collections {
		raw, ok, err := s.store.Get(ctx, c.key)
		if err != nil {
			return fmt.Errorf("load %s: %w", c.key, err)
		}
		if !ok {
			continue
		}
		if err := c.decode(raw); err != nil {
			return fmt.Errorf("decode %s: %w", c.key, err)
		}
	}

	scalars := []struct {
		key string
		dst *string
	}{
		{KeySiteName, &s.siteName},
		{KeySiteLogo, &s.siteLogo},
	}
	for _, c := range scalars {
		raw, ok, err := s.store.Get(ctx, c.key)
		if err != nil {
			return fmt.Errorf("load %s: %w", c.key, err)
		}
		if ok {
			*c.dst = string(raw)
		}
	}

	s.log.Info("state loaded",
		zap.Int("users", len(s.users)),
		zap.Int("transactions", len(s.transactions)),
		zap.Int("customers", len(s.customers)),
		zap.Int("tasks", len(s.tasks)),
		zap.Int("notifications", len(s.notifications)),
	)
	return nil
}

// decodeList returns a decoder that replaces *dst with a freshly decoded list.
func decodeList[T any](dst *[]T) func([]byte) error {
	return func(raw []byte) error {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return err
		}
		if list == nil {
			list = []T{}
		}
		*dst = list
		return nil
	}
}

// Flush writes the complete state to the store.
func (s *State) Flush(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.write(ctx)
}

// flush persists the state after a mutation. Failures are logged and
// otherwise ignored; the in-memory state stays authoritative.
// The caller must hold s.mu.
func (s *State) flush(ctx context.Context) {
	if err := s.write(ctx); err != nil {
		s.log.Error("failed to persist state", zap.Error(err))
	}
}

func (s *State) write(ctx context.Context) error {
	entries, err := s.encode()
	if err != nil {
		return err
	}

	if bw, ok := s.store.(batchWriter); ok {
		return bw.SetAll(ctx, entries)
	}
	for _, key := range []string{KeyTransactions, KeyCustomers, KeyTasks, KeyNotifications, KeyUsers, KeySiteName, KeySiteLogo} {
		if err := s.store.Set(ctx, key, entries[key]); err != nil {
			return err
		}
	}
	return nil
}

func (s *State) encode() (map[string][]byte, error) {
	entries := make(map[string][]byte, 7)
	collections := map[string]any{
		KeyTransactions:  s.transactions,
		KeyCustomers:     s.customers,
		KeyTasks:         s.tasks,
		KeyNotifications: s.notifications,
		KeyUsers:         s.users,
	}
	for key, v := range collections {
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		entries[key] = raw
	}
	entries[KeySiteName] = []byte(s.siteName)
	entries[KeySiteLogo] = []byte(s.siteLogo)
	return entries, nil
}

// Snapshot returns a deep copy of the whole state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Users:         slices.Clone(s.users),
		Transactions:  cloneEach(s.transactions, cloneTransaction),
		Customers:     cloneEach(s.customers, cloneCustomer),
		Tasks:         cloneEach(s.tasks, cloneTask),
		Notifications: slices.Clone(s.notifications),
		SiteName:      s.siteName,
		SiteLogo:      s.siteLogo,
	}
}

func cloneEach[T any](list []T, clone func(T) T) []T {
	if list == nil {
		return nil
	}
	out := make([]T, len(list))
	for i, v := range list {
		out[i] = clone(v)
	}
	return out
}

func cloneTransaction(t models.Transaction) models.Transaction {
	t.DepositImages = slices.Clone(t.DepositImages)
	t.WithdrawImages = slices.Clone(t.WithdrawImages)
	return t
}

func cloneCustomer(c models.Customer) models.Customer {
	c.IDCardImages = slices.Clone(c.IDCardImages)
	c.CardImages = slices.Clone(c.CardImages)
	return c
}

func cloneTask(t models.Task) models.Task {
	t.AssignedTo = slices.Clone(t.AssignedTo)
	t.AssignedToNames = slices.Clone(t.AssignedToNames)
	t.Comments = slices.Clone(t.Comments)
	return t
}

func (s *State) today() string {
	return models.FormatDate(s.now())
}

// replaceByID replaces the element whose id matches and reports whether one did.
func replaceByID[T any](list []T, id string, idOf func(T) string, rec T) bool {
	for i := range list {
		if idOf(list[i]) == id {
			list[i] = rec
			return true
		}
	}
	return false
}

// deleteByID removes the element whose id matches and reports whether one did.
func deleteByID[T any](list []T, id string, idOf func(T) string) ([]T, bool) {
	i := slices.IndexFunc(list, func(v T) bool { return idOf(v) == id })
	if i < 0 {
		return list, false
	}
	return slices.Delete(list, i, i+1), true
}

func findByID[T any](list []T, id string, idOf func(T) string) (T, bool) {
	for _, v := range list {
		if idOf(v) == id {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func userID(u models.User) string                 { return u.ID }
func transactionID(t models.Transaction) string   { return t.ID }
func customerID(c models.Customer) string         { return c.ID }
func taskID(t models.Task) string                 { return t.ID }
func notificationID(n models.Notification) string { return n.ID }

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

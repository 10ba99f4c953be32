package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// OrderStoreStub keeps the three order collections in memory. Any Fn
// override replaces the default behaviour of its method; Calls records the
// method names in invocation order.
type OrderStoreStub struct {
	FindActiveFn         func(context.Context, string) (*model.Order, error)
	InsertActiveFn       func(context.Context, model.Order) error
	UpdateActiveStatusFn func(context.Context, string, model.OrderStatus, string) error
	DeleteActiveFn       func(context.Context, string) error
	UpsertHistoryFn      func(context.Context, model.Order) error
	InsertArchiveFn      func(context.Context, model.Order) (bool, error)
	AppendTransitionFn   func(context.Context, model.Transition) error
	ListActiveFn         func(context.Context) ([]model.Order, error)
	ListHistoryFn        func(context.Context) ([]model.Order, error)

	mu          sync.Mutex
	active      map[string]model.Order
	archive     map[string]model.Order
	history     map[string]model.Order
	transitions []model.Transition
	calls       []string
}

// NewOrderStoreStub seeds active orders and mirrors them into history.
func NewOrderStoreStub(active ...model.Order) *OrderStoreStub {
	s := &OrderStoreStub{
		active:  make(map[string]model.Order),
		archive: make(map[string]model.Order),
		history: make(map[string]model.Order),
	}
	for _, o := range active {
		s.active[o.Number] = o
		s.history[o.Number] = o
	}
	return s
}

func (s *OrderStoreStub) record(name string) {
	s.mu.Lock()
	s.calls = append(s.calls, name)
	s.mu.Unlock()
}

// Calls returns recorded method names.
func (s *OrderStoreStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Active returns the active record for number.
func (s *OrderStoreStub) Active(number string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.active[number]
	return o, ok
}

// Archived returns the archive record for number.
func (s *OrderStoreStub) Archived(number string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.archive[number]
	return o, ok
}

// History returns the history record for number.
func (s *OrderStoreStub) History(number string) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.history[number]
	return o, ok
}

// SeedArchive places records straight into the archive.
func (s *OrderStoreStub) SeedArchive(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		s.archive[o.Number] = o
	}
}

// SeedHistory places records straight into history.
func (s *OrderStoreStub) SeedHistory(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		s.history[o.Number] = o
	}
}

func sortedNewestFirst(m map[string]model.Order) []model.Order {
	out := make([]model.Order, 0, len(m))
	for _, o := range m {
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Number < out[j].Number
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *OrderStoreStub) ListActive(ctx context.Context) ([]model.Order, error) {
	s.record("ListActive")
	if s.ListActiveFn != nil {
		return s.ListActiveFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedNewestFirst(s.active), nil
}

func (s *OrderStoreStub) ListArchive(context.Context) ([]model.Order, error) {
	s.record("ListArchive")
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedNewestFirst(s.archive), nil
}

func (s *OrderStoreStub) ListHistory(ctx context.Context) ([]model.Order, error) {
	s.record("ListHistory")
	if s.ListHistoryFn != nil {
		return s.ListHistoryFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedNewestFirst(s.history), nil
}

func (s *OrderStoreStub) FindActiveByOrderNumber(ctx context.Context, number string) (*model.Order, error) {
	s.record("FindActiveByOrderNumber")
	if s.FindActiveFn != nil {
		return s.FindActiveFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.active[number]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &o, nil
}

func (s *OrderStoreStub) InsertActive(ctx context.Context, order model.Order) error {
	s.record("InsertActive")
	if s.InsertActiveFn != nil {
		return s.InsertActiveFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[order.Number]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.active[order.Number] = order
	return nil
}

func (s *OrderStoreStub) UpdateActiveStatus(ctx context.Context, number string, status model.OrderStatus, label string) error {
	s.record("UpdateActiveStatus")
	if s.UpdateActiveStatusFn != nil {
		return s.UpdateActiveStatusFn(ctx, number, status, label)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.active[number]
	if !ok {
		return domainErrors.ErrNotFound
	}
	o.Status = status
	o.StatusLabel = label
	s.active[number] = o
	return nil
}

func (s *OrderStoreStub) DeleteActive(ctx context.Context, number string) error {
	s.record("DeleteActive")
	if s.DeleteActiveFn != nil {
		return s.DeleteActiveFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.active[number]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.active, number)
	return nil
}

func (s *OrderStoreStub) UpsertHistory(ctx context.Context, order model.Order) error {
	s.record("UpsertHistory")
	if s.UpsertHistoryFn != nil {
		return s.UpsertHistoryFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.history[order.Number]; ok && !prev.CreatedAt.IsZero() {
		order.CreatedAt = prev.CreatedAt
	}
	s.history[order.Number] = order
	return nil
}

func (s *OrderStoreStub) MirrorActiveToHistory(_ context.Context, number string) (bool, error) {
	s.record("MirrorActiveToHistory")
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.active[number]
	if !ok {
		return false, nil
	}
	if prev, ok := s.history[number]; ok && !prev.CreatedAt.IsZero() {
		order.CreatedAt = prev.CreatedAt
	}
	s.history[number] = order
	return true, nil
}

func (s *OrderStoreStub) InsertArchive(ctx context.Context, order model.Order) (bool, error) {
	s.record("InsertArchive")
	if s.InsertArchiveFn != nil {
		return s.InsertArchiveFn(ctx, order)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.archive[order.Number]; ok {
		return false, nil
	}
	s.archive[order.Number] = order
	return true, nil
}

func (s *OrderStoreStub) ListArchiveSince(_ context.Context, since time.Time) ([]model.Order, error) {
	s.record("ListArchiveSince")
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, o := range sortedNewestFirst(s.archive) {
		if !o.CreatedAt.Before(since) {
			out = append(out, o)
		}
	}
	if out == nil {
		out = []model.Order{}
	}
	return out, nil
}

func (s *OrderStoreStub) AppendTransition(ctx context.Context, t model.Transition) error {
	s.record("AppendTransition")
	if s.AppendTransitionFn != nil {
		return s.AppendTransitionFn(ctx, t)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transitions = append(s.transitions, t)
	return nil
}

func (s *OrderStoreStub) ListTransitions(_ context.Context, number string) ([]model.Transition, error) {
	s.record("ListTransitions")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Transition{}
	for _, t := range s.transitions {
		if t.OrderNumber == number {
			out = append(out, t)
		}
	}
	return out, nil
}

// BlacklistStoreStub is an in-memory phone set.
type BlacklistStoreStub struct {
	AddFn      func(context.Context, string) error
	RemoveFn   func(context.Context, string) error
	ContainsFn func(context.Context, string) (bool, error)

	mu      sync.Mutex
	numbers []string
}

// NewBlacklistStoreStub seeds the set.
func NewBlacklistStoreStub(numbers ...string) *BlacklistStoreStub {
	return &BlacklistStoreStub{numbers: append([]string(nil), numbers...)}
}

func (s *BlacklistStoreStub) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.numbers...), nil
}

func (s *BlacklistStoreStub) Add(ctx context.Context, number string) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.numbers {
		if n == number {
			return nil
		}
	}
	s.numbers = append([]string{number}, s.numbers...)
	return nil
}

func (s *BlacklistStoreStub) Remove(ctx context.Context, number string) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.numbers {
		if n == number {
			s.numbers = append(s.numbers[:i], s.numbers[i+1:]...)
			break
		}
	}
	return nil
}

func (s *BlacklistStoreStub) Contains(ctx context.Context, number string) (bool, error) {
	if s.ContainsFn != nil {
		return s.ContainsFn(ctx, number)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.numbers {
		if n == number {
			return true, nil
		}
	}
	return false, nil
}

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	Users map[string]*model.User
	ByID  map[int64]*model.User
	Next  int64
	Err   error
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		Users: make(map[string]*model.User),
		ByID:  make(map[int64]*model.User),
		Next:  1,
	}
}

// Create registers user unless already exists or stub has explicit error.
func (s *UserRepositoryStub) Create(_ context.Context, user model.User) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Users == nil {
		s.Users = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[int64]*model.User)
	}
	if _, exists := s.Users[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	if s.Next == 0 {
		s.Next = 1
	}
	created := user
	created.ID = s.Next
	s.Next++
	s.Users[created.Email] = &created
	s.ByID[created.ID] = &created
	return &created, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.Users[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(_ context.Context, id int64) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

func (s *UserRepositoryStub) SetResetToken(_ context.Context, id int64, token string, expiresAt time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.ResetToken = token
	user.ResetExpiresAt = expiresAt
	return nil
}

func (s *UserRepositoryStub) GetByResetToken(_ context.Context, token string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, user := range s.ByID {
		if token != "" && user.ResetToken == token {
			return user, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

func (s *UserRepositoryStub) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	if s.Err != nil {
		return s.Err
	}
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.ResetToken = ""
	user.ResetExpiresAt = time.Time{}
	return nil
}

// List returns up to limit users ordered by id.
func (s *UserRepositoryStub) List(_ context.Context, limit int) ([]model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]model.User, 0, len(s.ByID))
	for _, user := range s.ByID {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// SubscriptionStoreStub keeps sign-ups in memory.
type SubscriptionStoreStub struct {
	Err error

	mu     sync.Mutex
	emails map[string]model.Subscription
}

func NewSubscriptionStoreStub() *SubscriptionStoreStub {
	return &SubscriptionStoreStub{emails: make(map[string]model.Subscription)}
}

func (s *SubscriptionStoreStub) Subscribe(_ context.Context, sub model.Subscription) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.emails[sub.Email]; ok {
		return domainErrors.ErrAlreadyExists
	}
	s.emails[sub.Email] = sub
	return nil
}

// Subscribed reports whether email was stored.
func (s *SubscriptionStoreStub) Subscribed(email string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.emails[email]
	return ok
}

var (
	_ repository.OrderStore        = (*OrderStoreStub)(nil)
	_ repository.BlacklistStore    = (*BlacklistStoreStub)(nil)
	_ repository.UserRepository    = (*UserRepositoryStub)(nil)
	_ repository.SubscriptionStore = (*SubscriptionStoreStub)(nil)
)

// FactoryStub bundles in-memory stores behind repository.Factory.
type FactoryStub struct {
	OrderStore        *OrderStoreStub
	BlacklistStore    *BlacklistStoreStub
	UserStore         *UserRepositoryStub
	SubscriptionStore *SubscriptionStoreStub
	HealthErr         error
	Closed            bool
}

// NewFactoryStub returns a factory over empty stores.
func NewFactoryStub() *FactoryStub {
	return &FactoryStub{
		OrderStore:        NewOrderStoreStub(),
		BlacklistStore:    NewBlacklistStoreStub(),
		UserStore:         NewUserRepositoryStub(),
		SubscriptionStore: NewSubscriptionStoreStub(),
	}
}

func (f *FactoryStub) Orders() repository.OrderStore { return f.OrderStore }
func (f *FactoryStub) Blacklist() repository.BlacklistStore { return f.BlacklistStore }
func (f *FactoryStub) Users() repository.UserRepository { return f.UserStore }
func (f *FactoryStub) Subscriptions() repository.SubscriptionStore {
	return f.SubscriptionStore
}

func (f *FactoryStub) HealthCheck(context.Context) error { return f.HealthErr }

func (f *FactoryStub) Close() { f.Closed = true }

var _ repository.Factory = (*FactoryStub)(nil)

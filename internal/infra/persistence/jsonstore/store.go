package jsonstore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"usersvc/internal/domain/entity"
	"usersvc/internal/domain/repository"
	"usersvc/internal/errors"
)

var (
	// ErrStoreIO is matched by failures to create, read or write the mirror.
	ErrStoreIO = errors.New("store i/o failure")
	// ErrStoreParse is matched when the mirror is not a JSON array of users.
	ErrStoreParse = errors.New("store document is malformed")
	// ErrStoreEncode is matched when the collection cannot be encoded.
	ErrStoreEncode = errors.New("store encode failure")
	// ErrNilUser is returned by Add for a nil record.
	ErrNilUser = errors.New("user is nil")
)

var emptyDocument = []byte("[]")

// LoadPolicy decides what happens when the mirror cannot be loaded.
type LoadPolicy string

const (
	// LoadPolicyFail returns the load error to every caller.
	LoadPolicyFail LoadPolicy = "fail"
	// LoadPolicyEmpty logs the error and continues with an empty, degraded store.
	LoadPolicyEmpty LoadPolicy = "empty"
)

// Options configures a Store.
type Options struct {
	OnLoadError LoadPolicy
	Logger      *slog.Logger
}

// Store is the single owner of the user collection. One mutex guards the slice,
// the load state and every write to the mirror.
type Store struct {
	mu     sync.Mutex
	mirror Mirror
	policy LoadPolicy
	logger *slog.Logger

	users   []*entity.User
	state   repository.StoreState
	loadErr error

	degradedWriteLogged bool
}

var (
	_ repository.UserRepository = (*Store)(nil)
	_ repository.HealthReporter = (*Store)(nil)
)

// New returns an unloaded store. The mirror is read on Load or on first access.
func New(mirror Mirror, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	policy := opts.OnLoadError
	if policy == "" {
		policy = LoadPolicyFail
	}

	return &Store{
		mirror: mirror,
		policy: policy,
		logger: logger.With(slog.String("store", mirror.String())),
		state:  repository.StoreUninitialized,
	}
}

// Load reads the mirror, creating it as an empty array first if it does not exist.
// It runs at most once; later calls return the first outcome.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ensureLoaded(ctx)
}

// Add appends user and rewrites the whole mirror while holding the lock.
// A failed write leaves the record appended in memory. Caller cancellation is
// ignored once Add has started so memory and mirror cannot diverge.
func (s *Store) Add(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.WithStack(ErrNilUser)
	}
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	s.users = append(s.users, user.Clone())

	return s.persist(ctx)
}

// List returns a copy of the collection in insertion order. The result is never nil.
func (s *Store) List(ctx context.Context) ([]*entity.User, error) {
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	users := make([]*entity.User, len(s.users))
	for i, u := range s.users {
		users[i] = u.Clone()
	}

	return users, nil
}

// Status reports the load state without triggering a load.
func (s *Store) Status() repository.StoreHealth {
	s.mu.Lock()
	defer s.mu.Unlock()

	health := repository.StoreHealth{
		State:    s.state,
		Location: s.mirror.String(),
		Records:  len(s.users),
	}
	if s.loadErr != nil {
		health.LoadError = s.loadErr.Error()
	}

	return health
}

// Path describes where the collection is mirrored.
func (s *Store) Path() string {
	return s.mirror.String()
}

// Close releases the mirror.
func (s *Store) Close() error {
	return s.mirror.Close()
}

// ensureLoaded must be called with s.mu held.
func (s *Store) ensureLoaded(ctx context.Context) error {
	if s.state != repository.StoreUninitialized {
		return nil
	}
	if s.loadErr != nil {
		return s.loadErr
	}

	users, err := s.readAll(ctx)
	if err != nil {
		s.loadErr = err
		if s.policy != LoadPolicyEmpty {
			return err
		}

		s.logger.Error("User store could not be loaded, continuing with an empty collection",
			slog.Any("error", err),
		)
		s.users = []*entity.User{}
		s.state = repository.StoreDegraded

		return nil
	}

	s.users = users
	s.state = repository.StoreLoaded
	s.logger.Info("User store loaded", slog.Int("records", len(users)))

	return nil
}

func (s *Store) readAll(ctx context.Context) ([]*entity.User, error) {
	exists, err := s.mirror.Exists(ctx)
	if err != nil {
		return nil, newStoreError(ErrStoreIO, "check store", err)
	}

	if !exists {
		if err := s.mirror.Write(ctx, emptyDocument); err != nil {
			return nil, newStoreError(ErrStoreIO, "create store", err)
		}
		s.logger.Info("Created empty user store")
	}

	data, err := s.mirror.Read(ctx)
	if err != nil {
		return nil, newStoreError(ErrStoreIO, "read store", err)
	}

	var users []*entity.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, newStoreError(ErrStoreParse, "decode store", err)
	}

	for i, u := range users {
		if u == nil {
			return nil, newStoreError(ErrStoreParse, "decode store", errors.Errorf("element %d is null", i))
		}
	}

	if users == nil {
		users = []*entity.User{}
	}

	return users, nil
}

// persist must be called with s.mu held.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return newStoreError(ErrStoreEncode, "encode store", err)
	}

	if s.state == repository.StoreDegraded && !s.degradedWriteLogged {
		s.degradedWriteLogged = true
		s.logger.Warn("Overwriting user store that failed to load",
			slog.String("load_error", s.loadErr.Error()),
		)
	}

	if err := s.mirror.Write(ctx, data); err != nil {
		return newStoreError(ErrStoreIO, "write store", err)
	}

	return nil
}

// storeError tags an underlying failure with one of the store sentinels.
type storeError struct {
	kind error
	op   string
	err  error
}

func newStoreError(kind error, op string, err error) error {
	return errors.WithStack(&storeError{kind: kind, op: op, err: err})
}

func (e *storeError) Error() string {
	return e.op + ": " + e.err.Error()
}

func (e *storeError) Unwrap() []error {
	return []error{e.kind, e.err}
}

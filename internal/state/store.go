package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/storage"
)

// Key names a slot of the application state.
type Key string

const (
	KeyCurrentMeme     Key = "currentMeme"
	KeySavedMemes      Key = "savedMemes"
	KeyUserPreferences Key = "userPreferences"
	KeyIsGenerating    Key = "isGenerating"
	KeyChatHistory     Key = "chatHistory"
	KeyCurrentView     Key = "currentView"
)

// View identifies the active screen.
type View string

const (
	ViewHome     View = "home"
	ViewCreate   View = "create"
	ViewSettings View = "settings"
)

// ParseView maps a view name to a View, defaulting to ViewHome.
func ParseView(name string) View {
	switch View(name) {
	case ViewCreate:
		return ViewCreate
	case ViewSettings:
		return ViewSettings
	default:
		return ViewHome
	}
}

// StoragePrefix namespaces persisted slots in the backend.
const StoragePrefix = "memeGenerator_"

// persistedKeys is the allowlist of slots written to the backend.
var persistedKeys = []Key{KeySavedMemes, KeyUserPreferences}

var (
	// ErrUnknownKey is returned for keys outside the slot set.
	ErrUnknownKey = errors.New("unknown state key")
	// ErrInvalidValue is returned when a value does not fit the slot type.
	ErrInvalidValue = errors.New("invalid value for state key")
	// ErrNoChange may be returned by an Update function to leave the slot
	// untouched. Update then returns nil.
	ErrNoChange = errors.New("no change")
)

// State is the whole application state record.
type State struct {
	CurrentMeme     *meme.Meme
	SavedMemes      []meme.Meme
	UserPreferences prefs.Prefs
	IsGenerating    bool
	ChatHistory     []meme.ChatMessage
	CurrentView     View
}

func defaultState() State {
	return State{
		SavedMemes:      []meme.Meme{},
		UserPreferences: prefs.Default(),
		ChatHistory:     []meme.ChatMessage{},
		CurrentView:     ViewHome,
	}
}

// Observer receives the new value of a slot after each Set.
type Observer func(value any)

// Subscription identifies a registered observer.
type Subscription struct {
	key Key
	id  uint64
}

// Key returns the slot the subscription watches.
func (s Subscription) Key() Key {
	return s.key
}

type observer struct {
	id uint64
	fn Observer
}

// Store owns the application state, notifies observers and persists the
// allowlisted slots.
type Store struct {
	mu        sync.RWMutex
	state     State
	observers map[Key][]observer
	nextID    uint64
	backend   storage.Backend
	logger    *log.Logger
	// persistMu orders backend writes and refreshes. It is never held while
	// observers run.
	persistMu sync.Mutex
	// seq counts assignments per slot; persisted is the seq last written to
	// or read from the backend. A persist whose seq is no longer current is
	// dropped because a newer value is on its way.
	seq       map[Key]uint64
	persisted map[Key]uint64
	// synced holds the last raw value read from or written to the backend
	// per persisted slot.
	synced map[Key]string
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes load diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store holding default state. A nil backend keeps everything
// in memory.
func New(backend storage.Backend, opts ...Option) *Store {
	if backend == nil {
		backend = storage.NewMemoryBackend()
	}
	s := &Store{
		state:     defaultState(),
		observers: make(map[Key][]observer),
		seq:       make(map[Key]uint64),
		persisted: make(map[Key]uint64),
		synced:    make(map[Key]string),
		backend:   backend,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open builds a store and hydrates it from the backend.
func Open(ctx context.Context, backend storage.Backend, opts ...Option) (*Store, error) {
	s := New(backend, opts...)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the slot value as stored. Callers must not mutate it.
func (s *Store) Get(key Key) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch key {
	case KeyCurrentMeme:
		return s.state.CurrentMeme
	case KeySavedMemes:
		return s.state.SavedMemes
	case KeyUserPreferences:
		return s.state.UserPreferences
	case KeyIsGenerating:
		return s.state.IsGenerating
	case KeyChatHistory:
		return s.state.ChatHistory
	case KeyCurrentView:
		return s.state.CurrentView
	default:
		return nil
	}
}

// Snapshot returns a copy of the whole state. Slices and the current meme
// are cloned.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.state
	snap.SavedMemes = cloneMemes(s.state.SavedMemes)
	snap.ChatHistory = cloneChat(s.state.ChatHistory)
	if s.state.CurrentMeme != nil {
		current := *s.state.CurrentMeme
		snap.CurrentMeme = &current
	}
	return snap
}

// Set replaces a slot, notifies its observers in registration order and
// persists allowlisted slots.
func (s *Store) Set(ctx context.Context, key Key, value any) error {
	return s.write(ctx, key, func(any) (any, error) { return value, nil })
}

// Update replaces a slot with fn applied to a copy of its current value.
// The read and the assignment happen under one lock, so concurrent Updates
// of the same slot never lose each other's changes. fn must not call back
// into the store. Returning ErrNoChange skips the write.
func (s *Store) Update(ctx context.Context, key Key, fn func(current any) (any, error)) error {
	return s.write(ctx, key, fn)
}

func (s *Store) write(ctx context.Context, key Key, fn func(any) (any, error)) error {
	s.mu.Lock()
	next, err := fn(s.copyOf(key))
	if err != nil {
		s.mu.Unlock()
		if errors.Is(err, ErrNoChange) {
			return nil
		}
		return err
	}
	stored, err := s.assign(key, next)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.seq[key]++
	seq := s.seq[key]
	observers := append([]observer(nil), s.observers[key]...)
	s.mu.Unlock()

	for _, o := range observers {
		o.fn(stored)
	}

	if isPersisted(key) {
		return s.persist(ctx, key, stored, seq)
	}
	return nil
}

// copyOf returns a copy of the slot that fn may modify. Caller holds mu.
func (s *Store) copyOf(key Key) any {
	switch key {
	case KeyCurrentMeme:
		if s.state.CurrentMeme == nil {
			return (*meme.Meme)(nil)
		}
		current := *s.state.CurrentMeme
		return &current
	case KeySavedMemes:
		return cloneMemes(s.state.SavedMemes)
	case KeyUserPreferences:
		return s.state.UserPreferences
	case KeyIsGenerating:
		return s.state.IsGenerating
	case KeyChatHistory:
		return cloneChat(s.state.ChatHistory)
	case KeyCurrentView:
		return s.state.CurrentView
	default:
		return nil
	}
}

// assign stores value under key and returns the stored form. Caller holds mu.
func (s *Store) assign(key Key, value any) (any, error) {
	switch key {
	case KeyCurrentMeme:
		switch v := value.(type) {
		case nil:
			s.state.CurrentMeme = nil
		case *meme.Meme:
			if v == nil {
				s.state.CurrentMeme = nil
				break
			}
			current := *v
			s.state.CurrentMeme = &current
		case meme.Meme:
			s.state.CurrentMeme = &v
		default:
			return nil, invalid(key, value)
		}
		return s.state.CurrentMeme, nil

	case KeySavedMemes:
		v, ok := value.([]meme.Meme)
		if !ok {
			return nil, invalid(key, value)
		}
		s.state.SavedMemes = cloneMemes(v)
		return s.state.SavedMemes, nil

	case KeyUserPreferences:
		v, ok := value.(prefs.Prefs)
		if !ok {
			return nil, invalid(key, value)
		}
		s.state.UserPreferences = v
		return v, nil

	case KeyIsGenerating:
		v, ok := value.(bool)
		if !ok {
			return nil, invalid(key, value)
		}
		s.state.IsGenerating = v
		return v, nil

	case KeyChatHistory:
		v, ok := value.([]meme.ChatMessage)
		if !ok {
			return nil, invalid(key, value)
		}
		s.state.ChatHistory = cloneChat(meme.TrimChat(v))
		return s.state.ChatHistory, nil

	case KeyCurrentView:
		switch v := value.(type) {
		case View:
			s.state.CurrentView = ParseView(string(v))
		case string:
			s.state.CurrentView = ParseView(v)
		default:
			return nil, invalid(key, value)
		}
		return s.state.CurrentView, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// Subscribe registers fn to run after every Set of key.
func (s *Store) Subscribe(key Key, fn Observer) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.observers[key] = append(s.observers[key], observer{id: s.nextID, fn: fn})
	return Subscription{key: key, id: s.nextID}
}

// Unsubscribe removes a registered observer and reports whether it existed.
func (s *Store) Unsubscribe(sub Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.observers[sub.key]
	for i, o := range list {
		if o.id == sub.id {
			s.observers[sub.key] = append(list[:i:i], list[i+1:]...)
			return true
		}
	}
	return false
}

// Load hydrates the allowlisted slots from the backend. Undecodable values
// are logged and skipped; backend read failures are joined and returned
// after every key has been tried.
func (s *Store) Load(ctx context.Context) error {
	var errs []error
	for _, key := range persistedKeys {
		raw, ok, err := s.backend.Get(ctx, storageKey(key))
		if err != nil {
			errs = append(errs, fmt.Errorf("load %s: %w", key, err))
			continue
		}
		if !ok {
			continue
		}
		s.persistMu.Lock()
		err = s.decode(key, raw)
		s.persistMu.Unlock()
		if err != nil {
			s.logger.Printf("error loading %s from storage: %v", key, err)
		}
	}
	return errors.Join(errs...)
}

// Refresh re-reads the persisted slots and publishes the ones another
// process changed since this store last read or wrote them. Nothing is
// written back. A slot with a local write still in flight is left alone;
// that write wins.
func (s *Store) Refresh(ctx context.Context) ([]Key, error) {
	var (
		changed []Key
		errs    []error
	)
	for _, key := range persistedKeys {
		ok, err := s.refreshKey(ctx, key)
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", key, err))
			continue
		}
		if ok {
			s.notify(key)
			changed = append(changed, key)
		}
	}
	return changed, errors.Join(errs...)
}

// refreshKey reports whether key was replaced from the backend.
func (s *Store) refreshKey(ctx context.Context, key Key) (bool, error) {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	raw, ok, err := s.backend.Get(ctx, storageKey(key))
	if err != nil || !ok {
		return false, err
	}
	s.mu.RLock()
	skip := s.synced[key] == raw || s.seq[key] != s.persisted[key]
	s.mu.RUnlock()
	if skip {
		return false, nil
	}
	if err := s.decode(key, raw); err != nil {
		s.logger.Printf("error refreshing %s from storage: %v", key, err)
		return false, nil
	}
	return true, nil
}

// notify runs the observers of key with its current value.
func (s *Store) notify(key Key) {
	value := s.Get(key)
	s.mu.RLock()
	observers := append([]observer(nil), s.observers[key]...)
	s.mu.RUnlock()

	for _, o := range observers {
		o.fn(value)
	}
}

// decode replaces a persisted slot with its stored JSON form. Caller holds
// persistMu.
func (s *Store) decode(key Key, raw string) error {
	var apply func()
	switch key {
	case KeySavedMemes:
		var memes []meme.Meme
		if err := json.Unmarshal([]byte(raw), &memes); err != nil {
			s.markSynced(key, raw)
			return err
		}
		if memes == nil {
			memes = []meme.Meme{}
		}
		apply = func() { s.state.SavedMemes = memes }
	case KeyUserPreferences:
		p := prefs.Default()
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			s.markSynced(key, raw)
			return err
		}
		apply = func() { s.state.UserPreferences = p }
	default:
		return nil
	}

	s.mu.Lock()
	apply()
	s.seq[key]++
	s.persisted[key] = s.seq[key]
	s.synced[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *Store) markSynced(key Key, raw string) {
	s.mu.Lock()
	s.synced[key] = raw
	s.mu.Unlock()
}

// persist writes value unless a newer assignment of key has superseded seq.
func (s *Store) persist(ctx context.Context, key Key, value any, seq uint64) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.RLock()
	stale := s.seq[key] != seq
	s.mu.RUnlock()
	if stale {
		return nil
	}
	err = s.backend.Set(ctx, storageKey(key), string(data))

	s.mu.Lock()
	defer s.mu.Unlock()
	// A failed write still settles seq so Refresh can pick up other writers.
	s.persisted[key] = seq
	if err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	s.synced[key] = string(data)
	return nil
}

// Reset clears the backend and restores the persisted slots to defaults.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	if err := s.Set(ctx, KeySavedMemes, []meme.Meme{}); err != nil {
		return err
	}
	return s.Set(ctx, KeyUserPreferences, prefs.Default())
}

// AppendChat adds msg to the chat history, evicting the oldest entries past
// meme.ChatLimit.
func (s *Store) AppendChat(ctx context.Context, msg meme.ChatMessage) error {
	return s.Update(ctx, KeyChatHistory, func(v any) (any, error) {
		return meme.AppendChat(v.([]meme.ChatMessage), msg), nil
	})
}

// SavedMemes returns a copy of the saved memes in storage order.
func (s *Store) SavedMemes() []meme.Meme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMemes(s.state.SavedMemes)
}

// Preferences returns the current user preferences.
func (s *Store) Preferences() prefs.Prefs {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.UserPreferences
}

// CurrentMeme returns a copy of the current meme, if any.
func (s *Store) CurrentMeme() (meme.Meme, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state.CurrentMeme == nil {
		return meme.Meme{}, false
	}
	return *s.state.CurrentMeme, true
}

// IsGenerating reports whether a generation request is outstanding.
func (s *Store) IsGenerating() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsGenerating
}

// ChatHistory returns a copy of the idea chat history.
func (s *Store) ChatHistory() []meme.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneChat(s.state.ChatHistory)
}

// CurrentView returns the active view.
func (s *Store) CurrentView() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.CurrentView
}

func storageKey(key Key) string {
	return StoragePrefix + string(key)
}

func isPersisted(key Key) bool {
	for _, k := range persistedKeys {
		if k == key {
			return true
		}
	}
	return false
}

func invalid(key Key, value any) error {
	return fmt.Errorf("%w %q: %T", ErrInvalidValue, key, value)
}

func cloneMemes(items []meme.Meme) []meme.Meme {
	dup := make([]meme.Meme, len(items))
	copy(dup, items)
	return dup
}

func cloneChat(items []meme.ChatMessage) []meme.ChatMessage {
	dup := make([]meme.ChatMessage, len(items))
	copy(dup, items)
	return dup
}

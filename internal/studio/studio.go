package studio

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/five82/memegen/internal/imageapi"
	"github.com/five82/memegen/internal/meme"
	"github.com/five82/memegen/internal/prefs"
	"github.com/five82/memegen/internal/state"
)

var (
	// ErrEmptyPrompt is returned for a blank prompt.
	ErrEmptyPrompt = errors.New("prompt is empty")
	// ErrBusy is returned while another generation is running.
	ErrBusy = errors.New("generation already in progress")
	// ErrNotFound is returned for an unknown meme id.
	ErrNotFound = errors.New("meme not found")
)

// Service performs the user-facing actions against the store and the
// generator.
type Service struct {
	store  *state.Store
	gen    imageapi.Generator
	now    func() time.Time
	logger *log.Logger

	busy atomic.Bool
	sub  state.Subscription
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used to stamp memes and messages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger routes service diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a Service. The generator's credential follows the stored
// preferences for as long as the service is open.
func New(store *state.Store, gen imageapi.Generator, opts ...Option) *Service {
	s := &Service{
		store:  store,
		gen:    gen,
		now:    time.Now,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	gen.SetAPIKey(store.Preferences().APIKey)
	s.sub = store.Subscribe(state.KeyUserPreferences, func(v any) {
		if p, ok := v.(prefs.Prefs); ok {
			gen.SetAPIKey(p.APIKey)
		}
	})
	return s
}

// Close detaches the service from the store.
func (s *Service) Close() {
	s.store.Unsubscribe(s.sub)
}

// Store returns the underlying state store.
func (s *Service) Store() *state.Store {
	return s.store
}

// Generate creates a meme from prompt and makes it the current meme.
// Without a credential a placeholder image is used and no request is made.
func (s *Service) Generate(ctx context.Context, prompt string) (meme.Meme, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return meme.Meme{}, ErrEmptyPrompt
	}
	m, err := s.generate(ctx, prompt)
	if err != nil {
		return meme.Meme{}, err
	}
	if err := s.store.Set(ctx, state.KeyCurrentMeme, &m); err != nil {
		return m, err
	}
	return m, nil
}

func (s *Service) generate(ctx context.Context, prompt string) (meme.Meme, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return meme.Meme{}, ErrBusy
	}
	defer s.busy.Store(false)

	if err := s.store.Set(ctx, state.KeyIsGenerating, true); err != nil {
		return meme.Meme{}, err
	}
	defer func() {
		// The flag is cleared even when ctx is already cancelled.
		if err := s.store.Set(context.WithoutCancel(ctx), state.KeyIsGenerating, false); err != nil {
			s.logger.Printf("clear generating flag: %v", err)
		}
	}()

	p := s.store.Preferences()
	var data string
	if !p.Authenticated() {
		var err error
		data, err = Placeholder()
		if err != nil {
			return meme.Meme{}, err
		}
	} else {
		var err error
		data, err = s.gen.GenerateImage(ctx, prompt)
		if err != nil {
			return meme.Meme{}, fmt.Errorf("generate image: %w", err)
		}
	}
	return meme.New(prompt, data, p.MemeDefaults(), s.now()), nil
}

// Idea asks the assistant for a meme idea and records both sides of the
// exchange in the chat history.
func (s *Service) Idea(ctx context.Context, prompt string) (meme.Idea, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return meme.Idea{}, ErrEmptyPrompt
	}
	if err := s.store.AppendChat(ctx, meme.NewChatMessage(meme.RoleUser, prompt, s.now())); err != nil {
		return meme.Idea{}, err
	}
	idea, err := s.gen.GenerateIdea(ctx, prompt)
	if err != nil {
		return meme.Idea{}, fmt.Errorf("generate idea: %w", err)
	}
	reply, err := json.Marshal(idea)
	if err != nil {
		return idea, fmt.Errorf("encode idea: %w", err)
	}
	if err := s.store.AppendChat(ctx, meme.NewChatMessage(meme.RoleAssistant, string(reply), s.now())); err != nil {
		return idea, err
	}
	return idea, nil
}

// GenerateFromIdea requests an idea, generates an image from its
// description and pre-fills the caption.
func (s *Service) GenerateFromIdea(ctx context.Context, prompt string) (meme.Meme, meme.Idea, error) {
	idea, err := s.Idea(ctx, prompt)
	if err != nil {
		return meme.Meme{}, idea, err
	}
	description := strings.TrimSpace(idea.ImageDescription)
	if description == "" {
		description = strings.TrimSpace(prompt)
	}
	m, err := s.generate(ctx, description)
	if err != nil {
		return meme.Meme{}, idea, err
	}
	m.Caption = strings.TrimSpace(idea.Caption)
	if err := s.store.Set(ctx, state.KeyCurrentMeme, &m); err != nil {
		return m, idea, err
	}
	return m, idea, nil
}

// Save stores m in the gallery, replacing any record with the same id, and
// makes it the current meme.
func (s *Service) Save(ctx context.Context, m meme.Meme) (meme.Meme, error) {
	if !m.HasImage() {
		return meme.Meme{}, meme.ErrNoImage
	}
	if strings.TrimSpace(m.ID) == "" {
		if m.CreatedAt.IsZero() {
			m.CreatedAt = s.now().UTC()
		}
		m.ID = meme.NewID(m.CreatedAt)
	}
	err := s.store.Update(ctx, state.KeySavedMemes, func(v any) (any, error) {
		return meme.Upsert(v.([]meme.Meme), m), nil
	})
	if err != nil {
		return m, err
	}
	if err := s.store.Set(ctx, state.KeyCurrentMeme, &m); err != nil {
		return m, err
	}
	return m, nil
}

// Delete removes the saved meme with id and reports whether one existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	removed := false
	err := s.store.Update(ctx, state.KeySavedMemes, func(v any) (any, error) {
		rest, ok := meme.Remove(v.([]meme.Meme), id)
		if !ok {
			return nil, state.ErrNoChange
		}
		removed = true
		return rest, nil
	})
	return removed, err
}

// Find returns the saved meme with id.
func (s *Service) Find(id string) (meme.Meme, error) {
	m, ok := meme.Find(s.store.SavedMemes(), id)
	if !ok {
		return meme.Meme{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return m, nil
}

// Edit loads a saved meme into the editor and switches to the create view.
func (s *Service) Edit(ctx context.Context, id string) (meme.Meme, error) {
	m, err := s.Find(id)
	if err != nil {
		return meme.Meme{}, err
	}
	if err := s.store.Set(ctx, state.KeyCurrentMeme, &m); err != nil {
		return m, err
	}
	return m, s.Navigate(ctx, state.ViewCreate)
}

// Gallery returns saved memes newest first.
func (s *Service) Gallery() []meme.Meme {
	return meme.SortNewestFirst(s.store.SavedMemes())
}

// Settings returns the stored preferences.
func (s *Service) Settings() prefs.Prefs {
	return s.store.Preferences()
}

// SaveSettings normalizes and stores p. A blank credential is stored as "".
func (s *Service) SaveSettings(ctx context.Context, p prefs.Prefs) (prefs.Prefs, error) {
	p = p.Normalize()
	if err := s.store.Set(ctx, state.KeyUserPreferences, p); err != nil {
		return p, err
	}
	return p, nil
}

// ClearHistory empties the idea chat history.
func (s *Service) ClearHistory(ctx context.Context) error {
	return s.store.Set(ctx, state.KeyChatHistory, []meme.ChatMessage{})
}

// ClearAll wipes saved memes and preferences from storage.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	return s.store.Set(ctx, state.KeyCurrentMeme, nil)
}

// Navigate records the active view.
func (s *Service) Navigate(ctx context.Context, view state.View) error {
	return s.store.Set(ctx, state.KeyCurrentView, view)
}

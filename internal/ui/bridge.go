package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/memegen/internal/state"
)

// storeChangedMsg reports that a store slot was set.
type storeChangedMsg struct {
	key state.Key
}

// storeWatch forwards store notifications into the Bubble Tea loop.
// Notifications are coalesced when the UI falls behind; the model always
// re-reads the store, so a dropped key only skips a redundant refresh.
type storeWatch struct {
	store *state.Store
	ch    chan state.Key
	subs  []state.Subscription

	// mu guards closed. An observer copied by an in-flight Set can still run
	// after stop, so sends check closed first.
	mu     sync.Mutex
	closed bool
}

var watchedKeys = []state.Key{
	state.KeyCurrentMeme,
	state.KeySavedMemes,
	state.KeyUserPreferences,
	state.KeyIsGenerating,
	state.KeyChatHistory,
	state.KeyCurrentView,
}

func watchStore(store *state.Store) *storeWatch {
	w := &storeWatch{store: store, ch: make(chan state.Key, 32)}
	for _, key := range watchedKeys {
		key := key
		w.subs = append(w.subs, store.Subscribe(key, func(any) { w.send(key) }))
	}
	return w
}

// next waits for the following change.
func (w *storeWatch) next() tea.Cmd {
	return func() tea.Msg {
		key, ok := <-w.ch
		if !ok {
			return nil
		}
		return storeChangedMsg{key: key}
	}
}

func (w *storeWatch) send(key state.Key) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	select {
	case w.ch <- key:
	default:
	}
}

// stop detaches from the store and closes the channel, releasing a pending
// next. It is safe to call more than once.
func (w *storeWatch) stop() {
	for _, sub := range w.subs {
		w.store.Unsubscribe(sub)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.closed {
		w.closed = true
		close(w.ch)
	}
}

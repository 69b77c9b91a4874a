// Package state provides the application state store for memegen.
//
// # Overview
//
// The Store is the single source of truth for data shared between views:
// the meme being edited, the saved gallery, user preferences, the
// generation-in-progress flag, the idea chat history and the active view.
// Each of these is a named slot addressed by a Key.
//
// The Store is an ordinary value built with New or Open and passed to its
// consumers. There is no package-level instance.
//
// # Slots
//
//	currentMeme      *meme.Meme         (nil when nothing is being edited)
//	savedMemes       []meme.Meme        persisted
//	userPreferences  prefs.Prefs        persisted
//	isGenerating     bool
//	chatHistory      []meme.ChatMessage (at most meme.ChatLimit entries)
//	currentView      View
//
// Set type-checks the value for the slot and returns ErrInvalidValue for a
// mismatch and ErrUnknownKey for a key outside the set.
//
// # Notification
//
//	store.Set(ctx, key, v)
//	  ├─> slot = v                    (write lock)
//	  ├─> observer[0](v) ... [n](v)   (registration order, no lock held)
//	  └─> backend.Set(...)            (allowlisted keys only)
//
// Observers run synchronously on the goroutine that called Set, after the
// lock is released, so they may read the store. Two Set calls from
// different goroutines notify in no particular order relative to each
// other.
//
// Subscribe returns a Subscription handle; Unsubscribe removes it.
//
// Update is Set for a value derived from the current one. The function runs
// on a copy while the write lock is held, so concurrent Updates of a slot
// never lose each other's changes. Returning ErrNoChange skips the write.
// The function must not call back into the store.
//
// # Persistence
//
// Only savedMemes and userPreferences are written to the storage.Backend,
// JSON-encoded under "memeGenerator_<key>". Transient slots such as
// isGenerating never reach disk. Encoding or backend errors are returned
// from Set after the in-memory value and the observers have been updated.
//
// Backend writes of a slot happen in assignment order. A write that was
// overtaken by a newer value for the same slot is dropped, so the backend
// always ends up holding the latest in-memory value.
//
// Load reads the allowlisted keys back. A value that fails to decode is
// logged and the slot keeps its default; the other key is still loaded.
//
// Refresh is Load for a store that is already running. It compares each
// stored value with the last one this store read or wrote, and for the
// ones another process changed it replaces the slot and notifies
// observers. A slot with a local write still in flight is left alone.
// Refresh never writes to the backend.
//
// # Copies
//
//   - Get returns the stored value. Slices share the store's backing array
//     and must be treated as read-only.
//   - Snapshot and the typed accessors (SavedMemes, ChatHistory,
//     CurrentMeme) return copies that callers may modify freely.
//
// # Usage Example
//
//	backend, _ := storage.NewSQLiteBackend(path)
//	store, err := state.Open(ctx, backend)
//	if err != nil {
//		return err
//	}
//	sub := store.Subscribe(state.KeySavedMemes, func(v any) {
//		render(v.([]meme.Meme))
//	})
//	defer store.Unsubscribe(sub)
//	_ = store.Set(ctx, state.KeySavedMemes, append(store.SavedMemes(), m))
package state

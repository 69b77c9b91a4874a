// Package storage provides the durable key-value backends behind the state
// store.
//
// SQLiteBackend keeps values in a single kv table in WAL mode, so a TUI and
// one-shot commands can share the database. MemoryBackend serves tests and
// ephemeral runs.
package storage

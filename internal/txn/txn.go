// Package txn implements the TransactionManager: it issues
// monotonically increasing transaction ids and holds per-transaction
// whole-table pre-image snapshots, committing by discarding them or
// aborting by restoring them.
//
// There is no process-wide singleton: a Manager is constructed
// explicitly (catalog.New's caller owns one) and passed to whatever
// needs it, so tests can build a fresh Manager per case.
package txn

import (
	"fmt"
	"sync"

	"reldb/internal/catalog"
	"reldb/internal/schema"
)

// State is a transaction's lifecycle stage.
type State int

const (
	Active State = iota
	Committed
	Aborted
)

// transaction holds a transaction id's pre-images. Each table name the
// transaction has mutated appears at most once, recording the row
// sequence as it stood the moment the transaction first touched it.
type transaction struct {
	id        uint64
	state     State
	preImages map[string][]schema.Row
}

// Manager is the process-wide transaction state: next_id plus a map
// from id to live transaction, guarded by a single mutex.
type Manager struct {
	mu     sync.Mutex
	nextID uint64
	active map[uint64]*transaction
}

// NewManager returns a Manager with ids starting at 1.
func NewManager() *Manager {
	return &Manager{nextID: 1, active: make(map[uint64]*transaction)}
}

// Begin allocates a new transaction id and records it Active.
func (m *Manager) Begin() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.active[id] = &transaction{
		id:        id,
		state:     Active,
		preImages: make(map[string][]schema.Row),
	}
	return id
}

// Commit discards id's pre-images and removes it from the live set. It
// fails if id is unknown (never begun, or already committed/aborted).
func (m *Manager) Commit(id uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.active[id]; !ok {
		return fmt.Errorf("transaction %d: %w", id, ErrUnknownTransaction)
	}
	delete(m.active, id)
	return nil
}

// Abort restores every table id captured a pre-image for, then removes
// id from the live set. It fails if id is unknown. The restored
// table's PK index is left as-is — see DESIGN.md for why this mirrors
// an accepted source limitation rather than rebuilding it.
func (m *Manager) Abort(id uint64, db *catalog.Database) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.active[id]
	if !ok {
		return fmt.Errorf("transaction %d: %w", id, ErrUnknownTransaction)
	}

	for tableName, snapshot := range txn.preImages {
		t, ok := db.GetTable(tableName)
		if !ok {
			continue
		}
		t.SetRows(snapshot)
	}

	delete(m.active, id)
	return nil
}

// Capture stashes a pre-image of currentRows under tableName for id, if
// and only if id is Active and has not already captured that table.
// id == 0 means "no transaction" and is always a no-op, letting
// untransacted operations proceed without ever calling into Manager
// state.
func (m *Manager) Capture(id uint64, tableName string, currentRows []schema.Row) {
	if id == 0 {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txn, ok := m.active[id]
	if !ok || txn.state != Active {
		return
	}
	if _, exists := txn.preImages[tableName]; exists {
		return
	}
	txn.preImages[tableName] = schema.CloneRows(currentRows)
}

// ErrUnknownTransaction is wrapped into Commit/Abort failures when id
// does not name a live transaction.
var ErrUnknownTransaction = fmt.Errorf("unknown or already-terminated transaction")

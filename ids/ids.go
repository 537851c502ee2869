// Package ids implements the process-wide interned string table.
//
// An Id is a small integer that uniquely identifies a string within a
// Table. Equality between two Ids is plain integer equality, and an Id can
// be used directly as a map key or compared with <, making it cheap to
// carry around as a cell/port/net name instead of the string itself.
package ids

import "sync"

// Id identifies an interned string. The zero value is reserved and never
// returned by Intern; callers use it as the "none"/unset sentinel.
type Id int32

// None is the sentinel Id meaning "no string", e.g. an unset cell type.
const None Id = 0

// String reports the human-readable form of id using the package-level
// default table. Architectures that keep their own Table should call
// Table.StrOf instead.
func (id Id) String() string {
	return defaultTable.StrOf(id)
}

// Table is a bidirectional mapping between Ids and strings.
//
// A Table only grows: once assigned, an Id's string never changes, and
// Ids are stable for the lifetime of the table. The table is
// expected to be populated up front (constids, then frontend-supplied
// names) and left quiescent during placement; Table itself does not
// enforce that, it only guarantees append-only growth under lock.
type Table struct {
	mu        sync.RWMutex
	strToId   map[string]Id
	idToStr   []string // idToStr[0] is the unused "none" slot
	sealedLen int32    // ids < sealedLen are compile-time constids
}

// NewTable creates an empty table. The "none" slot (Id 0) is pre-allocated
// so the first call to Intern returns Id(1).
func NewTable() *Table {
	return &Table{
		strToId: make(map[string]Id),
		idToStr: []string{""},
	}
}

var defaultTable = NewTable()

// Default returns the process-wide table used by constid registration and
// by Id.String. Architectures that want an isolated namespace (e.g. unit
// tests) should construct their own Table with NewTable instead.
func Default() *Table { return defaultTable }

// Intern returns the Id for str, assigning a fresh one if str has not been
// seen before.
func (t *Table) Intern(str string) Id {
	t.mu.RLock()
	if id, ok := t.strToId[str]; ok {
		t.mu.RUnlock()
		return id
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.strToId[str]; ok {
		return id
	}
	id := Id(len(t.idToStr))
	t.idToStr = append(t.idToStr, str)
	t.strToId[str] = id
	return id
}

// GetIfExists returns the Id for str without interning it, and false if
// str has never been interned.
func (t *Table) GetIfExists(str string) (Id, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.strToId[str]
	return id, ok
}

// StrOf returns the string for id, or "" if id is None or out of range.
func (t *Table) StrOf(id Id) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id <= None || int(id) >= len(t.idToStr) {
		return ""
	}
	return t.idToStr[id]
}

// SealConstids marks every Id currently in the table as a compile-time
// constid: Intern keeps returning these ids and IsConstid reports true
// for them. Call once, immediately after registering an architecture's
// fixed set of well-known names (cell types, common port names), before
// any frontend-supplied names are interned.
func (t *Table) SealConstids() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sealedLen = int32(len(t.idToStr))
}

// IsConstid reports whether id falls in the sealed constid range.
func (t *Table) IsConstid(id Id) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return id > None && int32(id) < t.sealedLen
}

// Len returns the number of interned strings, excluding the "none" slot.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.idToStr) - 1
}

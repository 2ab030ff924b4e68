package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Identifiers hands out unique ids for live objects and remembers their owner
// until the id is released. Releasing an id twice is reported.
type Identifiers struct {
	mutex  sync.RWMutex
	owners map[uuid.UUID]interface{}
}

func NewIdentifiers() *Identifiers {
	return &Identifiers{
		owners: make(map[uuid.UUID]interface{}),
	}
}

// Acquire registers owner under a fresh id.
func (ids *Identifiers) Acquire(owner interface{}) uuid.UUID {
	ids.mutex.Lock()
	defer ids.mutex.Unlock()

	id := uuid.New()
	ids.owners[id] = owner
	return id
}

// Release forgets the id, making a second release an error.
func (ids *Identifiers) Release(id uuid.UUID) error {
	ids.mutex.Lock()
	defer ids.mutex.Unlock()

	if _, ok := ids.owners[id]; !ok {
		return fmt.Errorf("identifier %s: %w", id, ErrUnknownHandle)
	}
	delete(ids.owners, id)
	return nil
}

// Owner returns the object registered under id.
func (ids *Identifiers) Owner(id uuid.UUID) (interface{}, bool) {
	ids.mutex.RLock()
	defer ids.mutex.RUnlock()

	owner, ok := ids.owners[id]
	return owner, ok
}

// Len returns the number of live ids.
func (ids *Identifiers) Len() int {
	ids.mutex.RLock()
	defer ids.mutex.RUnlock()

	return len(ids.owners)
}

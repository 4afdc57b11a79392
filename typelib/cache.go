package typelib

type slotState uint8

const (
	stateResolved slotState = iota + 1
	stateUnresolved
	// stateWrapper marks the address of a type value wrapper. It counts as
	// unresolved for every view except the wrapper itself, which is
	// unwrapped again on each request.
	stateWrapper
)

type slot struct {
	entry *Entry
	err   error
	state slotState
}

// Stats reports cache occupancy and traffic.
type Stats struct {
	Resolved   int
	Unresolved int
	Wrappers   int
	Hits       uint64
	Misses     uint64
}

// Cache memoizes resolution outcomes by record identity for the lifetime
// of an inspection session. An identity is either resolved or unresolved,
// never both, and is never evicted.
type Cache struct {
	slots  map[AddressID]slot
	hits   uint64
	misses uint64
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{slots: make(map[AddressID]slot)}
}

// Entry returns the resolved entry cached for id.
func (c *Cache) Entry(id AddressID) (*Entry, bool) {
	s, ok := c.slots[id]
	if !ok || s.state != stateResolved {
		return nil, false
	}
	return s.entry, true
}

// Unresolved returns the failure cached for id.
func (c *Cache) Unresolved(id AddressID) (error, bool) {
	s, ok := c.slots[id]
	if !ok || s.state == stateResolved {
		return nil, false
	}
	return s.err, true
}

// Len returns the number of cached identities.
func (c *Cache) Len() int { return len(c.slots) }

func (c *Cache) Stats() Stats {
	st := Stats{Hits: c.hits, Misses: c.misses}
	for _, s := range c.slots {
		switch s.state {
		case stateResolved:
			st.Resolved++
		case stateUnresolved:
			st.Unresolved++
		case stateWrapper:
			st.Wrappers++
		}
	}
	return st
}

func (c *Cache) lookup(id AddressID) (slot, bool) {
	s, ok := c.slots[id]
	return s, ok
}

// storeResolved records e for id unless id already carries a failure.
func (c *Cache) storeResolved(id AddressID, e *Entry) {
	if s, ok := c.slots[id]; ok && s.state != stateResolved {
		return
	}
	c.slots[id] = slot{state: stateResolved, entry: e}
}

func (c *Cache) storeUnresolved(id AddressID, err error) {
	c.slots[id] = slot{state: stateUnresolved, err: err}
}

func (c *Cache) markWrapper(id AddressID, err error) {
	if s, ok := c.slots[id]; ok && s.state == stateUnresolved {
		return
	}
	c.slots[id] = slot{state: stateWrapper, err: err}
}

package session

import "sync"

// State is the load state of one lazily populated field.
type State int

const (
	NotAttempted State = iota
	Absent
	Present
)

func (s State) String() string {
	switch s {
	case Absent:
		return "absent"
	case Present:
		return "present"
	default:
		return "not_attempted"
	}
}

// Field names a lazily populated session field.
type Field string

const (
	FieldMarkers  Field = "markers"
	FieldCaptions Field = "captions"
	FieldChat     Field = "chat"
	FieldSlides   Field = "slides"
)

// Result is the outcome of loading a field.
type Result[T any] struct {
	State State
	Value T
}

// Present reports whether the field holds a value.
func (r Result[T]) Present() bool { return r.State == Present }

type cacheKey struct {
	id    string
	field Field
}

type cell struct {
	once  sync.Once
	state State
	value any
	err   error
}

// Cache memoises loaded session fields keyed by (session id, field). Each
// field is loaded at most once per lifetime; concurrent callers share the
// single winning load, including its error.
type Cache struct {
	mu    sync.Mutex
	cells map[cacheKey]*cell
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{cells: make(map[cacheKey]*cell)}
}

func (c *Cache) cell(id string, f Field) *cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := cacheKey{id, f}
	cl, ok := c.cells[k]
	if !ok {
		cl = &cell{}
		c.cells[k] = cl
	}
	return cl
}

// Peek returns the state of a field without loading it.
func (c *Cache) Peek(id string, f Field) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	cl, ok := c.cells[cacheKey{id, f}]
	if !ok {
		return NotAttempted
	}
	return cl.state
}

// Invalidate forgets every field of a session.
func (c *Cache) Invalidate(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.cells {
		if k.id == id {
			delete(c.cells, k)
		}
	}
}

// Lookup returns the cached field, running load on first use.
func Lookup[T any](c *Cache, id string, f Field, load func() (T, State, error)) (Result[T], error) {
	cl := c.cell(id, f)
	cl.once.Do(func() {
		v, st, err := load()
		cl.value, cl.err = v, err
		c.mu.Lock()
		cl.state = st
		c.mu.Unlock()
	})
	if cl.err != nil {
		return Result[T]{}, cl.err
	}
	v, _ := cl.value.(T)
	return Result[T]{State: cl.state, Value: v}, nil
}

package vars

// Store holds resolved variable values. Values are set and overwritten but
// never removed.
type Store struct {
	values map[string]string
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// Get returns the value of name, or "" when it was never resolved.
func (s *Store) Get(name string) string {
	return s.values[name]
}

// Lookup returns the value of name and whether it was resolved.
func (s *Store) Lookup(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Set stores value under name.
func (s *Store) Set(name, value string) {
	s.values[name] = value
}

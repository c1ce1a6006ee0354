package request

import "maps"

// Vars is a string keyed store for one group of request variables
// (server, query or form). Keys are case-sensitive. The zero value is
// ready to use.
type Vars struct {
	m map[string]string
}

// NewVars returns a store seeded with a copy of m.
func NewVars(m map[string]string) *Vars {
	v := &Vars{}
	v.Merge(m)
	return v
}

// Get returns the value stored under key, or def when the key is absent.
func (v *Vars) Get(key, def string) string {
	if val, ok := v.m[key]; ok {
		return val
	}
	return def
}

// Lookup returns the value stored under key and whether it exists.
func (v *Vars) Lookup(key string) (string, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Has reports whether key exists, even with an empty value.
func (v *Vars) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// All returns a copy of every stored pair. It never returns nil.
func (v *Vars) All() map[string]string {
	out := make(map[string]string, len(v.m))
	maps.Copy(out, v.m)
	return out
}

// Set upserts a single pair.
func (v *Vars) Set(key, value string) {
	if v.m == nil {
		v.m = make(map[string]string)
	}
	v.m[key] = value
}

// Merge copies every pair of m over the store; m wins on collision.
func (v *Vars) Merge(m map[string]string) {
	if v.m == nil {
		v.m = make(map[string]string, len(m))
	}
	maps.Copy(v.m, m)
}

// Len returns the number of stored pairs.
func (v *Vars) Len() int {
	return len(v.m)
}

// reset drops every pair.
func (v *Vars) reset() {
	v.m = make(map[string]string)
}

package hunt

import "github.com/zyedidia/generic/mapset"

// FoundSet records the discount codes a visitor has revealed. It only
// grows and lives as long as the session.
type FoundSet struct {
	set   mapset.Set[string]
	order []string
}

// NewFoundSet returns an empty set.
func NewFoundSet() *FoundSet {
	return &FoundSet{set: mapset.New[string]()}
}

// Mark adds code and reports whether it was new.
func (f *FoundSet) Mark(code string) bool {
	if code == "" || f.set.Has(code) {
		return false
	}
	f.set.Put(code)
	f.order = append(f.order, code)
	return true
}

// Has reports whether code was found.
func (f *FoundSet) Has(code string) bool {
	return f.set.Has(code)
}

// Len returns the number of distinct codes found.
func (f *FoundSet) Len() int {
	return f.set.Size()
}

// Codes returns the codes in the order they were found.
func (f *FoundSet) Codes() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

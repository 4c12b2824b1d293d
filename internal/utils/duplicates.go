package utils

// KeyFilter drops repeated keys while preserving first occurrences.
// Keys are compared exactly; callers normalize them first if needed.
// A KeyFilter belongs to a single call and is not safe for concurrent use.
type KeyFilter struct {
	seen map[string]struct{}
}

// NewKeyFilter creates an empty filter sized for about n keys.
func NewKeyFilter(n int) *KeyFilter {
	return &KeyFilter{seen: make(map[string]struct{}, n)}
}

// ShouldInclude reports whether key is new, and records it.
func (f *KeyFilter) ShouldInclude(key string) bool {
	if _, ok := f.seen[key]; ok {
		return false
	}
	f.seen[key] = struct{}{}
	return true
}

// Len returns how many distinct keys were seen.
func (f *KeyFilter) Len() int {
	return len(f.seen)
}

package cache

// SchemaVersion is folded into every key; bump it when the layout of a
// cached value changes.
const SchemaVersion = 1

// Keyer derives cache keys.
type Keyer interface {
	// SolveKey keys a frame solver output by the hash of its input.
	SolveKey(inputHash string) string
}

// DefaultKeyer is the key layout used by the CLI and the API.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SolveKey implements Keyer.
func (DefaultKeyer) SolveKey(inputHash string) string {
	return hashKey("solve", SchemaVersion, inputHash)
}

// ScopedKeyer prefixes every key of an inner Keyer, so that several
// deployments can share one Redis instance:
//
//	keyer := cache.NewScopedKeyer(nil, "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SolveKey implements Keyer.
func (k *ScopedKeyer) SolveKey(inputHash string) string {
	return k.prefix + k.inner.SolveKey(inputHash)
}

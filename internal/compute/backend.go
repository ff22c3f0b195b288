package compute

// Backend runs data-parallel loops over particle indices.
type Backend interface {
	Name() string
	Workers() int
	// Range calls fn over disjoint [lo, hi) chunks covering [0, n) and
	// returns once every chunk is done.
	Range(n int, fn func(lo, hi int))
}

var activeBackend Backend = NewCPUBackend(0)

func SetBackend(b Backend) {
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

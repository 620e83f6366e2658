package rainbowtab

// Option is a functional option shared by Build, ReduceBatch, ScanCount and
// NewEngine. Each operation reads only the fields it needs.
type Option func(*config)

type config struct {
	workers  int
	seed     uint64
	kernel   Kernel
	layout   Layout
	strategy Strategy
}

func defaultConfig() *config {
	return &config{
		workers:  1,                  // Single-threaded unless WithWorkers is given
		seed:     0x1234567890abcdef, // Arbitrary default; overridden via WithSeed
		kernel:   KernelVector,
		layout:   DefaultLayout,
		strategy: StrategyBinarySearch,
	}
}

func applyOptions(opts []Option) *config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}
	return cfg
}

// WithWorkers sets the number of goroutines used by batch operations.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithSeed sets the seed for table generation.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

// WithKernel selects the lane kernel. Default is KernelVector; requesting it
// on a CPU without wide-vector support fails with ErrUnsupportedHardware.
func WithKernel(k Kernel) Option {
	return func(c *config) {
		c.kernel = k
	}
}

// WithLayout sets the record field widths. Default is DefaultLayout.
func WithLayout(l Layout) Option {
	return func(c *config) {
		c.layout = l
	}
}

// WithStrategy sets the value lookup strategy used by an Engine.
// Default is StrategyBinarySearch.
func WithStrategy(s Strategy) Option {
	return func(c *config) {
		c.strategy = s
	}
}

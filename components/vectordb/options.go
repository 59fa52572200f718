package vectordb

type Options struct {
	EngineType EngineType // Database type (e.g., "milvus", "memory")
	TopK       int        // Maximum number of results to return
	MinScore   float64    // Minimum similarity score threshold
	Dimension  int        // Vector dimension
}

// Option is a function type for configuring VectorDB instances.
// It follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

// WithEngine sets the database type.
// Supported types:
// - "milvus": Production-grade vector database
// - "memory": In-memory database for testing
// - "chromem": embedded persistent storage
func WithEngine(engine EngineType) Option {
	return func(c *Options) {
		c.EngineType = engine
	}
}

// WithTopK sets the maximum number of results to return when a search does not set one.
// The actual number of results may be less if MinScore filtering is applied.
func WithTopK(k int) Option {
	return func(c *Options) {
		c.TopK = k
	}
}

// WithMinScore sets the minimum similarity score threshold.
// Results with scores below this threshold will be filtered out.
func WithMinScore(score float64) Option {
	return func(c *Options) {
		c.MinScore = score
	}
}

// WithDimension sets the dimension of vectors to be stored.
// This must match the dimension of your embedding model:
// - text-embedding-3-small: 1536
// - text-embedding-004: 768
func WithDimension(dimension int) Option {
	return func(c *Options) {
		c.Dimension = dimension
	}
}

// ResolveTopK returns the search top k, falling back to the engine default then to 4
func (o Options) ResolveTopK(topK int) int {
	if topK > 0 {
		return topK
	}
	if o.TopK > 0 {
		return o.TopK
	}
	return 4
}

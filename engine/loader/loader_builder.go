package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithWorkers sets the number of decode workers.
//
// Parameters:
//   - n: worker count, values below 1 become 1
//
// Returns:
//   - LoaderBuilderOption: a function that applies the worker count to a loader
func WithWorkers(n int) LoaderBuilderOption {
	return func(l *loader) {
		l.workers = n
	}
}

// WithFallback makes failed decodes fall back to a checkerboard instead of returning an error.
//
// Parameters:
//   - enabled: true to substitute a checkerboard for missing or corrupt textures
//
// Returns:
//   - LoaderBuilderOption: a function that applies the fallback option to a loader
func WithFallback(enabled bool) LoaderBuilderOption {
	return func(l *loader) {
		l.fallback = enabled
	}
}

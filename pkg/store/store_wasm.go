//go:build wasm

package store

// New creates an in-memory store for WASM builds.
// The cfg.Path is ignored since the SQLite driver does not build for js/wasm.
func New(cfg Config) (Store, error) {
	return NewMemory(), nil
}

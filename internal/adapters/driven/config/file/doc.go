// Package file provides a TOML-backed configuration store.
//
// Configuration lives in ~/.docquery/config.toml. Nested TOML tables are
// flattened into dot-notation keys, so the [embedding] table's api_key
// becomes "embedding.api_key".
package file

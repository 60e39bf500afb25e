//go:build sqlite_vec && cgo

package cohesion

import (
	vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

func init() {
	// Registers sqlite-vec as an auto-loadable extension for the
	// mattn/go-sqlite3 driver used by Cache.
	vec.Auto()
}

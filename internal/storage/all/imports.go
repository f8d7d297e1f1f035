// Package all wires all built-in storage backends into the storage factory.
//
// This package exists purely for side effects: importing it (even as a blank
// import) runs the init functions of each concrete backend, which register
// their factories with the storage package. After importing it, the
// following mirror kinds are available:
//
//   - "sqlite"   (marketpipe/internal/storage/sqlite)
//   - "postgres" (marketpipe/internal/storage/postgres)
//
// Binaries that only need a subset can blank-import the individual backend
// packages instead.
package all

import (
	_ "marketpipe/internal/storage/postgres"
	_ "marketpipe/internal/storage/sqlite"
)

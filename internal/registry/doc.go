// Package registry provides the central "glue" for the module system.
//
// Modules under modules/ register the transports they implement, keyed by
// the broker URL scheme they understand (tcp, ws, http, ...). At startup the
// application validates the configured broker against the registry and asks
// it to build the transport, so adding a bus implementation never touches
// the application core.
package registry

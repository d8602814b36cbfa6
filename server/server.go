// Package server provides an HTTP REST service over the cavern map
// toolchain. Editors and dashboards upload DAT map sources and read back
// diagnostics, reachability analysis, and auto-fixed sources.
//
// The service holds uploaded maps in an in-memory store; it is a lint
// service, not a database. All toolchain work happens through the same pure
// core the CLI uses.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/dekarrin/cavern/internal/tileset"
)

// endpoints:
//  - GET    /api/v1/info                  - version info on the service.
//  - POST   /api/v1/maps                  - upload a map source, get back its ID and lint summary.
//  - GET    /api/v1/maps                  - list uploaded maps with problem counts.
//  - GET    /api/v1/maps/{id}             - get one uploaded map's source.
//  - DELETE /api/v1/maps/{id}             - remove an uploaded map.
//  - GET    /api/v1/maps/{id}/diagnostics - full validation output for the map.
//  - GET    /api/v1/maps/{id}/analysis    - reachability analysis; optional row, col,
//                                           and mine query params.
//  - POST   /api/v1/maps/{id}/fixes       - apply every safe automatic fix, get back
//                                           the corrected source.

// CavernServer is an HTTP REST server that lints and analyzes cavern maps.
// The zero value is not usable; call New to get one ready for use.
type CavernServer struct {
	store *mapStore
	tbl   *tileset.Table
}

// New creates a CavernServer using the given tile table for validation and
// analysis. A nil table means the built-in default.
func New(tbl *tileset.Table) *CavernServer {
	if tbl == nil {
		tbl = tileset.Default()
	}
	return &CavernServer{
		store: newMapStore(),
		tbl:   tbl,
	}
}

// ServeForever begins listening on the given address and port. If address is
// blank, it defaults to "localhost". If port is less than 1, it defaults to
// 8080.
func (cs *CavernServer) ServeForever(address string, port int) error {
	if address == "" {
		address = "localhost"
	}
	if port < 1 {
		port = 8080
	}

	listenAddress := fmt.Sprintf("%s:%d", address, port)
	log.Printf("INFO  serving on %s", listenAddress)
	return http.ListenAndServe(listenAddress, cs.routes())
}

/*
Cavserver starts a cavern map lint service and begins listening for new
connections.

Usage:

	cavserver [flags]

Once started, the server listens for HTTP requests and responds to them using
REST protocol. By default, it listens on localhost:8080.

The flags are:

	-v, --version
		Give the current version of the cavern map service and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment
		variable CAVERN_LISTEN_ADDRESS, and if that is not given, will
		default to localhost:8080.

	-t, --tileset FILE
		Use the given TOML tileset instead of the built-in tile table for
		validation and analysis. If not given, will default to the value of
		environment variable CAVERN_TILESET.
*/
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/dekarrin/cavern/internal/tileset"
	"github.com/dekarrin/cavern/internal/version"
	"github.com/dekarrin/cavern/server"
)

const (
	EnvListen  = "CAVERN_LISTEN_ADDRESS"
	EnvTileset = "CAVERN_TILESET"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of the cavern map service and then exit.")
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagTileset = pflag.StringP("tileset", "t", "", "Use the given TOML tileset file.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Println("cavserver " + version.ServerCurrent)
		return
	}

	listen := *flagListen
	if listen == "" {
		listen = os.Getenv(EnvListen)
	}

	address := "localhost"
	port := 8080
	if listen != "" {
		var err error
		address, port, err = splitListen(listen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "bad listen address: %v\n", err)
			os.Exit(1)
		}
	}

	tilesetPath := *flagTileset
	if tilesetPath == "" {
		tilesetPath = os.Getenv(EnvTileset)
	}

	var tbl *tileset.Table
	if tilesetPath != "" {
		var err error
		tbl, err = tileset.LoadFile(tilesetPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "loading tileset: %v\n", err)
			os.Exit(1)
		}
	}

	cs := server.New(tbl)
	if err := cs.ServeForever(address, port); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// splitListen reads an ADDRESS:PORT or :PORT string.
func splitListen(s string) (address string, port int, err error) {
	address, portStr, found := strings.Cut(s, ":")
	if !found {
		return "", 0, fmt.Errorf("%q is not in ADDRESS:PORT or :PORT format", s)
	}
	if address == "" {
		address = "localhost"
	}

	port, err = strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return "", 0, fmt.Errorf("%q is not a valid port number", portStr)
	}

	return address, port, nil
}

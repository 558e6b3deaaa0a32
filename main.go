// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"crypto/tls"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/my-matchgame/gamecheck/backend"
)

var (
	addr      = flag.String("addr", ":8080", "The TCP address to listen to")
	gameRoot  = flag.String("root", ".", "Directory containing the game's index.html")
	dataDir   = flag.String("data-dir", "data", "Directory for run reports; empty disables the runs API")
	debugMode = flag.Bool("debug", false, "Enable debug mode (request logging, no caching)")
	tlsCert   = flag.String("tls-cert", "", "Path to TLS certificate")
	tlsKey    = flag.String("tls-key", "", "Path to TLS key")
)

// main serves the game locally so the browser checks have a target.
func main() {
	flag.Parse()
	log.Printf("gamecheck dev server %s", backend.CurrentAppVersion)

	var cert *tls.Certificate
	if *tlsCert != "" && *tlsKey != "" {
		c, err := tls.LoadX509KeyPair(*tlsCert, *tlsKey)
		if err != nil {
			log.Fatalf("Failed to load TLS cert/key: %v", err)
		}
		cert = &c
	}

	opts := backend.Options{
		Addr:    *addr,
		Root:    *gameRoot,
		DataDir: *dataDir,
		Cert:    cert,
		Debug:   *debugMode,
	}
	if *dataDir != "" {
		store, err := backend.OpenStorage(*dataDir)
		if err != nil {
			log.Fatalf("Failed to open storage: %v", err)
		}
		opts.Storage = store
	}

	server, err := backend.StartServer(opts)
	if err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Wait for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	} else {
		log.Println("Gracefully stopped.")
	}
}

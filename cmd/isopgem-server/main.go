// isopgem-server is the composition root: it loads the Kamea grid, wires
// the aspect store and cache, and starts the HTTP/WebSocket server that
// hosts both the stateless numerical cores and the collaboration layer
// on one shared router.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheDaniel418/isopgem-cores/internal/api"
	"github.com/TheDaniel418/isopgem-cores/internal/cache"
	"github.com/TheDaniel418/isopgem-cores/internal/collab"
	"github.com/TheDaniel418/isopgem-cores/internal/kamea"
	"github.com/TheDaniel418/isopgem-cores/internal/store"
)

const (
	defaultPort      = 8080
	defaultRedisAddr = "localhost:6379"
	defaultBaseURL   = "http://localhost:5173"
)

func main() {
	port := flag.Int("port", defaultPort, "HTTP server port")
	redisAddr := flag.String("redis", defaultRedisAddr, "Redis address for aspect cache and collaboration sessions (empty to disable)")
	redisPassword := flag.String("redis-password", "", "Redis password")
	redisDB := flag.Int("redis-db", 0, "Redis database number")
	baseURL := flag.String("base-url", defaultBaseURL, "Base URL for shared session links")
	flag.Parse()

	log.Println("==============================================")
	log.Println("  isopgem-cores server")
	log.Println("  Ternary / Transition / Kamea / Figurate / Groups")
	log.Println("==============================================")
	log.Printf("Port: %d", *port)
	log.Printf("Redis: %s", *redisAddr)
	log.Printf("Base URL: %s", *baseURL)
	log.Println("==============================================")

	grid, err := kamea.Load()
	if err != nil {
		log.Fatalf("[SERVER] failed to load kamea grid: %v", err)
	}

	// No SQL driver is registered in go.mod, so the aspect table runs on
	// the in-memory store; swapping in internal/store.NewSQLStore only
	// needs a *sql.DB from whichever driver is added alongside it.
	aspectStore := store.NewMemoryStore()
	aspectCache := cache.New(aspectStore, *redisAddr, *redisPassword, *redisDB)

	apiServer := api.NewServer(*port, grid, aspectCache)

	collabServer := collab.NewCollabServer(*redisAddr, *redisPassword, *redisDB, *baseURL)
	collabServer.RegisterRoutes(apiServer.Router())

	errCh := make(chan error, 1)
	go func() {
		errCh <- apiServer.Start()
	}()

	log.Printf("[SERVER] listening on :%d", *port)
	log.Println("[SERVER] press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatalf("[SERVER] server exited: %v", err)
	case <-quit:
		log.Println("[SERVER] shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("[SERVER] error during API shutdown: %v", err)
	}
	if err := collabServer.Close(); err != nil {
		log.Printf("[SERVER] error closing collaboration server: %v", err)
	}

	log.Println("[SERVER] stopped")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/darkmatter-vc/portal/access"
	"github.com/darkmatter-vc/portal/content"
	"github.com/darkmatter-vc/portal/internal/cache"
	"github.com/darkmatter-vc/portal/internal/config"
	"github.com/darkmatter-vc/portal/nocodb"
	"github.com/darkmatter-vc/portal/server"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("config.New %w", err)
	}
	configureLogging(c.GetEnv())
	displayAppname(c.GetAppName())

	portal, err := newPortalServer(c)
	if err != nil {
		return fmt.Errorf("newPortalServer %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: portal}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func newPortalServer(c config.Config) (*server.Server, error) {
	storeClient := nocodb.NewClient(nocodb.Config{
		APIKey:  c.GetStoreAPIKey(),
		BaseURL: c.GetStoreBaseURL(),
		BaseID:  c.GetStoreBaseID(),
	}, cache.New[[]byte](nocodb.CacheTTL))

	sessionsStore := nocodb.NewSessionsStore(storeClient, c.GetSessionsTableID())
	orgs := nocodb.NewOrganizationsStore(storeClient, c.GetOrganizationsTableID())

	accessService, err := access.NewAccessService(sessionsStore, c.GetAllowedDomains())
	if err != nil {
		return nil, fmt.Errorf("access.NewAccessService %w", err)
	}

	memos := content.NewClient(content.Config{
		PAT:            c.GetContentPAT(),
		Owner:          c.GetContentOwner(),
		Repo:           c.GetContentRepo(),
		Branch:         c.GetContentBranch(),
		LocalDir:       c.GetContentLocalDir(),
		DiscoveryLocal: c.GetMemoDiscoveryLocal(),
	})

	return server.New(c, accessService, orgs, memos)
}

func configureLogging(env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if env == "DEV" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

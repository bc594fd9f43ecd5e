package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/darkmatter-vc/portal/access"
	"github.com/darkmatter-vc/portal/content"
	"github.com/darkmatter-vc/portal/internal/config"
	"github.com/darkmatter-vc/portal/nocodb"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "PROD")
	mux    *http.ServeMux
	routes []string
	config config.Config
	access *access.AccessService
	orgs   *nocodb.OrganizationsStore
	memos  *content.Client
}

func New(config config.Config, accessService *access.AccessService, orgs *nocodb.OrganizationsStore, memos *content.Client) (*Server, error) {
	if accessService == nil {
		return nil, fmt.Errorf("[Server New] access service is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		access: accessService,
		orgs:   orgs,
		memos:  memos,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// ServeHTTP applies the access gate ahead of route resolution, so every
// request under a protected prefix is checked whether a route matches or not.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.AccessGateMiddleware(s.mux.ServeHTTP)(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}

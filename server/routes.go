package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteIndex, ChainMiddleware(s.IndexHandler(), s.HTMLMiddleware()...))

	// GATE
	s.RegisterRouteHandler("GET "+RouteGatePage, ChainMiddleware(s.GatePageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteVerifyEmail, s.VerifyEmailHandler())
	s.RegisterRouteFunc("POST "+RouteVerifyPasscode, s.VerifyPasscodeHandler())
	s.RegisterRouteFunc("POST "+RouteTempAccess, s.TempAccessHandler())

	// SESSION
	s.RegisterRouteFunc("POST "+RouteHeartbeat, s.HeartbeatHandler())
	s.RegisterRouteFunc("GET "+RouteHeartbeat, s.SessionStatusHandler())

	// PAGES
	s.RegisterRouteHandler("GET "+RoutePortfolio, ChainMiddleware(s.PortfolioHandler(false), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePortfolioConfidential, ChainMiddleware(s.PortfolioHandler(true), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RoutePipelineConfidential, ChainMiddleware(s.PortfolioHandler(true), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMemo, ChainMiddleware(s.MemoHandler(), s.HTMLMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticJS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStaticLogos, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET /{file}", ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Printf("[%-19s] %s %s\n", displayMethod, path, errorString)
}

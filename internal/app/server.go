package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"tush00nka/marketplace_chat/internal/handler"
	"tush00nka/marketplace_chat/internal/service"
	"tush00nka/marketplace_chat/internal/ws"
)

type ServerDeps struct {
	Users       service.UserService
	UserHandler *handler.UserHandler
	ChatHandler *handler.ChatHandler
	WSHandler   *ws.Handler
	Gatherer    prometheus.Gatherer
	Origins     []string
}

type Server struct {
	router  *mux.Router
	handler http.Handler
	srv     *http.Server
}

func NewServer(deps ServerDeps) *Server {
	router := mux.NewRouter()

	router.HandleFunc("/ping", handler.Ping).Methods("GET")

	if deps.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})).Methods("GET")
	}

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	if deps.WSHandler != nil {
		router.HandleFunc("/ws/chat/{chat_id:[0-9]+}", deps.WSHandler.ServeWS)
	}

	api := router.PathPrefix("/api").Subrouter()
	api.Use(handler.RequireUser(deps.Users))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.ChatHandler != nil {
		deps.ChatHandler.RegisterRoutes(api)
	}

	origins := deps.Origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	cors := handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization", "Bearer", "X-Requested-With"}),
	)

	var h http.Handler = router
	h = cors(h)
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	h = handlers.LoggingHandler(os.Stdout, h)
	h = otelhttp.NewHandler(h, "http.server")

	return &Server{router: router, handler: h}
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until Shutdown is called.
func (s *Server) Run(port string) error {
	s.srv = &http.Server{
		Handler:           s.handler,
		Addr:              ":" + port,
		ReadHeaderTimeout: 15 * time.Second,
	}

	log.Printf("Server starting on port %s", port)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

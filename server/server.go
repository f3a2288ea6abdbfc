package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/cleancity/config"
	"github.com/techagentng/cleancity/db"
	"github.com/techagentng/cleancity/mailingservices"
	"github.com/techagentng/cleancity/realtime"
	"github.com/techagentng/cleancity/services"
)

// Server carries the wired dependencies for every handler.
type Server struct {
	Config                *config.Config
	Mail                  *mailingservices.Mailgun
	UserRepository        db.UserRepository
	WasteReportRepository db.WasteReportRepository
	AuthService           services.AuthService
	ReportService         services.WasteReportService
	MediaService          services.MediaService
	AssignmentService     services.AssignmentService
	CompletionService     services.CompletionService
	Hub                   *realtime.Hub
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully.
func (s *Server) Start() {
	r := s.setupRouter()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: r,
	}

	go func() {
		log.Printf("Server listening on port %d", s.Config.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

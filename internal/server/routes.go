package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"targetrange/internal/config"
	"targetrange/internal/db"
	"targetrange/internal/gamedata"
	"targetrange/internal/metrics"
	"targetrange/internal/sessions"
	"targetrange/internal/targets"
	"time"
)

const (
	recordBufferSize = 1000
	recordBatchSize  = 50
	recordFlushEvery = 500 * time.Millisecond
)

func Run() error {
	appCfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &Server{Metrics: metrics.New()}

	// Optional database connection
	if appCfg.DatabaseURL != "" {
		database, err := db.Connect(appCfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			defer database.Close()
			srv.DB = database
			srv.Records = make(chan db.Record, recordBufferSize)
			go recordBatchWriter(ctx, database, srv.Records)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	opts := sessions.Options{
		Game: gamedata.Config{
			Projectiles: appCfg.Projectiles(),
			Layout:      targets.DefaultLayout(),
		},
		FrameRate: appCfg.FrameRate,
		Metrics:   srv.Metrics,
		OnClose:   srv.endSession,
	}
	srv.Sessions = sessions.NewStore(opts, appCfg.SessionTTL)
	defer srv.Sessions.Shutdown()

	httpSrv := &http.Server{
		Addr:    "0.0.0.0:" + appCfg.Port,
		Handler: srv.Routes(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[Server] Shutdown error: %v\n", err)
		}
	}()

	fmt.Printf("Server listening on http://localhost:%s (range from %s, %d fps)\n", appCfg.Port, appCfg.RangeFrom, appCfg.FrameRate)
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Routes builds the HTTP surface.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions", s.handleListSessions)
	mux.HandleFunc("GET /sessions/{code}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{code}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{code}/fire", s.handleFire)
	mux.HandleFunc("POST /sessions/{code}/shoot", s.handleShoot)
	mux.HandleFunc("POST /sessions/{code}/pick/{id}", s.handlePick)
	mux.HandleFunc("GET /sessions/{code}/ws", s.handleWebSocket)
	mux.HandleFunc("GET /sessions/{code}/events", s.handleEvents)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.Metrics.Handler())
	mux.HandleFunc("GET /analytics/leaderboard", s.handleAnalyticsLeaderboard)
	mux.HandleFunc("GET /analytics/sessions/{id}", s.handleAnalyticsSession)
	return mux
}

func recordBatchWriter(ctx context.Context, database *db.DB, buffer chan db.Record) {
	ticker := time.NewTicker(recordFlushEvery)
	defer ticker.Stop()

	var batch db.Batch
	flush := func() {
		if batch.Len() == 0 {
			return
		}
		if err := database.BatchRecord(batch); err != nil {
			log.Printf("[DB] BatchRecord error: %v\n", err)
		}
		batch.Reset()
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case r := <-buffer:
			batch.Add(r)
			if batch.Len() >= recordBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"github.com/mind-engage/mindengage-portal/internal/certificate"
	"github.com/mind-engage/mindengage-portal/internal/config"
	"github.com/mind-engage/mindengage-portal/internal/coursework"
	"github.com/mind-engage/mindengage-portal/internal/db"
	"github.com/mind-engage/mindengage-portal/internal/i18n"
	"github.com/mind-engage/mindengage-portal/internal/session"
	"github.com/mind-engage/mindengage-portal/internal/storage"
	syncx "github.com/mind-engage/mindengage-portal/internal/sync"
	"github.com/mind-engage/mindengage-portal/internal/web"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load()
	if err != nil {
		glog.Exitf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Submissions ---
	var dbh *sql.DB
	submitter := func(string) coursework.Submitter {
		return &coursework.SimulatedSubmitter{Delay: cfg.SubmitDelay}
	}
	if cfg.SubmitDriver == config.SubmitEventLog {
		octx, cancel := context.WithTimeout(ctx, 10*time.Second)
		dbh, err = db.Open(octx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			glog.Exitf("db open failed: %v", err)
		}
		defer dbh.Close()
		events := syncx.NewEventRepo(dbh)
		submitter = func(courseID string) coursework.Submitter {
			return &coursework.EventLogSubmitter{Log: events, SiteID: cfg.SiteID, CourseID: courseID}
		}
	}

	// --- Certificates ---
	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		glog.Exitf("blob store: %v", err)
	}
	views, err := web.ParseViews()
	if err != nil {
		glog.Exitf("templates: %v", err)
	}
	locale := i18n.Parse(cfg.Locale, language.Arabic)

	srv := &web.Server{
		Catalog:       coursework.MustCatalog(coursework.SampleAssignments()),
		Submitter:     submitter,
		Lookup:        certificate.NewStaticLookup(nil, cfg.LookupDelay),
		Mailer:        certificate.LogMailer{},
		Documents:     &web.Document{Views: views, Lang: locale},
		Blobs:         bs,
		Views:         views,
		Locale:        locale,
		EmailCooldown: cfg.EmailCooldown,
		UploadLimitMB: cfg.UploadLimitMB,
		PublicURL:     cfg.PublicURL,
		DB:            dbh,
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	sessions.Secure = cfg.SecureCookies

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "HX-Request", "HX-Target", "HX-Current-URL", "HX-Trigger"},
		ExposedHeaders:   []string{"HX-Redirect", "Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(sessions.Middleware)
	r.Mount("/", web.Routes(srv))

	hs := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		glog.Infof("listening on %s (mode=%s, submit=%s, locale=%s)", cfg.HTTPAddr, cfg.Mode, cfg.SubmitDriver, locale)
		if err := hs.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sessions.Run(gctx, time.Minute)
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(sctx)
	})
	if err := g.Wait(); err != nil {
		glog.Errorf("server: %v", err)
		glog.Flush()
		os.Exit(1)
	}
	glog.Info("shut down")
}

package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/venique/rooster/app"
	"github.com/venique/rooster/config"
	"github.com/venique/rooster/database"
	"github.com/venique/rooster/log"
	"github.com/venique/rooster/routes"
	"github.com/venique/rooster/schema"
	"github.com/venique/rooster/store"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	sch, err := schema.LoadDir(cfg.DataDir)
	if err != nil {
		log.Fatal("main.schema:", err)
	}
	log.Infof("loaded schema: %d questions, %d roster pairs, %d dates, %d deadlines",
		len(sch.Questions), len(sch.Roster), len(sch.Dates), len(sch.Deadlines))

	st, err := openStore(cfg)
	if err != nil {
		log.Fatal("main.store:", err)
	}
	defer st.Close()

	st = store.Retry(st, store.RetryPolicy{
		MaxRetries:  cfg.RetryMax,
		MinInterval: cfg.RetryMin,
		MaxInterval: cfg.RetryMaxWait,
	})

	handler := routes.Wire(app.App{
		Store:  st,
		Schema: sch,
		Config: cfg,
	})

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.StoreKind == "csv" {
		return store.NewCSVStore(cfg.CSVPath), nil
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		return nil, err
	}
	return store.NewSQLiteStore(db), nil
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}

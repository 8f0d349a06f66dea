package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/reachmap/reachmap/internal/server"
	"github.com/reachmap/reachmap/pkg/cache"
	"github.com/reachmap/reachmap/pkg/pipeline"
	"github.com/reachmap/reachmap/pkg/store"
)

// serveCommand creates the serve command: the HTTP API around the pipeline.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redis    string
		mongoURI string
		mongoDB  string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the closure pipeline over HTTP",
		Long: `Serve exposes matrix submission and route queries as an HTTP API.

Backends are selected by configuration: with --redis the closure cache is
shared through Redis, otherwise the file cache is used; with --mongo-uri
graphs persist in MongoDB, otherwise they are held in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if addr == "" {
				addr = cfg.Addr
			}
			if redis == "" {
				redis = cfg.RedisAddr
			}
			if mongoURI == "" {
				mongoURI = cfg.MongoURI
			}
			if mongoDB == "" {
				mongoDB = cfg.MongoDatabase
			}

			closureCache, err := c.serveCache(ctx, redis, noCache)
			if err != nil {
				return err
			}
			defer closureCache.Close()

			st, err := c.serveStore(ctx, mongoURI, mongoDB)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			runner := pipeline.NewRunner(closureCache, nil, c.Logger)
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(st, runner, c.Logger).Router(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			c.Logger.Info("listening", "addr", addr)
			if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, then :8080)")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address for a shared closure cache")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for persistent graph storage")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "", "MongoDB database name")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the closure cache")

	return cmd
}

// serveCache selects the closure cache backend for the server.
func (c *CLI) serveCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, redisAddr, c.Config.Server.RedisPassword, c.Config.Server.RedisDB)
		if err != nil {
			return nil, err
		}
		c.Logger.Info("using redis cache", "addr", redisAddr)
		return rc, nil
	}
	return c.newCache(false), nil
}

// serveStore selects the graph store backend for the server.
func (c *CLI) serveStore(ctx context.Context, mongoURI, mongoDB string) (store.Store, error) {
	if mongoURI == "" {
		return store.NewMemoryStore(), nil
	}
	ms, err := store.NewMongoStore(ctx, mongoURI, mongoDB)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using mongo store", "database", mongoDB)
	return ms, nil
}

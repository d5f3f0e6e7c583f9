package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pylon/internal/api"
	"github.com/matzehuels/pylon/pkg/config"
	"github.com/matzehuels/pylon/pkg/store"
)

type serveOpts struct {
	listen   string
	envFiles []string
	noCache  bool
}

func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve exposes the pipeline over HTTP. Settings come from the environment,
optionally seeded from .env files:

  PYLON_LISTEN       listen address (default :8080)
  PYLON_CACHE_DIR    file cache directory
  PYLON_REDIS_URL    shared solver cache (overrides the file cache)
  PYLON_MONGO_URI    analysis store (in-memory when unset)
  PYLON_MONGO_DB     database name (default pylon)
  PYLON_RATE_LIMIT   requests per second per client (0 disables)
  PYLON_RATE_BURST   burst size`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.listen, "listen", "", "listen address (overrides "+config.EnvListen+")")
	cmd.Flags().StringSliceVar(&opts.envFiles, "env-file", nil, "load settings from .env files")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the solver cache")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	env, err := config.LoadEnv(opts.envFiles...)
	if err != nil {
		return err
	}
	if opts.listen != "" {
		env.Listen = opts.listen
	}

	runner, err := c.newRunner(ctx, cacheOpts{noCache: opts.noCache, redisURL: env.RedisURL, dir: env.CacheDir})
	if err != nil {
		return err
	}
	defer runner.Close()

	st, err := c.newStore(ctx, env)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := api.New(runner, st, c.Logger, api.Config{
		RateLimit: env.RateLimit,
		RateBurst: env.RateBurst,
	})
	return srv.ListenAndServe(ctx, env.Listen)
}

func (c *CLI) newStore(ctx context.Context, env config.Env) (store.Store, error) {
	if env.MongoURI == "" {
		c.Logger.Warn("no " + config.EnvMongoURI + " set, analyses are kept in memory")
		return store.NewMemoryStore(), nil
	}
	st, err := store.NewMongoStore(ctx, store.MongoConfig{URI: env.MongoURI, Database: env.MongoDB})
	if err != nil {
		return nil, err
	}
	c.Logger.Info("connected to mongo", "database", env.MongoDB)
	return st, nil
}

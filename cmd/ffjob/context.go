package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ffjob/internal/config"
	"ffjob/internal/encoding"
	"ffjob/internal/job"
	"ffjob/internal/logging"
	"ffjob/internal/optionset"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil {
			if level := strings.TrimSpace(*c.logLevelFlag); level != "" {
				cfg.Logging.Level = strings.ToLower(level)
				if err := cfg.Validate(); err != nil {
					c.configErr = fmt.Errorf("--log-level: %w", err)
					return
				}
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// loggerFor builds the process logger once, with console output on the
// command's stderr.
func (c *commandContext) loggerFor(cmd *cobra.Command) (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfigWriter(cfg, cmd.ErrOrStderr())
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore(ctx context.Context) (*optionset.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return optionset.Open(ctx, cfg.OptionSets.DBPath)
}

func (c *commandContext) withStore(ctx context.Context, fn func(*optionset.Store) error) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

// storeResolver opens the option-set store on first use so jobs without
// option sets never touch the database.
type storeResolver struct {
	ctx   *commandContext
	once  sync.Once
	store *optionset.Store
	err   error
}

func (c *commandContext) newStoreResolver() *storeResolver {
	return &storeResolver{ctx: c}
}

func (r *storeResolver) Resolve(ctx context.Context, name string) (job.Options, error) {
	r.once.Do(func() {
		r.store, r.err = r.ctx.openStore(ctx)
	})
	if r.err != nil {
		return nil, r.err
	}
	return r.store.Resolve(ctx, name)
}

func (r *storeResolver) Close() {
	if r.store != nil {
		_ = r.store.Close()
	}
}

func (c *commandContext) newRunner(cmd *cobra.Command, resolver job.Resolver) (*encoding.Runner, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.loggerFor(cmd)
	if err != nil {
		return nil, err
	}
	return encoding.NewRunner(cfg, encoding.WithLogger(logger), encoding.WithResolver(resolver)), nil
}

// loadJob reads a job document from path, or from stdin when path is "-".
func loadJob(cmd *cobra.Command, path string) (job.EncodeJob, error) {
	path = strings.TrimSpace(path)
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return job.EncodeJob{}, fmt.Errorf("read job from stdin: %w", err)
		}
		return job.Parse("stdin", data)
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return job.EncodeJob{}, err
	}
	return job.LoadFile(expanded)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

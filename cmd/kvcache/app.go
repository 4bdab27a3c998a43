package main

import (
	"errors"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"kvcache/internal/cache"
	"kvcache/internal/config"
	"kvcache/internal/database"
	"kvcache/internal/logging"
	"kvcache/internal/store"
)

// app bundles what every command needs: configuration, logger, database and cache.
type app struct {
	conf   *config.Config
	logger zerolog.Logger
	db     *gorm.DB
	cache  cache.Cache
}

func loadConfig(cmd *cobra.Command, logOut io.Writer) (*config.Config, zerolog.Logger, error) {
	configPath, _ := cmd.Flags().GetString(configFlag)
	envPrefix, _ := cmd.Flags().GetString(envPrefixFlag)

	conf, err := config.Load(configPath, envPrefix)
	if err != nil {
		return nil, zerolog.Nop(), err
	}

	return conf, logging.NewLogger(conf.Log, logOut), nil
}

// openApp opens the database and the cache engine. A disabled cache never opens the
// database, so no file is created.
func openApp(conf *config.Config, logger zerolog.Logger, opts ...cache.Option) (*app, error) {
	a := &app{conf: conf, logger: logger}

	var st store.Store

	if !conf.Cache.Disabled {
		db, err := database.Open(conf.Database.Path, logger)
		if err != nil {
			return nil, err
		}

		a.db = db
		st = store.NewSQLiteStore(db)
	}

	c, err := cache.New(conf.Cache, st, logger, opts...)
	if err != nil {
		if a.db != nil {
			_ = database.Close(a.db)
		}

		return nil, err
	}

	a.cache = c

	return a, nil
}

func (a *app) Close() error {
	err := a.cache.Close()

	if a.db != nil {
		err = errors.Join(err, database.Close(a.db))
	}

	return err
}

// openFromFlags is the bootstrap of the one shot commands. They log to stderr to keep
// stdout for their result.
func openFromFlags(cmd *cobra.Command) (*app, error) {
	conf, logger, err := loadConfig(cmd, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	return openApp(conf, logger)
}

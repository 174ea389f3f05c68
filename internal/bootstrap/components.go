package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredislib "github.com/redis/go-redis/v9"
	"github.com/viant/afs"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/viant/vacation"
	"github.com/viant/vacation/model"
	"github.com/viant/vacation/service/dao/request"
	rfs "github.com/viant/vacation/service/dao/request/fs"
	rmem "github.com/viant/vacation/service/dao/request/memory"
	rsql "github.com/viant/vacation/service/dao/request/sql"
	"github.com/viant/vacation/service/directory"
	dmem "github.com/viant/vacation/service/directory/memory"
	"github.com/viant/vacation/service/lock"
	lmem "github.com/viant/vacation/service/lock/memory"
	lredis "github.com/viant/vacation/service/lock/redis"
	"github.com/viant/vacation/service/settings"
	sfs "github.com/viant/vacation/service/settings/fs"
)

// Components are the collaborators of vacation.Service built from config.
type Components struct {
	Store     request.Service
	Directory directory.Service
	Settings  settings.Service
	Locker    lock.Service
	closers   []func() error
}

// Options returns the facade options wiring the components.
func (c *Components) Options() []vacation.Option {
	return []vacation.Option{
		vacation.WithStore(c.Store),
		vacation.WithDirectory(c.Directory),
		vacation.WithSettings(c.Settings),
		vacation.WithLocker(c.Locker),
	}
}

// Close releases database and redis connections.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build creates the components described by cfg.
func Build(ctx context.Context, cfg *vacation.Config, logger *zap.Logger) (ret *Components, err error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ret = &Components{}
	built := ret
	defer func() {
		if err != nil {
			_ = built.Close()
		}
	}()
	if ret.Settings, err = newSettings(cfg); err != nil {
		return nil, err
	}
	aSettings, err := ret.Settings.Settings(ctx)
	if err != nil {
		return nil, err
	}

	members := dmem.New(cfg.Actors...)
	rosters, err := members.TeamSizes(ctx)
	if err != nil {
		return nil, err
	}
	ret.Directory = members

	switch strings.ToLower(cfg.Store.Kind) {
	case vacation.StoreMemory, "":
		ret.Store = rmem.New(rmem.WithDefaultTotal(aSettings.DefaultVacationDays), rmem.WithRoster(rosters))
	case vacation.StoreFS:
		if ret.Store, err = rfs.New(cfg.Store.BaseURL, rfs.WithDefaultTotal(aSettings.DefaultVacationDays), rfs.WithRoster(rosters)); err != nil {
			return nil, err
		}
	case vacation.StorePostgres:
		store, err := newSQLStore(ctx, ret, cfg, aSettings, logger)
		if err != nil {
			return nil, err
		}
		ret.Store = store
		ret.Directory = store
	default:
		return nil, fmt.Errorf("unsupported store kind: %q", cfg.Store.Kind)
	}
	logger.Info("request store ready", zap.String("kind", cfg.Store.Kind))

	switch strings.ToLower(cfg.Lock.Kind) {
	case vacation.LockMemory, "":
		ret.Locker = lmem.New()
	case vacation.LockRedis:
		client := goredislib.NewClient(&goredislib.Options{
			Addr:     cfg.Lock.Addr,
			Password: cfg.Lock.Password,
			DB:       cfg.Lock.DB,
		})
		ret.closers = append(ret.closers, client.Close)
		if err = client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis %v: %w", cfg.Lock.Addr, err)
		}
		if ret.Locker, err = lredis.New(client, lredis.Options{
			Expiry:     cfg.Lock.Expiry,
			Tries:      cfg.Lock.Tries,
			RetryDelay: cfg.Lock.RetryDelay,
		}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported lock kind: %q", cfg.Lock.Kind)
	}
	logger.Info("team lock ready", zap.String("kind", cfg.Lock.Kind))
	return ret, nil
}

func newSettings(cfg *vacation.Config) (settings.Service, error) {
	if cfg.Settings.URL != "" {
		return sfs.New(cfg.Settings.URL, afs.New()), nil
	}
	aSettings, err := cfg.Settings.Model()
	if err != nil {
		return nil, err
	}
	if err = aSettings.Validate(); err != nil {
		return nil, err
	}
	return settings.NewStatic(aSettings), nil
}

func newSQLStore(ctx context.Context, components *Components, cfg *vacation.Config, aSettings *model.Settings, logger *zap.Logger) (*rsql.Service, error) {
	db, err := gorm.Open(postgres.Open(cfg.Store.DSN), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	components.closers = append(components.closers, sqlDB.Close)
	if err = sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	store := rsql.New(db, aSettings.DefaultVacationDays)
	if err = store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	for _, actor := range cfg.Actors {
		if err = store.Register(ctx, actor); err != nil {
			return nil, fmt.Errorf("failed to register actor %v: %w", actor.ID, err)
		}
	}
	logger.Info("database ready", zap.Int("actors", len(cfg.Actors)))
	return store, nil
}

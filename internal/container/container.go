// Package container builds the application's shared components from config.
// Everything is constructed once in New and passed explicitly to the router.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-table-reservation/config"
	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/internal/domain/repository"
	"github.com/oksasatya/go-table-reservation/internal/infrastructure/memory"
	"github.com/oksasatya/go-table-reservation/internal/infrastructure/notification"
	pginfra "github.com/oksasatya/go-table-reservation/internal/infrastructure/postgres"
	"github.com/oksasatya/go-table-reservation/internal/infrastructure/rediscache"
	"github.com/oksasatya/go-table-reservation/pkg/helpers"
	"github.com/oksasatya/go-table-reservation/pkg/mailer"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Users        repository.UserRepository
	Reservations repository.ReservationRepository
	Cache        application.CountCache // nil when REDIS_ADDR is empty
	Notifier     application.Notifier
	Pinger       Pinger // nil for the memory store
	Reporter     *helpers.SentryReporter

	closers []func()
}

// New wires storage, cache and notifications according to cfg.
// Callers must Close the container when done.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := &Container{Config: cfg, Logger: logger}
	if err := c.initStorage(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initCache(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initNotifier(); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initReporter(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) initStorage(ctx context.Context) error {
	switch c.Config.StorageDriver {
	case config.StorageDriverMemory:
		c.Users = memory.NewUserRepository()
		c.Reservations = memory.NewReservationRepository()
		c.Logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	case config.StorageDriverPostgres:
		dsn := c.Config.PostgresDSN()
		if c.Config.RunMigrations {
			if err := pginfra.RunMigrations(dsn, c.Config.MigrationsDir, c.Logger); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
		}
		pool, err := pginfra.NewPool(ctx, dsn, pginfra.PoolOptionsFrom(c.Config))
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.onClose(pool.Close)
		c.usePostgres(pool)
		return nil
	default:
		return fmt.Errorf("unknown storage driver %q", c.Config.StorageDriver)
	}
}

func (c *Container) usePostgres(pool *pgxpool.Pool) {
	c.Users = pginfra.NewUserRepository(pool)
	c.Reservations = pginfra.NewReservationRepository(pool)
	c.Pinger = pool
}

func (c *Container) initCache(ctx context.Context) error {
	if c.Config.RedisAddr == "" {
		return nil
	}
	rdb := helpers.NewRedisClient(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		_ = rdb.Close()
		return fmt.Errorf("connect redis: %w", err)
	}
	c.onClose(func() { _ = rdb.Close() })
	c.useRedis(rdb)
	return nil
}

func (c *Container) useRedis(rdb *redis.Client) {
	c.Cache = rediscache.NewCountCache(rdb, c.Config.AvailabilityCacheTTL)
}

func (c *Container) initNotifier() error {
	if !c.Config.MailSendEnabled {
		c.Logger.Info("MAIL_SEND_ENABLED=false; confirmation emails are disabled")
		c.Notifier = application.DisabledNotifier{}
		return nil
	}
	switch c.Config.NotificationMode {
	case config.NotificationModeDirect:
		mg := mailer.NewMailgun(c.Config.MailgunDomain, c.Config.MailgunAPIKey, c.Config.MailgunSender)
		mg.APIBase = c.Config.MailgunAPIBase
		mg.Timeout = c.Config.MailTimeout
		c.Notifier = notification.NewDirectNotifier(mg, c.Config)
	case config.NotificationModeQueue:
		pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
		if err != nil {
			return fmt.Errorf("connect rabbitmq: %w", err)
		}
		c.onClose(pub.Close)
		c.Notifier = notification.NewQueueNotifier(pub, c.Config)
	default:
		return fmt.Errorf("unknown notification mode %q", c.Config.NotificationMode)
	}
	return nil
}

func (c *Container) initReporter() error {
	rep, err := helpers.NewSentryReporter(c.Config.SentryDSN, c.Config.SentryEnvironment, c.Config.AppName)
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}
	if rep.Enabled() {
		c.onClose(func() { rep.Flush(2 * time.Second) })
	}
	c.Reporter = rep
	return nil
}

func (c *Container) onClose(fn func()) {
	c.closers = append(c.closers, fn)
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// UserService, AuthService and BookingService build the application layer on
// top of the wired infrastructure.
func (c *Container) UserService() *application.UserService {
	return application.NewUserService(c.Users, c.Logger)
}

func (c *Container) AuthService() *application.AuthService {
	return application.NewAuthService(c.Users, c.Logger)
}

func (c *Container) BookingService() *application.BookingService {
	return application.NewBookingService(c.Reservations, c.Notifier, c.Cache, c.Config.ReservationCapacity, c.Logger)
}

var _ Pinger = (*pgxpool.Pool)(nil)

package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	identityCommands "github.com/felixgeelhaar/planify/internal/identity/application/commands"
	identityQueries "github.com/felixgeelhaar/planify/internal/identity/application/queries"
	identityDomain "github.com/felixgeelhaar/planify/internal/identity/domain"
	"github.com/felixgeelhaar/planify/internal/identity/recovery"
	schedulingCommands "github.com/felixgeelhaar/planify/internal/scheduling/application/commands"
	schedulingQueries "github.com/felixgeelhaar/planify/internal/scheduling/application/queries"
	schedulingDomain "github.com/felixgeelhaar/planify/internal/scheduling/domain"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/email"
	"github.com/felixgeelhaar/planify/internal/scheduling/infrastructure/ical"
	sharedApplication "github.com/felixgeelhaar/planify/internal/shared/application"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/planify/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/planify/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/lock"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/planify/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/planify/pkg/config"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  schedulingDomain.Clock

	// Infrastructure
	DBConn      database.Connection
	RedisClient *redis.Client
	UnitOfWork  sharedApplication.UnitOfWork
	Locker      lock.Locker

	// Repositories
	Repositories  schedulingCommands.Repositories
	UserRepo      identityDomain.UserRepository
	CandidateRepo schedulingDomain.CandidateRepository
	OutboxRepo    *outbox.SQLRepository

	// Delivery
	EventBus           *eventbus.InProcessEventBus
	EventPublisher     eventbus.Publisher
	OutboxProcessor    *outbox.Processor
	Mailer             *email.BreakerMailer
	NotificationMailer *email.NotificationMailer

	// Identity
	CreateUserHandler *identityCommands.CreateUserHandler
	UserStateHandler  *identityCommands.UserStateHandler
	ListUsersHandler  *identityQueries.ListUsersHandler
	TokenStore        recovery.TokenStore
	RecoveryService   *recovery.Service

	// Scheduling command handlers
	ConfigureWorkScheduleHandler  *schedulingCommands.ConfigureWorkScheduleHandler
	CreateAbsenceHandler          *schedulingCommands.CreateAbsenceHandler
	DeleteAbsenceHandler          *schedulingCommands.DeleteAbsenceHandler
	CreateMeetingHandler          *schedulingCommands.CreateMeetingHandler
	EditMeetingHandler            *schedulingCommands.EditMeetingHandler
	AssistMeetingHandler          *schedulingCommands.AssistMeetingHandler
	ChangeMeetingStatusHandler    *schedulingCommands.ChangeMeetingStatusHandler
	ChangeInvitationStatusHandler *schedulingCommands.ChangeInvitationStatusHandler
	BlockUserHandler              *schedulingCommands.BlockUserHandler
	MarkNotificationReadHandler   *schedulingCommands.MarkNotificationReadHandler
	DiscardNotificationHandler    *schedulingCommands.DiscardNotificationHandler

	// Scheduling query handlers
	GetWorkScheduleHandler            *schedulingQueries.GetWorkScheduleHandler
	ListAbsencesHandler               *schedulingQueries.ListAbsencesHandler
	CheckAbsenceMeetingOverlapHandler *schedulingQueries.CheckAbsenceMeetingOverlapHandler
	ListMeetingsHandler               *schedulingQueries.ListMeetingsHandler
	GetMeetingHandler                 *schedulingQueries.GetMeetingHandler
	HasOpenMeetingsHandler            *schedulingQueries.HasOpenMeetingsHandler
	ListMeetingCandidatesHandler      *schedulingQueries.ListMeetingCandidatesHandler
	ListNotificationsHandler          *schedulingQueries.ListNotificationsHandler

	// Export
	CalendarExporter *ical.Exporter
}

// NewContainer creates and wires all dependencies. Without DATABASE_URL the
// container runs on a local SQLite file with in-process locks and delivery.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	return newContainer(ctx, cfg, logger, schedulingDomain.SystemClock{})
}

func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger, clock schedulingDomain.Clock) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Clock:  clock,
	}

	conn, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	c.DBConn = conn

	if err := c.connectRedis(ctx); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.initLocker(); err != nil {
		c.Close()
		return nil, err
	}

	factory := NewRepositoryFactory(conn)
	c.Repositories = factory.SchedulingRepositories()
	c.UserRepo = c.Repositories.Users
	c.CandidateRepo = factory.CandidateRepository()
	c.OutboxRepo = factory.OutboxRepository()
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.initDelivery()
	if err := c.initPublisher(); err != nil {
		c.Close()
		return nil, err
	}
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: outbox.DefaultProcessorConfig().RetryBackoffBase,
		RetryBackoffMax:  outbox.DefaultProcessorConfig().RetryBackoffMax,
	}, logger)

	c.initIdentity()
	c.initScheduling()

	logger.Debug("container initialized",
		"driver", conn.Driver().String(),
		"locker", fmt.Sprintf("%T", c.Locker),
		"publisher", fmt.Sprintf("%T", c.EventPublisher),
	)
	return c, nil
}

// openDatabase connects to PostgreSQL or SQLite and applies the schema.
func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (database.Connection, error) {
	if cfg.UsesSQLite() {
		conn, err := database.NewConnection(ctx, database.Config{
			Driver:     database.DriverSQLite,
			SQLitePath: cfg.SQLitePath,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		sqliteConn, ok := conn.(interface{ DB() *sql.DB })
		if !ok {
			_ = conn.Close()
			return nil, fmt.Errorf("expected SQLite connection with DB() method, got %T", conn)
		}
		if err := migrations.RunSQLiteMigrations(ctx, sqliteConn.DB()); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logger.Debug("using SQLite database", "path", cfg.SQLitePath)
		return conn, nil
	}

	migrationDB, err := migrations.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	err = migrations.RunPostgresMigrations(ctx, migrationDB)
	_ = migrationDB.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := database.NewConnection(ctx, database.Config{
		Driver: database.DriverPostgres,
		URL:    cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("connected to database", "driver", "postgres")
	return conn, nil
}

// connectRedis connects when REDIS_URL is set. Redis is optional unless it
// backs the locks.
func (c *Container) connectRedis(ctx context.Context) error {
	required := c.Config.LockBackend == "redis"
	if c.Config.RedisURL == "" {
		if required {
			return fmt.Errorf("LOCK_BACKEND=redis requires REDIS_URL")
		}
		return nil
	}

	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if required || c.Config.IsProduction() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, using in-process locks and token store", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) initLocker() error {
	switch c.Config.LockBackend {
	case "redis":
		c.Locker = lock.NewRedisLocker(c.RedisClient, lock.RedisConfig{TTL: c.Config.LockTTL}, c.Logger)
	case "memory", "":
		c.Locker = lock.NewMemoryLocker()
	default:
		return fmt.Errorf("unknown LOCK_BACKEND %q", c.Config.LockBackend)
	}
	return nil
}

// initDelivery builds the mailer and registers the notification consumer on
// the in-process bus.
func (c *Container) initDelivery() {
	breaker := email.DefaultBreakerConfig()
	if c.Config.MailBreakerMaxFailures > 0 {
		breaker.FailureThreshold = c.Config.MailBreakerMaxFailures
	}
	if c.Config.MailBreakerTimeout > 0 {
		breaker.Timeout = c.Config.MailBreakerTimeout
	}

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    c.Config.MailProvider,
		FromAddress: c.Config.MailFromAddress,
		FromName:    c.Config.MailFromName,
		SES: email.SESConfig{
			Region:          c.Config.AWSRegion,
			AccessKeyID:     c.Config.AWSAccessKeyID,
			SecretAccessKey: c.Config.AWSSecretAccessKey,
		},
	}, c.Logger)
	c.Mailer = email.NewBreakerMailer(mailer, breaker, c.Logger)
	c.NotificationMailer = email.NewNotificationMailer(c.Repositories.Users, c.Repositories.Meetings, c.Mailer, c.Logger)

	c.EventBus = eventbus.NewInProcessEventBus(c.Logger)
	c.EventBus.RegisterConsumer(c.NotificationMailer)
}

// initPublisher prefers RabbitMQ and falls back to the in-process bus when no
// broker is configured, or in development when it is unreachable.
func (c *Container) initPublisher() error {
	if c.Config.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
		if err == nil {
			c.EventPublisher = publisher
			return nil
		}
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, delivering events in process", "error", err)
	}
	c.EventPublisher = c.EventBus
	return nil
}

func (c *Container) initIdentity() {
	users := c.Repositories.Users
	c.CreateUserHandler = identityCommands.NewCreateUserHandler(users, c.OutboxRepo, c.UnitOfWork, c.Logger)
	c.UserStateHandler = identityCommands.NewUserStateHandler(users, c.OutboxRepo, c.UnitOfWork, c.Locker, c.Logger)
	c.ListUsersHandler = identityQueries.NewListUsersHandler(users)

	if c.RedisClient != nil {
		c.TokenStore = recovery.NewRedisStore(c.RedisClient, "")
	} else {
		c.TokenStore = recovery.NewMemoryStore(c.Clock)
	}
	c.RecoveryService = recovery.NewService(users, c.TokenStore, c.Config.ResetTokenTTL, c.Logger)
}

func (c *Container) initScheduling() {
	repos := c.Repositories

	c.ConfigureWorkScheduleHandler = schedulingCommands.NewConfigureWorkScheduleHandler(repos, c.UnitOfWork, c.Locker)
	c.CreateAbsenceHandler = schedulingCommands.NewCreateAbsenceHandler(repos, c.UnitOfWork, c.Locker, c.Clock, c.Logger)
	c.DeleteAbsenceHandler = schedulingCommands.NewDeleteAbsenceHandler(repos, c.UnitOfWork, c.Locker)
	c.CreateMeetingHandler = schedulingCommands.NewCreateMeetingHandler(repos, c.UnitOfWork, c.Locker, c.Clock, c.Logger)
	c.EditMeetingHandler = schedulingCommands.NewEditMeetingHandler(repos, c.UnitOfWork, c.Locker, c.Clock, c.Logger)
	c.AssistMeetingHandler = schedulingCommands.NewAssistMeetingHandler(repos, c.UnitOfWork, c.Locker)
	c.ChangeMeetingStatusHandler = schedulingCommands.NewChangeMeetingStatusHandler(repos, c.UnitOfWork, c.Locker)
	c.ChangeInvitationStatusHandler = schedulingCommands.NewChangeInvitationStatusHandler(repos, c.UnitOfWork, c.Locker)
	c.BlockUserHandler = schedulingCommands.NewBlockUserHandler(repos, c.UnitOfWork, c.Locker, c.Logger)
	c.MarkNotificationReadHandler = schedulingCommands.NewMarkNotificationReadHandler(repos.Notifications, c.UnitOfWork, c.Clock)
	c.DiscardNotificationHandler = schedulingCommands.NewDiscardNotificationHandler(repos.Notifications, c.UnitOfWork)

	c.GetWorkScheduleHandler = schedulingQueries.NewGetWorkScheduleHandler(repos.Schedule)
	c.ListAbsencesHandler = schedulingQueries.NewListAbsencesHandler(repos.Absences)
	c.CheckAbsenceMeetingOverlapHandler = schedulingQueries.NewCheckAbsenceMeetingOverlapHandler(repos.Schedule, repos.Meetings, repos.Absences, c.Clock)
	c.ListMeetingsHandler = schedulingQueries.NewListMeetingsHandler(repos.Meetings)
	c.GetMeetingHandler = schedulingQueries.NewGetMeetingHandler(repos.Meetings, repos.Users)
	c.HasOpenMeetingsHandler = schedulingQueries.NewHasOpenMeetingsHandler(repos.Meetings)
	c.ListMeetingCandidatesHandler = schedulingQueries.NewListMeetingCandidatesHandler(c.CandidateRepo)
	c.ListNotificationsHandler = schedulingQueries.NewListNotificationsHandler(repos.Notifications)

	c.CalendarExporter = ical.NewExporter(repos.Users, c.Clock)
}

// Close cleans up all resources.
func (c *Container) Close() {
	if c.OutboxProcessor != nil && c.OutboxProcessor.IsRunning() {
		c.OutboxProcessor.Stop()
	}

	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
	}

	if c.DBConn != nil {
		if err := c.DBConn.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Debug("database connection closed", "driver", c.DBConn.Driver().String())
		}
	}
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/scrapeflow/configs"
	"github.com/maheshrc27/scrapeflow/internal/api"
	"github.com/maheshrc27/scrapeflow/internal/api/handlers"
	"github.com/maheshrc27/scrapeflow/internal/api/middleware"
	"github.com/maheshrc27/scrapeflow/internal/database"
	job "github.com/maheshrc27/scrapeflow/internal/jobs"
	"github.com/maheshrc27/scrapeflow/internal/lock"
	"github.com/maheshrc27/scrapeflow/internal/queue"
	"github.com/maheshrc27/scrapeflow/internal/repository"
	"github.com/maheshrc27/scrapeflow/internal/service"
	"github.com/maheshrc27/scrapeflow/pkg/utils"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron"
	"github.com/urfave/cli/v3"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	cmd := &cli.Command{
		Name:   "scrapeflow",
		Usage:  "Scrape sources on a schedule and publish LinkedIn posts",
		Action: func(ctx context.Context, c *cli.Command) error { return serve(ctx, cfg, false) },
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the API, the scrape scheduler and the publish worker",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Usage: "Apply pending migrations before starting"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return serve(ctx, cfg, c.Bool("migrate"))
				},
			},
			{
				Name:  "tick",
				Usage: "Process every due schedule once and exit",
				Action: func(ctx context.Context, c *cli.Command) error {
					return tick(ctx, cfg)
				},
			},
			{
				Name:      "migrate",
				Usage:     "Apply (up) or roll back (down) the database schema",
				ArgsUsage: "up|down",
				Action: func(ctx context.Context, c *cli.Command) error {
					direction := c.Args().First()
					if direction == "" {
						direction = "up"
					}
					db, err := openDB(cfg)
					if err != nil {
						return err
					}
					defer closeDB(db)
					return database.Migrate(db, direction)
				},
			},
			{
				Name:  "token",
				Usage: "Create the user if needed and print a session token",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Usage: "Owner email", Required: true},
					&cli.StringFlag{Name: "name", Usage: "Owner display name"},
					&cli.DurationFlag{Name: "ttl", Usage: "Token lifetime", Value: 30 * 24 * time.Hour},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return issueToken(ctx, cfg, c.String("email"), c.String("name"), c.Duration("ttl"))
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type components struct {
	db           *sql.DB
	asynqClient  *asynq.Client
	redisClient  *redis.Client
	queue        *queue.Queue
	scrapeJob    *job.ScrapeJob
	publishRetry service.RetryPolicy
	handlers     api.Handlers
}

func (c *components) Close() {
	if c.asynqClient != nil {
		c.asynqClient.Close()
	}
	if c.redisClient != nil {
		c.redisClient.Close()
	}
	closeDB(c.db)
}

func build(ctx context.Context, cfg *config.Config) (*components, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("SECRET_KEY must be set")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	contentRepo := repository.NewContentRepository(db)
	socialAccountRepo := repository.NewSocialAccountRepository(db)
	attemptRepo := repository.NewPublishAttemptRepository(db)

	snapshotService, err := service.NewSnapshotService(ctx, cfg.R2)
	if err != nil {
		closeDB(db)
		return nil, fmt.Errorf("failed to configure R2: %w", err)
	}

	policy := service.RetryPolicy{
		MaxRetries: cfg.Scraper.PublishMaxRetries,
		BaseDelay:  cfg.Scraper.PublishBaseDelay,
	}

	linkedInService := service.NewLinkedInService(cfg.LinkedIn, cfg.Scraper.PublishTimeout)
	publishService := service.NewPublishService(linkedInService, cfg.SecretKey, policy)
	queueW := queue.NewQueue(contentRepo, scheduleRepo, socialAccountRepo, attemptRepo, publishService)

	comp := &components{db: db, queue: queueW, publishRetry: policy}

	var dispatcher queue.Dispatcher
	var locker lock.Locker
	if cfg.RedisURI != "" {
		comp.asynqClient = asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisURI})
		comp.redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisURI})
		if err := comp.redisClient.Ping(ctx).Err(); err != nil {
			comp.Close()
			return nil, fmt.Errorf("redis is unreachable: %w", err)
		}
		dispatcher = queue.NewAsyncDispatcher(comp.asynqClient, queueW)
		locker = lock.NewRedisLocker(comp.redisClient)
	} else {
		log.Println("REDIS_URI not set: publishing inline with in-process locks")
		dispatcher = queue.NewInlineDispatcher(queueW)
		locker = lock.NewMemoryLocker()
	}

	comp.scrapeJob = job.NewScrapeJob(
		scheduleRepo,
		contentRepo,
		socialAccountRepo,
		service.NewFetchService(cfg.Scraper.FetchTimeout, cfg.Scraper.FetchRatePerSecond),
		service.NewExtractService(),
		service.NewOptimizeService(cfg.DeepSeek, cfg.Scraper.OptimizeTimeout),
		snapshotService,
		dispatcher,
		locker,
		cfg.Scraper.Concurrency,
	)

	userService := service.NewUserService(userRepo)
	platformService := service.NewPlatformService(cfg.SecretKey, linkedInService, socialAccountRepo)

	loginCfg := cfg.LinkedIn
	loginCfg.RedirectURI = cfg.LinkedIn.LoginRedirectURI
	authService := service.NewAuthService(service.NewLinkedInService(loginCfg, cfg.Scraper.PublishTimeout), userService, platformService)

	comp.handlers = api.Handlers{
		Auth:     handlers.NewAuthHandler(*cfg, authService),
		User:     handlers.NewUserHandler(userService),
		Platform: handlers.NewPlatformHandler(platformService, *cfg),
		Schedule: handlers.NewScheduleHandler(service.NewScheduleService(scheduleRepo, contentRepo)),
		Content:  handlers.NewContentHandler(service.NewContentService(scheduleRepo, contentRepo, attemptRepo)),
	}

	return comp, nil
}

func serve(ctx context.Context, cfg *config.Config, migrateFirst bool) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	comp, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer comp.Close()

	if migrateFirst {
		if err := database.Migrate(comp.db, "up"); err != nil {
			return err
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	api.RegisterRoutes(app, authMiddleware.AuthMiddleware(), comp.handlers)

	// cron jobs
	c := cron.New()
	if err := c.AddFunc(cfg.Scraper.Tick, func() { comp.scrapeJob.Run(ctx) }); err != nil {
		return fmt.Errorf("invalid SCRAPE_TICK %q: %w", cfg.Scraper.Tick, err)
	}
	c.Start()

	var worker *asynq.Server
	if cfg.RedisURI != "" {
		worker = asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisURI}, asynq.Config{
			Concurrency:    10,
			RetryDelayFunc: queue.RetryDelayFunc(comp.publishRetry),
		})

		mux := asynq.NewServeMux()
		mux.HandleFunc(queue.TaskTypePublishContent, comp.queue.HandlePublishTask)

		go func() {
			log.Println("Starting the Asynq server...")
			if err := worker.Run(mux); err != nil {
				log.Fatalf("Could not start Asynq server: %v", err)
			}
		}()
	}

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	<-ctx.Done()
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}
	c.Stop()
	comp.scrapeJob.Wait()
	if worker != nil {
		worker.Shutdown()
	}

	log.Println("Server shutdown complete.")
	return nil
}

func tick(ctx context.Context, cfg *config.Config) error {
	comp, err := build(ctx, cfg)
	if err != nil {
		return err
	}
	defer comp.Close()

	report, err := comp.scrapeJob.RunOnce(ctx, time.Now())
	if err != nil {
		return err
	}

	fmt.Printf("due: %d, locked elsewhere: %d, no longer due: %d\n", report.Due, report.Locked, report.Stale)
	for stage, n := range report.Outcomes {
		fmt.Printf("  %s: %d\n", stage, n)
	}
	return nil
}

func issueToken(ctx context.Context, cfg *config.Config, email, name string, ttl time.Duration) error {
	if cfg.SecretKey == "" {
		return errors.New("SECRET_KEY must be set")
	}

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	user, err := service.NewUserService(repository.NewUserRepository(db)).EnsureUser(ctx, email, name)
	if err != nil {
		return err
	}

	token, err := utils.GenerateToken(cfg.SecretKey, user.ID, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

func openDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database is unreachable: %w", err)
	}
	return db, nil
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

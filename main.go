package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	api "github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/cache"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

func main() {
	fmt.Println("Initializing app...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}
	c := config.New()

	db, err := openDatabase(c)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	currentDB := database.New(db)

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		fmt.Println("Generating models and query helpers...")
		models.GenerateModels(db)
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		fmt.Println("Generating column mismatch report...")
		models.GenerateColumnMismatchReportStandalone(db)
		return
	}

	if config.GetBool(c, "AUTO_MIGRATE", true) {
		if err := currentDB.Migrate(); err != nil {
			fmt.Printf("Error migrating database: %v\n", err)
			os.Exit(1)
		}
	}

	store, err := openCache(c)
	if err != nil {
		fmt.Printf("Error connecting to cache: %v\n", err)
		os.Exit(1)
	}

	deps := buildDependencies(c, currentDB, store)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(deps, c)
	if err != nil {
		fmt.Printf("Error initializing server: %v\n", err)
		os.Exit(1)
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	fmt.Printf("Closing server: %v\n", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the primary database selected by DB_TYPE and
// registers DB_REPLICA_URL, when set, as a read replica.
func openDatabase(c map[string]string) (*gorm.DB, error) {
	dbType := config.GetString(c, "DB_TYPE", "postgres")

	// Build connection string based on DB_TYPE
	var connStr string
	fmt.Printf("DB_TYPE: %s\n", dbType)
	switch dbType {
	case "supa":
		connStr = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		)
		fmt.Println("Connecting to Supabase database...")
	case "postgres":
		connStr = config.GetString(c, "DATABASE_URL", "")
		if connStr == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when DB_TYPE=postgres")
		}
		fmt.Println("Connecting to Postgres database...")
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, err
	}

	if replica := config.GetString(c, "DB_REPLICA_URL", ""); replica != "" {
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.New(postgres.Config{
				DSN:                  replica,
				PreferSimpleProtocol: true,
			})},
			Policy: dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replica: %w", err)
		}
		fmt.Println("Read replica registered")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}
	return db, nil
}

// openCache selects the public read cache from CACHE_DRIVER.
func openCache(c map[string]string) (cache.Store, error) {
	switch driver := config.GetString(c, "CACHE_DRIVER", "memory"); driver {
	case "memory":
		return cache.NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     config.GetString(c, "REDIS_ADDR", "localhost:6379"),
			Password: config.GetString(c, "REDIS_PASSWORD", ""),
			DB:       config.GetInt(c, "REDIS_DB", 0),
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return cache.NewRedisStore(client, "cache"), nil
	default:
		return nil, fmt.Errorf("unsupported CACHE_DRIVER %q", driver)
	}
}

func buildDependencies(c map[string]string, db database.Database, store cache.Store) api.Dependencies {
	cacheCfg := services.CacheConfig{
		Store: store,
		TTL:   config.GetDuration(c, "CACHE_TTL_SECONDS", services.DefaultCacheTTL),
	}
	audit := services.NewAuditLogger(db.AuditLogRepo())

	blogs := services.NewBlogService(db.BlogPostRepo(), audit, services.BlogServiceConfig{
		Cache:         cacheCfg,
		StrictContent: config.GetBool(c, "STRICT_CONTENT_VALIDATION", false),
	})
	projects := services.NewProjectService(db.ProjectRepo(), audit, cacheCfg)
	skills := services.NewSkillService(db.SkillRepo(), audit, cacheCfg)
	experience := services.NewExperienceService(db.ExperienceRepo(), audit, cacheCfg)

	var mailer services.Mailer
	if m, err := services.NewResendMailer(c); err != nil {
		zlog.Warn().Err(err).Msg("contact form disabled")
	} else {
		mailer = m
	}

	var storage services.ObjectStorage
	if s, err := services.NewS3Storage(context.Background(), c); err != nil {
		zlog.Warn().Err(err).Msg("image uploads disabled")
	} else {
		storage = s
	}

	return api.Dependencies{
		Blogs:      blogs,
		Views:      services.NewViewCounter(db.BlogPostRepo(), store),
		Projects:   projects,
		Skills:     skills,
		Experience: experience,
		Trash: services.NewTrashService(
			blogs.Lifecycle(),
			projects.Lifecycle(),
			skills.Lifecycle(),
			experience.Lifecycle(),
		),
		Feed: services.NewFeedService(blogs, services.FeedConfig{
			BaseURL:     services.GetBaseURL(c),
			Title:       config.GetString(c, "SITE_TITLE", "Blog"),
			Description: config.GetString(c, "SITE_DESCRIPTION", ""),
		}),
		Contact:        services.NewContactService(mailer, config.GetString(c, "CONTACT_EMAIL", "")),
		Uploads:        services.NewImageUploader(storage),
		ProjectTagRepo: db.ProjectTagRepo(),
		AuditLogRepo:   db.AuditLogRepo(),
		Ping:           db.Ping,
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

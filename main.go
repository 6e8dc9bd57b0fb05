package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/beka-birhanu/vinom-mazebuilder/api"
	api_i "github.com/beka-birhanu/vinom-mazebuilder/api/i"
	"github.com/beka-birhanu/vinom-mazebuilder/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-mazebuilder/api/maze"
	"github.com/beka-birhanu/vinom-mazebuilder/config"
	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/lock"
	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/repo"
	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/sessionstore"
	"github.com/beka-birhanu/vinom-mazebuilder/infrastruture/token"
	"github.com/beka-birhanu/vinom-mazebuilder/service"
	"github.com/beka-birhanu/vinom-mazebuilder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// A step lock lapses stepLockExpiry after its holder dies. Builds longer than
// that keep their lock by extending it every stepLockRefresh.
const (
	stepLockExpiry  = 10 * time.Second
	stepLockRefresh = stepLockExpiry / 4
)

// Global variables for dependencies
var (
	mongoClient           *mongo.Client
	redisClient           *redis.Client
	userRepo              i.UserRepo
	sessionStore          i.SessionStore
	sessionLocker         i.Locker
	builderSessionManager i.BuilderSessionManager
	mazeController        api_i.Controller
	jwtTokenizer          i.Tokenizer
	authService           i.Authenticator
	authController        api_i.Controller
	router                *api.Router
	appLogger             *log.Logger
)

func newLogger(name, color string) *log.Logger {
	return log.New(os.Stdout, fmt.Sprintf("%s[%s]%s ", color, name, config.ColorReset), log.LstdFlags)
}

func fatal(format string, args ...any) {
	appLogger.Printf("%s[ERROR]%s %s", config.LogErrorColor, config.LogColorReset, fmt.Sprintf(format, args...))
	os.Exit(1)
}

func info(format string, args ...any) {
	appLogger.Printf("%s[INFO]%s %s", config.LogInfoColor, config.LogColorReset, fmt.Sprintf(format, args...))
}

func initMongo(ctx context.Context) {
	uri := fmt.Sprintf("mongodb://%s:%s@%s:%v", config.Envs.DBUser, config.Envs.DBPassword, config.Envs.DBHost, config.Envs.DBPort)

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	mongoClient, err = mongo.Connect(ctx, clientOptions)
	if err != nil {
		fatal("Failed to connect to MongoDB: %v", err)
	}
	if err = mongoClient.Ping(ctx, nil); err != nil {
		fatal("MongoDB ping failed: %v", err)
	}
	info("Connected to MongoDB")
}

func initUserRepo(ctx context.Context, client *mongo.Client) {
	var err error
	userRepo, err = repo.NewUserRepo(ctx, client, config.Envs.DBName, "users")
	if err != nil {
		fatal("Creating user repository: %v", err)
	}
	info("User repository initialized")
}

// initSessionBackend keeps sessions in Redis behind a redsync lock when an
// address is configured, and in process memory otherwise.
func initSessionBackend(ctx context.Context) {
	if config.Envs.RedisAddr == "" {
		sessionStore = sessionstore.NewMemorySessionStore()
		sessionLocker = lock.NewLocalLocker()
		info("Using in-memory session store")
		return
	}

	redisClient = redis.NewClient(&redis.Options{
		Addr:     config.Envs.RedisAddr,
		Password: config.Envs.RedisPassword,
		DB:       config.Envs.RedisDB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		fatal("Redis ping failed: %v", err)
	}

	var err error
	sessionStore, err = sessionstore.NewRedisSessionStore(redisClient, config.Envs.KeyPrefix, config.Envs.SessionTTL)
	if err != nil {
		fatal("Creating redis session store: %v", err)
	}
	sessionLocker = lock.NewRedsyncLocker(redisClient, config.Envs.KeyPrefix, stepLockExpiry, newLogger("LOCK", config.ColorMagenta))
	info("Using redis session store at %s", config.Envs.RedisAddr)
}

func initBuilderSessionManager() {
	var err error
	builderSessionManager, err = service.NewBuilderSessionManager(&service.Config{
		Store:        sessionStore,
		Locker:       sessionLocker,
		MaxDimension: config.Envs.MaxMazeDimension,
		LockRefresh:  stepLockRefresh,
		Logger:       newLogger("SESSION-MANAGER", config.ColorCyan),
	})
	if err != nil {
		fatal("Creating builder session manager: %v", err)
	}
	info("Builder session manager initialized")
}

func initMazeController() {
	var err error
	mazeController, err = mazeapi.NewMazeController(builderSessionManager, config.Envs.PlayInterval)
	if err != nil {
		fatal("Creating maze controller: %v", err)
	}
	info("Maze controller initialized")
}

func initJWTTokenizer() {
	jwtTokenizer = token.NewJwtService(config.Envs.JWTSecret, config.Envs.JWTIssuer)
	info("JWT Tokenizer initialized")
}

func initAuthService() {
	var err error
	authService, err = service.NewAuthService(userRepo, jwtTokenizer)
	if err != nil {
		fatal("Creating auth service: %v", err)
	}
	info("Auth service initialized")
}

func initAuthController() {
	authController = identity.NewIdentityServer(authService)
	info("Auth controller initialized")
}

func initRouter(t i.Tokenizer) {
	gin.SetMode(config.Envs.GinMode)
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", config.Envs.HostIP, config.Envs.RESTPort),
		BaseURL:                 "/api",
		Controllers:             []api_i.Controller{authController, mazeController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	info("Router initialized")
}

func main() {
	appLogger = newLogger("APP", config.ColorGreen)
	if _, err := config.Load(); err != nil {
		fatal("Loading configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	initMongo(ctx)
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	initUserRepo(ctx, mongoClient)
	initSessionBackend(ctx)
	if redisClient != nil {
		defer redisClient.Close()
	}

	initBuilderSessionManager()
	initMazeController()
	initJWTTokenizer()
	initAuthService()
	initAuthController()
	initRouter(jwtTokenizer)

	if err := router.Run(); err != nil {
		fatal("Starting server: %v", err)
	}
}

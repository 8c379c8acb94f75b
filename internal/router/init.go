package router

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/oauth2"

	"github.com/oksasatya/chirper/config"
	"github.com/oksasatya/chirper/internal/application"
	"github.com/oksasatya/chirper/internal/infrastructure/mongodb"
	handlers "github.com/oksasatya/chirper/internal/interface/http"
	"github.com/oksasatya/chirper/internal/router/modules"
	"github.com/oksasatya/chirper/pkg/helpers"
)

// Deps carries the infrastructure handles constructed in main. Everything is
// injected explicitly; there is no ambient connection state to reach for.
type Deps struct {
	Cfg      *config.Config
	Logger   *logrus.Logger
	Mongo    *mongo.Client
	DB       *mongo.Database
	Redis    *redis.Client
	GCS      *storage.Client
	ES       *elasticsearch.Client
	Sessions *helpers.SessionManager
	Pub      *helpers.RabbitPublisher
	OAuth    *oauth2.Config
}

// InitModules builds the feature modules from Deps and registers them with
// the router registry. Called once during application startup.
func InitModules(r *Registry, d Deps) {
	users := mongodb.NewUserRepository(d.DB)
	posts := mongodb.NewPostRepository(d.DB)

	authSvc := application.NewAuthService(users, d.Logger)
	userSvc := application.NewUserService(users, d.GCS, d.Cfg.GCSBucket, d.Logger, d.ES, d.Cfg.ESUsersIndex)
	postSvc := application.NewPostService(posts, users)

	authHandler := handlers.NewAuthHandler(authSvc, d.Sessions, d.Redis, d.Logger, d.Cfg, d.Pub, d.OAuth)
	userHandler := handlers.NewUserHandler(userSvc, d.Logger)
	postHandler := handlers.NewPostHandler(postSvc, d.Logger)
	healthHandler := handlers.NewHealthHandler(d.Mongo, d.Redis)

	r.Add(modules.NewAuthModule(authHandler, d.Sessions))
	r.Add(modules.NewUserModule(userHandler, d.Sessions))
	r.Add(modules.NewPostModule(postHandler, d.Sessions))
	r.Add(modules.NewHealthModule(healthHandler))
}

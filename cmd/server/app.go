package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"social-feed/internal/config"
	"social-feed/internal/repository"
	"social-feed/internal/repository/mongodb"
	"social-feed/internal/repository/sqlite"
	"social-feed/internal/service"
	"social-feed/internal/storage"
)

// app holds the services shared by the serve and seed commands.
type app struct {
	cfg     config.Config
	tokens  *service.TokenIssuer
	auth    service.AuthService
	posts   service.PostService
	users   service.UserService
	storage storage.Service
	closers []func()
}

func newApp(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{cfg: cfg}

	userRepo, postRepo, err := a.openStores(ctx, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := userRepo.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	if err := postRepo.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("init post repository: %w", err)
	}

	storageSvc, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	a.tokens = service.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	a.auth = service.NewAuthService(userRepo, a.tokens, cfg.Auth.BcryptCost)
	a.posts = service.NewPostService(userRepo, postRepo)
	a.users = service.NewUserService(userRepo)
	a.storage = storageSvc
	return a, nil
}

func (a *app) openStores(ctx context.Context, logger *logrus.Logger) (repository.UserRepository, repository.PostRepository, error) {
	switch a.cfg.Database.Driver {
	case config.DatabaseMongoDB:
		client, db, err := mongodb.Open(ctx, a.cfg.Database.MongoURI, a.cfg.Database.MongoDB)
		if err != nil {
			return nil, nil, fmt.Errorf("open mongodb: %w", err)
		}
		a.closers = append(a.closers, func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Warnf("mongodb disconnect: %v", err)
			}
		})
		logger.Infof("using mongodb database %s", a.cfg.Database.MongoDB)
		return mongodb.NewUserRepository(db), mongodb.NewPostRepository(db), nil
	default:
		db, err := sqlite.Open(a.cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		logger.Infof("using sqlite database %s", a.cfg.Database.Path)
		return sqlite.NewUserRepository(db), sqlite.NewPostRepository(db), nil
	}
}

// Close releases store connections in reverse order of opening.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildStorage(ctx context.Context, cfg config.Config, logger *logrus.Logger) (storage.Service, error) {
	if cfg.Storage.Driver != config.StorageS3 {
		local, err := storage.NewLocalService(cfg.Storage.LocalDir, cfg.Storage.KeyPrefix)
		if err != nil {
			return nil, err
		}
		logger.Infof("storing pictures under %s", cfg.Storage.LocalDir)
		return local, nil
	}

	loadOpts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Storage.Region),
	}
	if cfg.AWS.Profile != "" {
		loadOpts = append(loadOpts, awscfg.WithSharedConfigProfile(cfg.AWS.Profile))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})
	svc, err := storage.NewS3Service(client, cfg.Storage.Bucket, cfg.Storage.KeyPrefix)
	if err != nil {
		return nil, err
	}
	logger.Infof("using s3 bucket %s (region %s)", cfg.Storage.Bucket, cfg.Storage.Region)
	return svc, nil
}

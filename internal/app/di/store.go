// Package di はアプリケーションのコンポーネントを組み立てるファクトリを提供します。
package di

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	analyticsadapters "leadhub/internal/feature/analytics/adapters"
	analyticsusecase "leadhub/internal/feature/analytics/usecase"
	authadapters "leadhub/internal/feature/auth/adapters"
	authusecase "leadhub/internal/feature/auth/usecase"
	leadadapters "leadhub/internal/feature/leads/adapters"
	leadusecase "leadhub/internal/feature/leads/usecase"
	"leadhub/internal/platform/config"
	platformdb "leadhub/internal/platform/db"
	platformmongo "leadhub/internal/platform/mongo"
)

// Stores はストアドライバに応じて選択されたリポジトリ群です。
type Stores struct {
	Users authusecase.UserRepository
	Leads leadusecase.LeadRepository
	Stats analyticsusecase.LeadStatsRepository

	close func(ctx context.Context) error
}

// Close は下層のDBクライアントを閉じます。
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewStores は cfg.Store.Driver に応じてMongoDBまたはgorm（PostgreSQL / SQLite）のリポジトリを生成します。
func NewStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := platformmongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		if err := platformmongo.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		s := NewMongoStores(db)
		s.close = client.Disconnect
		return s, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := platformdb.Open(cfg.Store.Driver, cfg.DB)
		if err != nil {
			return nil, err
		}
		s := NewGormStores(db)
		s.close = func(context.Context) error { return platformdb.Close(db) }
		return s, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// NewGormStores はgorm実装のリポジトリ群を生成します。
func NewGormStores(db *gorm.DB) *Stores {
	return &Stores{
		Users: authadapters.NewUserGorm(db),
		Leads: leadadapters.NewLeadGorm(db),
		Stats: analyticsadapters.NewStatsGorm(db),
	}
}

// NewMongoStores はMongoDB実装のリポジトリ群を生成します。
func NewMongoStores(db *mongo.Database) *Stores {
	return &Stores{
		Users: authadapters.NewUserMongo(db),
		Leads: leadadapters.NewLeadMongo(db),
		Stats: analyticsadapters.NewStatsMongo(db),
	}
}

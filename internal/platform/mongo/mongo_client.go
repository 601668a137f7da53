// Package mongo はMongoDBクライアントの生成とインデックス作成を提供します。
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"leadhub/internal/platform/config"
)

// Connect はクライアントを生成し、Pingで疎通を確認してデータベースを返します。
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	slog.Info("MongoDB connection successful", "database", cfg.Database)
	return client, client.Database(cfg.Database), nil
}

// indexSpec はコレクションごとのインデックス定義です。
var indexSpec = map[string][]mongo.IndexModel{
	"users": {
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
	},
	"leads": {
		{
			Keys:    bson.D{{Key: "createdBy", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("owner_created"),
		},
		{
			Keys:    bson.D{{Key: "leadStatus", Value: 1}, {Key: "leadSource", Value: 1}},
			Options: options.Index().SetName("status_source"),
		},
	},
}

// EnsureIndexes はusersとleadsのインデックスを作成します。既存の同名インデックスはそのままです。
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for _, coll := range []string{"users", "leads"} {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, indexSpec[coll]); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}

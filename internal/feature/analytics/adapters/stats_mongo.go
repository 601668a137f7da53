package adapters

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"leadhub/internal/feature/analytics/domain/entity"
	"leadhub/internal/feature/analytics/usecase"
	leads "leadhub/internal/feature/leads/domain/entity"
)

const leadsCollection = "leads"

type statsMongo struct {
	collection *mongo.Collection
}

var _ usecase.LeadStatsRepository = (*statsMongo)(nil)

// NewStatsMongo はleadsコレクションを集計するリポジトリを生成します。
func NewStatsMongo(db *mongo.Database) *statsMongo {
	return &statsMongo{collection: db.Collection(leadsCollection)}
}

// groupRow は$groupステージの出力です。
type groupRow struct {
	ID    string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *statsMongo) CountAll(ctx context.Context, owner string) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{{Key: "createdBy", Value: owner}})
}

func (r *statsMongo) CountByStatus(ctx context.Context, owner string, status leads.LeadStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.D{
		{Key: "createdBy", Value: owner},
		{Key: "leadStatus", Value: string(status)},
	})
}

func (r *statsMongo) GroupByStatus(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return r.aggregate(ctx, groupPipeline(owner, "$leadStatus"))
}

func (r *statsMongo) GroupBySource(ctx context.Context, owner string) ([]entity.KeyCount, error) {
	return r.aggregate(ctx, groupPipeline(owner, "$leadSource"))
}

func (r *statsMongo) DailyCounts(ctx context.Context, owner string, since time.Time) ([]entity.KeyCount, error) {
	return r.aggregate(ctx, trendPipeline(owner, since))
}

func (r *statsMongo) aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]entity.KeyCount, error) {
	cur, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []groupRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	out := make([]entity.KeyCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.KeyCount{Key: row.ID, Count: row.Count})
	}
	return out, nil
}

// groupPipeline は owner のリードを field ごとに数え、キー昇順に並べます。
func groupPipeline(owner, field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "createdBy", Value: owner}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

// trendPipeline は since 以降のリードをUTC日付（YYYY-MM-DD）ごとに数えます。
func trendPipeline(owner string, since time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "createdBy", Value: owner},
			{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since.UTC()}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$dateToString", Value: bson.D{
				{Key: "format", Value: "%Y-%m-%d"},
				{Key: "date", Value: "$createdAt"},
				{Key: "timezone", Value: "UTC"},
			}}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
}

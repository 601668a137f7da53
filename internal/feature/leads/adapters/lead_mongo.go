package adapters

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"leadhub/internal/feature/leads/domain/entity"
	"leadhub/internal/feature/leads/usecase"
)

// LeadsCollection はリードドキュメントを格納するコレクション名です。
const LeadsCollection = "leads"

type leadMongo struct {
	collection *mongo.Collection
}

var _ usecase.LeadRepository = (*leadMongo)(nil)

// NewLeadMongo は指定されたデータベースのleadsコレクションを使うリポジトリを生成します。
func NewLeadMongo(db *mongo.Database) *leadMongo {
	return &leadMongo{collection: db.Collection(LeadsCollection)}
}

// leadDocument はleadsコレクションのドキュメントです。フィールド名はAPIのJSONと揃えています。
type leadDocument struct {
	ID         string    `bson:"_id"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Phone      string    `bson:"phone"`
	Company    string    `bson:"company"`
	LeadStatus string    `bson:"leadStatus"`
	LeadSource string    `bson:"leadSource"`
	CreatedBy  string    `bson:"createdBy"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func toDocument(e *entity.Lead) leadDocument {
	return leadDocument{
		ID:         e.ID,
		Name:       e.Name,
		Email:      e.Email,
		Phone:      e.Phone,
		Company:    e.Company,
		LeadStatus: string(e.LeadStatus),
		LeadSource: string(e.LeadSource),
		CreatedBy:  e.CreatedBy,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func (d leadDocument) toEntity() entity.Lead {
	return entity.Lead{
		ID:         d.ID,
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Company:    d.Company,
		LeadStatus: entity.LeadStatus(d.LeadStatus),
		LeadSource: entity.LeadSource(d.LeadSource),
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

func ownedBy(owner, id string) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "createdBy", Value: owner}}
}

func (r *leadMongo) Create(ctx context.Context, lead *entity.Lead) error {
	_, err := r.collection.InsertOne(ctx, toDocument(lead))
	return err
}

func (r *leadMongo) FindByID(ctx context.Context, owner, id string) (*entity.Lead, error) {
	var d leadDocument
	if err := r.collection.FindOne(ctx, ownedBy(owner, id)).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrLeadNotFound
		}
		return nil, err
	}
	e := d.toEntity()
	return &e, nil
}

func (r *leadMongo) Update(ctx context.Context, lead *entity.Lead) error {
	d := toDocument(lead)
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: d.Name},
		{Key: "email", Value: d.Email},
		{Key: "phone", Value: d.Phone},
		{Key: "company", Value: d.Company},
		{Key: "leadStatus", Value: d.LeadStatus},
		{Key: "leadSource", Value: d.LeadSource},
		{Key: "updatedAt", Value: d.UpdatedAt},
	}}}
	res, err := r.collection.UpdateOne(ctx, ownedBy(lead.CreatedBy, lead.ID), update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

func (r *leadMongo) Delete(ctx context.Context, owner, id string) error {
	res, err := r.collection.DeleteOne(ctx, ownedBy(owner, id))
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrLeadNotFound
	}
	return nil
}

func (r *leadMongo) List(ctx context.Context, owner string, q usecase.ListQuery) ([]entity.Lead, int64, error) {
	filter := listFilter(owner, q)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entity.Lead{}, 0, nil
	}

	opts := options.Find().
		SetSort(sortSpec(q)).
		SetSkip(int64(q.Skip())).
		SetLimit(int64(q.Limit))
	cur, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}
	out := make([]entity.Lead, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toEntity())
	}
	return out, total, nil
}

// listFilter は所有者条件を必ず含むフィルタを組み立てます。
// 検索語は正規表現のメタ文字をエスケープし、大文字小文字を区別せず部分一致させます。
func listFilter(owner string, q usecase.ListQuery) bson.D {
	filter := bson.D{{Key: "createdBy", Value: owner}}
	if q.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: re}},
			bson.D{{Key: "email", Value: re}},
			bson.D{{Key: "company", Value: re}},
		}})
	}
	if q.Status != "" {
		filter = append(filter, bson.E{Key: "leadStatus", Value: string(q.Status)})
	}
	if q.Source != "" {
		filter = append(filter, bson.E{Key: "leadSource", Value: string(q.Source)})
	}
	return filter
}

// sortSpec はソートキーに_id昇順を加え、同値のときもページが安定するようにします。
func sortSpec(q usecase.ListQuery) bson.D {
	field := q.SortBy
	if _, ok := sortColumns[field]; !ok {
		field = usecase.SortByCreatedAt
	}
	dir := -1
	if q.Ascending {
		dir = 1
	}
	return bson.D{{Key: string(field), Value: dir}, {Key: "_id", Value: 1}}
}

package adapters

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"leadhub/internal/feature/auth/domain/entity"
	"leadhub/internal/feature/auth/usecase"
)

// UsersCollection はユーザードキュメントを格納するコレクション名です。
const UsersCollection = "users"

// userMongo はUserRepositoryインターフェースのMongoDB実装です。
// _idにはUUID文字列を格納します。
type userMongo struct {
	collection *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo は指定されたデータベースのusersコレクションを使うuserMongoを生成します。
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{collection: db.Collection(UsersCollection)}
}

// Create はユーザードキュメントを挿入します。
// email の一意インデックスに違反した場合、usecase.ErrEmailAlreadyExistsを返します。
func (r *userMongo) Create(ctx context.Context, u *entity.User) error {
	if u == nil {
		return errors.New("user is nil")
	}
	if _, err := r.collection.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return usecase.ErrEmailAlreadyExists
		}
		return err
	}
	return nil
}

// FindByEmail はメールアドレスでユーザーを取得します。
func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByID はIDでユーザーを取得します。
func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userMongo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var u entity.User
	if err := r.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

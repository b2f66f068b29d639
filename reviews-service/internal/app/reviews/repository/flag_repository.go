package repository

import (
	"context"
	"errors"
	"fmt"

	"web3dir/pkg/metrics"
	"web3dir/reviews-service/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const flagsCollection = "flagged_reviews"

type flagRepository struct {
	collection *mongo.Collection
}

// NewFlagRepository создает репозиторий жалоб.
// Один пользователь может пожаловаться на отзыв только один раз (уникальный индекс)
func NewFlagRepository(db *mongo.Database) FlagRepository {
	collection := db.Collection(flagsCollection)
	ensureIndexes(collection,
		mongo.IndexModel{
			Keys:    bson.D{{Key: "review_id", Value: 1}, {Key: "flagged_by", Value: 1}},
			Options: options.Index().SetName("review_flagger_uniq").SetUnique(true),
		},
	)

	return newFlagRepository(collection)
}

func newFlagRepository(collection *mongo.Collection) *flagRepository {
	return &flagRepository{collection: collection}
}

func (r *flagRepository) Create(ctx context.Context, flag *entity.FlaggedReview) error {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpInsert, flagsCollection).ObserveDuration()

	result, err := r.collection.InsertOne(ctx, flag)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrAlreadyFlagged
		}
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return fmt.Errorf("failed to create flag: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		flag.ID = oid
	}
	return nil
}

// List отдает жалобы в порядке поступления: flagged_at, при равенстве _id
func (r *flagRepository) List(ctx context.Context) ([]entity.FlaggedReview, error) {
	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, flagsCollection).ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "flagged_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to find flags: %w", err)
	}
	defer cursor.Close(ctx)

	flags := make([]entity.FlaggedReview, 0)
	if err := cursor.All(ctx, &flags); err != nil {
		return nil, fmt.Errorf("failed to decode flags: %w", err)
	}

	return flags, nil
}

func (r *flagRepository) GetByID(ctx context.Context, id string) (*entity.FlaggedReview, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrFlagNotFound
	}

	defer metrics.NewDbTimer(serviceName, metrics.DbOpSelect, flagsCollection).ObserveDuration()

	var flag entity.FlaggedReview
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&flag); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFlagNotFound
		}
		metrics.RecordDbError(serviceName, metrics.DbOpSelect)
		return nil, fmt.Errorf("failed to get flag: %w", err)
	}

	return &flag, nil
}

// UpdateContent синхронизирует снимок отзыва после правки модератором
func (r *flagRepository) UpdateContent(ctx context.Context, id string, rating int, text string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrFlagNotFound
	}

	defer metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, flagsCollection).ObserveDuration()

	update := bson.M{"$set": bson.M{"rating": rating, "text": text}}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpUpdate)
		return fmt.Errorf("failed to update flag: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrFlagNotFound
	}
	return nil
}

package mongo

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/resilience"
)

type artifactDocument struct {
	Purpose  string    `bson:"_id"`
	Payload  []byte    `bson:"payload"`
	Checksum string    `bson:"checksum"`
	Size     int64     `bson:"size_bytes"`
	SavedAt  time.Time `bson:"saved_at"`
}

// ModelRepository keeps one document per purpose, keyed by _id.
type ModelRepository struct {
	collection *mongo.Collection
	exec       *resilience.Executor
}

func NewModelRepository(collection *mongo.Collection, exec *resilience.Executor) *ModelRepository {
	return &ModelRepository{collection: collection, exec: exec}
}

func (r *ModelRepository) Exists(ctx context.Context, purpose domain.ModelPurpose) (bool, error) {
	return resilience.Call(ctx, r.exec, "mongo.exists", func(ctx context.Context) (bool, error) {
		n, err := r.collection.CountDocuments(ctx, bson.M{"_id": string(purpose)}, options.Count().SetLimit(1))
		if err != nil {
			return false, classify("check artifact", err)
		}
		return n > 0, nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Load(ctx context.Context, purpose domain.ModelPurpose) ([]byte, error) {
	return resilience.Call(ctx, r.exec, "mongo.load", func(ctx context.Context) ([]byte, error) {
		var doc artifactDocument
		err := r.collection.FindOne(ctx, bson.M{"_id": string(purpose)}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.WrapError(domain.ErrArtifactNotFound, "load artifact", fmt.Errorf("purpose %s", purpose))
		}
		if err != nil {
			return nil, classify("load artifact", err)
		}
		if checksum(doc.Payload) != doc.Checksum {
			return nil, domain.WrapError(domain.ErrArtifactCorrupt, "load artifact", fmt.Errorf("%s checksum mismatch", purpose))
		}
		return doc.Payload, nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Save(ctx context.Context, purpose domain.ModelPurpose, artifact []byte) error {
	doc := artifactDocument{
		Purpose:  string(purpose),
		Payload:  artifact,
		Checksum: checksum(artifact),
		Size:     int64(len(artifact)),
		SavedAt:  time.Now().UTC(),
	}
	return r.exec.Execute(ctx, "mongo.save", func(ctx context.Context) error {
		_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.Purpose}, doc, options.Replace().SetUpsert(true))
		if err != nil {
			return classify("save artifact", err)
		}
		return nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Delete(ctx context.Context, purpose domain.ModelPurpose) error {
	return r.exec.Execute(ctx, "mongo.delete", func(ctx context.Context) error {
		res, err := r.collection.DeleteOne(ctx, bson.M{"_id": string(purpose)})
		if err != nil {
			return classify("delete artifact", err)
		}
		if res.DeletedCount == 0 {
			return domain.WrapError(domain.ErrArtifactNotFound, "delete artifact", fmt.Errorf("purpose %s", purpose))
		}
		return nil
	}, resilience.TemporaryClassifier)
}

func classify(op string, err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return domain.WrapError(domain.ErrTemporary, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

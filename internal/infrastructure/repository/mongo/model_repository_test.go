package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/resilience"
)

func newTestRepository(mt *mtest.T) *ModelRepository {
	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    1,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		BreakerEnabled:      false,
	}, nil)
	return NewModelRepository(mt.Coll, exec)
}

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestModelRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("load returns payload", func(mt *mtest.T) {
		payload := []byte("artifact")
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "custody"},
			{Key: "payload", Value: payload},
			{Key: "checksum", Value: checksum(payload)},
			{Key: "size_bytes", Value: int64(len(payload))},
		}))

		got, err := newTestRepository(mt).Load(context.Background(), domain.PurposeCustody)
		if err != nil {
			mt.Fatalf("Load() error = %v", err)
		}
		if string(got) != "artifact" {
			mt.Fatalf("unexpected payload %q", got)
		}
	})

	mt.Run("load missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := newTestRepository(mt).Load(context.Background(), domain.PurposeCustody)
		if !domain.IsKind(err, domain.ErrArtifactNotFound) {
			mt.Fatalf("expected ErrArtifactNotFound, got %v", err)
		}
	})

	mt.Run("load checksum mismatch", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "compensation"},
			{Key: "payload", Value: []byte("tampered")},
			{Key: "checksum", Value: "deadbeef"},
		}))

		_, err := newTestRepository(mt).Load(context.Background(), domain.PurposeCompensation)
		if !domain.IsKind(err, domain.ErrArtifactCorrupt) {
			mt.Fatalf("expected ErrArtifactCorrupt, got %v", err)
		}
	})

	mt.Run("exists counts document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{
			{Key: "n", Value: int32(1)},
		}))

		ok, err := newTestRepository(mt).Exists(context.Background(), domain.PurposeCustody)
		if err != nil || !ok {
			mt.Fatalf("Exists() = %v, %v", ok, err)
		}
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(1)},
			bson.E{Key: "nModified", Value: int32(0)},
		))

		if err := newTestRepository(mt).Save(context.Background(), domain.PurposeCustody, []byte("artifact")); err != nil {
			mt.Fatalf("Save() error = %v", err)
		}
	})

	mt.Run("delete missing document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}))

		err := newTestRepository(mt).Delete(context.Background(), domain.PurposeCustody)
		if !domain.IsKind(err, domain.ErrArtifactNotFound) {
			mt.Fatalf("expected ErrArtifactNotFound, got %v", err)
		}
	})

	mt.Run("delete removes document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		if err := newTestRepository(mt).Delete(context.Background(), domain.PurposeCustody); err != nil {
			mt.Fatalf("Delete() error = %v", err)
		}
	})
}

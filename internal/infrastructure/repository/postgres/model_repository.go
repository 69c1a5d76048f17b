package postgres

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/infrastructure/resilience"
)

const schemaLockID int64 = 2026101901

// ModelRepository stores serialized pipelines in model_artifacts, one row
// per purpose.
type ModelRepository struct {
	db   *sql.DB
	exec *resilience.Executor
}

func NewModelRepository(db *sql.DB, exec *resilience.Executor) *ModelRepository {
	return &ModelRepository{db: db, exec: exec}
}

func (r *ModelRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, schemaLockID); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS model_artifacts (
	purpose TEXT PRIMARY KEY,
	payload BYTEA NOT NULL,
	checksum TEXT NOT NULL,
	size_bytes BIGINT NOT NULL,
	saved_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *ModelRepository) Exists(ctx context.Context, purpose domain.ModelPurpose) (bool, error) {
	return resilience.Call(ctx, r.exec, "postgres.exists", func(ctx context.Context) (bool, error) {
		var exists bool
		err := r.db.QueryRowContext(ctx, `
SELECT EXISTS (SELECT 1 FROM model_artifacts WHERE purpose = $1)
`, string(purpose)).Scan(&exists)
		if err != nil {
			return false, classify("check artifact", err)
		}
		return exists, nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Load(ctx context.Context, purpose domain.ModelPurpose) ([]byte, error) {
	return resilience.Call(ctx, r.exec, "postgres.load", func(ctx context.Context) ([]byte, error) {
		var payload []byte
		var sum string
		err := r.db.QueryRowContext(ctx, `
SELECT payload, checksum
FROM model_artifacts
WHERE purpose = $1
`, string(purpose)).Scan(&payload, &sum)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrArtifactNotFound, "load artifact", fmt.Errorf("purpose %s", purpose))
		}
		if err != nil {
			return nil, classify("load artifact", err)
		}
		if checksum(payload) != sum {
			return nil, domain.WrapError(domain.ErrArtifactCorrupt, "load artifact", fmt.Errorf("%s checksum mismatch", purpose))
		}
		return payload, nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Save(ctx context.Context, purpose domain.ModelPurpose, artifact []byte) error {
	return r.exec.Execute(ctx, "postgres.save", func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO model_artifacts (purpose, payload, checksum, size_bytes, saved_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (purpose) DO UPDATE
SET payload = EXCLUDED.payload,
	checksum = EXCLUDED.checksum,
	size_bytes = EXCLUDED.size_bytes,
	saved_at = EXCLUDED.saved_at
`, string(purpose), artifact, checksum(artifact), int64(len(artifact)), time.Now().UTC())
		if err != nil {
			return classify("save artifact", err)
		}
		return nil
	}, resilience.TemporaryClassifier)
}

func (r *ModelRepository) Delete(ctx context.Context, purpose domain.ModelPurpose) error {
	return r.exec.Execute(ctx, "postgres.delete", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `DELETE FROM model_artifacts WHERE purpose = $1`, string(purpose))
		if err != nil {
			return classify("delete artifact", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete artifact rows affected: %w", err)
		}
		if affected == 0 {
			return domain.WrapError(domain.ErrArtifactNotFound, "delete artifact", fmt.Errorf("purpose %s", purpose))
		}
		return nil
	}, resilience.TemporaryClassifier)
}

// classify marks connection-level and retry-safe failures as temporary.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	switch {
	case pgconn.SafeToRetry(err), pgconn.Timeout(err):
		return domain.WrapError(domain.ErrTemporary, op, err)
	case errors.As(err, &pgErr) && isTransientSQLState(pgErr.Code):
		return domain.WrapError(domain.ErrTemporary, op, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func isTransientSQLState(code string) bool {
	switch {
	case len(code) >= 2 && code[:2] == "08": // connection exception
		return true
	case code == "40001", code == "40P01", code == "57P01", code == "57P03":
		return true
	default:
		return false
	}
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

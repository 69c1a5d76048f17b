package localfs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

const indexFile = "index.yaml"

// index records what was written to each slot so a torn or tampered file is
// detected as corrupt instead of being decoded.
type index struct {
	Artifacts map[domain.ModelPurpose]indexEntry `yaml:"artifacts"`
}

type indexEntry struct {
	SHA256  string    `yaml:"sha256"`
	Size    int64     `yaml:"size"`
	SavedAt time.Time `yaml:"saved_at"`
}

// Storage keeps one <purpose>.model file per slot. Files are replaced with a
// temp file and rename so readers never observe a partial write.
type Storage struct {
	basePath string
	mu       sync.Mutex
}

func New(basePath string) (*Storage, error) {
	if basePath == "" {
		basePath = "./data/models"
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create model dir: %w", err)
	}
	return &Storage{basePath: basePath}, nil
}

func (s *Storage) path(purpose domain.ModelPurpose) string {
	return filepath.Join(s.basePath, string(purpose)+".model")
}

func (s *Storage) Exists(_ context.Context, purpose domain.ModelPurpose) (bool, error) {
	if !purpose.Valid() {
		return false, unknownPurpose(purpose)
	}
	_, err := os.Stat(s.path(purpose))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat artifact: %w", err)
	}
	return true, nil
}

func (s *Storage) Load(_ context.Context, purpose domain.ModelPurpose) ([]byte, error) {
	if !purpose.Valid() {
		return nil, unknownPurpose(purpose)
	}
	data, err := os.ReadFile(s.path(purpose))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.WrapError(domain.ErrArtifactNotFound, "load artifact", err)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}

	s.mu.Lock()
	idx, err := s.readIndex()
	s.mu.Unlock()
	if err != nil {
		return nil, domain.WrapError(domain.ErrArtifactCorrupt, "load artifact", err)
	}
	entry, ok := idx.Artifacts[purpose]
	if !ok {
		return nil, domain.WrapError(domain.ErrArtifactCorrupt, "load artifact", fmt.Errorf("%s is not indexed", purpose))
	}
	if entry.Size != int64(len(data)) || entry.SHA256 != checksum(data) {
		return nil, domain.WrapError(domain.ErrArtifactCorrupt, "load artifact", fmt.Errorf("%s checksum mismatch", purpose))
	}
	return data, nil
}

func (s *Storage) Save(_ context.Context, purpose domain.ModelPurpose, artifact []byte) error {
	if !purpose.Valid() {
		return unknownPurpose(purpose)
	}
	if err := s.writeAtomic(s.path(purpose), artifact); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex()
	if err != nil {
		// An unreadable index only invalidates the other slot.
		idx = index{}
	}
	if idx.Artifacts == nil {
		idx.Artifacts = make(map[domain.ModelPurpose]indexEntry, len(domain.ModelPurposes))
	}
	idx.Artifacts[purpose] = indexEntry{
		SHA256:  checksum(artifact),
		Size:    int64(len(artifact)),
		SavedAt: time.Now().UTC(),
	}
	return s.writeIndex(idx)
}

func (s *Storage) Delete(_ context.Context, purpose domain.ModelPurpose) error {
	if !purpose.Valid() {
		return unknownPurpose(purpose)
	}
	err := os.Remove(s.path(purpose))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.WrapError(domain.ErrArtifactNotFound, "delete artifact", err)
	}
	if err != nil {
		return fmt.Errorf("remove artifact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx, err := s.readIndex()
	if err != nil || idx.Artifacts == nil {
		return nil
	}
	delete(idx.Artifacts, purpose)
	return s.writeIndex(idx)
}

func (s *Storage) readIndex() (index, error) {
	var idx index
	raw, err := os.ReadFile(filepath.Join(s.basePath, indexFile))
	if errors.Is(err, fs.ErrNotExist) {
		return idx, nil
	}
	if err != nil {
		return idx, fmt.Errorf("read index: %w", err)
	}
	if err := yaml.Unmarshal(raw, &idx); err != nil {
		return index{}, fmt.Errorf("parse index: %w", err)
	}
	return idx, nil
}

func (s *Storage) writeIndex(idx index) error {
	raw, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := s.writeAtomic(filepath.Join(s.basePath, indexFile), raw); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

func (s *Storage) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.basePath, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func checksum(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func unknownPurpose(purpose domain.ModelPurpose) error {
	return domain.WrapError(domain.ErrInvalidInput, "model store", fmt.Errorf("unknown model purpose %q", purpose))
}

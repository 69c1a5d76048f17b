package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/immortalcoder04/justifAI-AI-Based-Lawyer/internal/core/domain"
)

// Raw column headers of the training workbook.
const (
	rawDivorceStatus      = "DivorceStatus"
	rawReasonForDivorce   = "ReasonForDivorce"
	rawChildAge           = "ChildAge"
	rawCustodyGrantedTo   = "CustodyGrantedTo"
	rawCompensationAmount = "CompensationAmount"
	rawFatherSalary       = "FatherSalary"
	rawMotherSalary       = "MotherSalary"
)

var requiredColumns = []string{
	rawDivorceStatus,
	rawReasonForDivorce,
	rawChildAge,
	rawCustodyGrantedTo,
	rawCompensationAmount,
	rawFatherSalary,
	rawMotherSalary,
}

type rowsParser func(data []byte) ([][]string, error)

// FileSource reads the training dataset from one .xlsx or .csv file. The
// fingerprint is the sha256 of the file bytes, recomputed only when the
// file's size or modification time changes.
type FileSource struct {
	path  string
	parse rowsParser

	mu     sync.Mutex
	cached fingerprintEntry
}

type fingerprintEntry struct {
	size    int64
	modTime time.Time
	sum     string
}

func (e fingerprintEntry) matches(info os.FileInfo) bool {
	return e.sum != "" && e.size == info.Size() && e.modTime.Equal(info.ModTime())
}

func NewFileSource(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("dataset path is required")
	}
	var parse rowsParser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		parse = parseWorkbook
	case ".csv":
		parse = parseCSV
	default:
		return nil, fmt.Errorf("unsupported dataset format %q", filepath.Ext(path))
	}
	return &FileSource{path: path, parse: parse}, nil
}

func (s *FileSource) Path() string {
	return s.path
}

func (s *FileSource) Fingerprint(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(s.path)
	if err != nil {
		return "", domain.WrapError(domain.ErrDatasetUnavailable, "stat dataset", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached.matches(info) {
		return s.cached.sum, nil
	}
	data, err := s.read(ctx)
	if err != nil {
		return "", err
	}
	s.cached = fingerprintEntry{size: info.Size(), modTime: info.ModTime(), sum: fingerprint(data)}
	return s.cached.sum, nil
}

func (s *FileSource) Load(ctx context.Context) (*domain.Dataset, error) {
	data, err := s.read(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.parse(data)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDatasetUnavailable, "parse dataset", err)
	}
	examples, err := decodeExamples(rows)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDatasetUnavailable, "decode dataset", err)
	}
	return &domain.Dataset{
		Source:      s.path,
		Fingerprint: fingerprint(data),
		Examples:    examples,
		LoadedAt:    time.Now().UTC(),
	}, nil
}

func (s *FileSource) read(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, domain.WrapError(domain.ErrDatasetUnavailable, "read dataset", err)
	}
	return data, nil
}

func fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

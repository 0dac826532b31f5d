package services

import (
	"context"
	"crypto/md5" //nolint:gosec // G501: MD5 is a change-detection fingerprint, not a security control
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/ytengage/internal/core/domain"
	"github.com/custodia-labs/ytengage/internal/core/ports/driven"
	"github.com/custodia-labs/ytengage/internal/core/ports/driving"
	"github.com/custodia-labs/ytengage/internal/logger"
)

// Ensure AcquisitionService implements the interface.
var _ driving.Acquirer = (*AcquisitionService)(nil)

// hashChunkSize bounds how much of the archive is held in memory while hashing.
const hashChunkSize = 8192

// AcquisitionService downloads the dataset archive and decides whether it
// needs extracting.
type AcquisitionService struct {
	cfg      domain.PipelineConfig
	provider driven.DatasetProvider
	hashes   driven.HashStore
	metrics  driven.MetricsRecorder
}

// NewAcquisitionService creates a new acquisition service.
// metrics is optional - if nil, measurements are discarded.
func NewAcquisitionService(
	cfg domain.PipelineConfig,
	provider driven.DatasetProvider,
	hashes driven.HashStore,
	metrics driven.MetricsRecorder,
) *AcquisitionService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	return &AcquisitionService{
		cfg:      cfg,
		provider: provider,
		hashes:   hashes,
		metrics:  metrics,
	}
}

// Acquire downloads the archive and compares its hash with the stored one.
// Returns nil when the content is unchanged; the downloaded copy is removed
// in that case.
func (s *AcquisitionService) Acquire(ctx context.Context) (*domain.Archive, error) {
	if s.provider == nil {
		return nil, fmt.Errorf("%w: dataset provider not configured", domain.ErrAcquisition)
	}

	// 1. Authenticate
	if err := s.provider.Authenticate(ctx); err != nil {
		return nil, fmt.Errorf("%w: authenticate: %w", domain.ErrAcquisition, err)
	}
	logger.Info("Authenticated with dataset provider")

	// 2. Ensure the raw directory exists
	rawDir := s.cfg.Paths.RawDir
	if err := os.MkdirAll(rawDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create raw directory: %w", domain.ErrAcquisition, err)
	}

	// 3. Download
	logger.Info("Downloading dataset %s", s.cfg.Dataset.Ref())
	written, err := s.provider.DownloadBundle(ctx, s.cfg.Dataset.Owner, s.cfg.Dataset.Name, rawDir)
	if err != nil {
		return nil, fmt.Errorf("%w: download dataset: %w", domain.ErrAcquisition, err)
	}

	// 4. Locate the archive
	path, err := locateArchive(written, rawDir)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(path); statErr == nil {
		s.metrics.RecordArchiveSize(info.Size())
	}

	// 5. Compare hashes
	current, err := ComputeFileHash(path)
	if err != nil {
		return nil, fmt.Errorf("%w: hash archive: %w", domain.ErrAcquisition, err)
	}

	previous, err := s.hashes.Get()
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: read stored hash: %w", domain.ErrAcquisition, err)
	}

	if ShouldSkip(previous, current) {
		logger.Info("Dataset unchanged (hash %s), skipping extraction", current)
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("%w: remove unchanged archive: %w", domain.ErrAcquisition, err)
		}
		return nil, nil
	}

	logger.Debug("Archive hash changed: %q -> %q", previous, current)
	return &domain.Archive{Path: path, Hash: current}, nil
}

// Sync acquires the archive and, when it changed, extracts the required
// members and records the new hash. The hash is only committed after a
// successful extraction so a failed run is retried in full next time.
func (s *AcquisitionService) Sync(ctx context.Context) (*domain.Archive, error) {
	start := time.Now()
	archive, err := s.sync(ctx)
	s.metrics.ObserveStage("acquire", time.Since(start), err)
	return archive, err
}

func (s *AcquisitionService) sync(ctx context.Context) (*domain.Archive, error) {
	archive, err := s.Acquire(ctx)
	if err != nil || archive == nil {
		return nil, err
	}

	logger.Info("Dataset changed, extracting needed files")
	if err := Extract(archive.Path, s.cfg.Dataset.RequiredMembers(), s.cfg.Paths.RawDir); err != nil {
		return nil, err
	}

	if err := s.hashes.Save(archive.Hash); err != nil {
		return nil, fmt.Errorf("%w: save hash: %w", domain.ErrAcquisition, err)
	}
	logger.Info("Local dataset hash updated")

	return archive, nil
}

// ShouldSkip reports whether extraction can be skipped.
// An empty previous hash means no record exists, which always counts as changed.
func ShouldSkip(previous, current string) bool {
	return previous != "" && previous == current
}

// ComputeFileHash returns the hex MD5 digest of the file at path,
// reading it in fixed-size chunks.
func ComputeFileHash(path string) (string, error) {
	defer logger.Timed("hash archive")()

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New() //nolint:gosec // G401: change detection only
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// locateArchive prefers the path reported by the provider and falls back to
// the first zip file in dir.
func locateArchive(reported, dir string) (string, error) {
	if reported != "" {
		if _, err := os.Stat(reported); err == nil {
			return reported, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, "*.zip"))
	if err != nil {
		return "", fmt.Errorf("%w: search for archive: %w", domain.ErrAcquisition, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no zip file downloaded", domain.ErrAcquisition)
	}
	return matches[0], nil
}

// Package watcher imports order exports dropped into a directory.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"salesmini/internal/config"
	"salesmini/internal/logging"
	"salesmini/internal/pipeline"
)

// Store is a session store that can also remember processed files.
type Store interface {
	pipeline.SessionStore
	GetMetadata(key string) (*string, error)
	SetMetadata(key, value string) error
}

type Service struct {
	store Store
	cfg   config.Config
	log   *zap.Logger
}

func NewService(store Store, cfg config.Config, log *zap.Logger) *Service {
	return &Service{store: store, cfg: cfg, log: logging.OrNop(log)}
}

type CycleResult struct {
	Seen     int
	Imported int
	Failed   int
}

func (s *Service) Run(ctx context.Context) error {
	interval := time.Duration(s.cfg.WatchIntervalSec) * time.Second
	if interval <= 0 {
		interval = 30 * time.Second
	}
	for {
		res, err := s.RunCycle()
		if err != nil {
			s.log.Error("watch cycle failed", zap.Error(err))
		} else if res.Imported > 0 || res.Failed > 0 {
			s.log.Info("watch cycle done", zap.Int("seen", res.Seen), zap.Int("imported", res.Imported), zap.Int("failed", res.Failed))
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(interval):
		}
	}
}

// RunCycle imports every unseen file in the watch directory once. A file
// that fails to import is recorded too and is not retried until its
// content changes.
func (s *Service) RunCycle() (CycleResult, error) {
	entries, err := os.ReadDir(s.cfg.WatchDir)
	if os.IsNotExist(err) {
		return CycleResult{}, nil
	}
	if err != nil {
		return CycleResult{}, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	importer := pipeline.NewImportService(s.store, s.log)
	var res CycleResult
	for _, entry := range entries {
		if entry.IsDir() || pipeline.InputTypeFromPath(entry.Name()) == "" {
			continue
		}
		res.Seen++
		path := filepath.Join(s.cfg.WatchDir, entry.Name())

		blob, err := os.ReadFile(path)
		if err != nil {
			return res, err
		}
		key := fileKey(blob)
		done, err := s.store.GetMetadata(key)
		if err != nil {
			return res, err
		}
		if done != nil {
			continue
		}

		status := "imported"
		if _, err := importer.ImportFile("", path, s.cfg.InputEncoding); err != nil {
			s.log.Warn("watch import failed", zap.String("file", entry.Name()), zap.Error(err))
			status = "failed: " + err.Error()
			res.Failed++
		} else {
			res.Imported++
		}
		if err := s.store.SetMetadata(key, status); err != nil {
			return res, err
		}
	}

	if res.Imported > 0 && s.cfg.WatchAutoExport {
		if err := s.exportSession(); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (s *Service) exportSession() error {
	orders, err := s.store.ListOrders()
	if err != nil {
		return err
	}
	items, err := s.store.ListItems("")
	if err != nil {
		return err
	}
	return pipeline.ExportXLSX(orders, items, filepath.Join(s.cfg.OutputDir, "watch", "session.xlsx"))
}

func fileKey(blob []byte) string {
	sum := sha256.Sum256(blob)
	return "watch.file." + hex.EncodeToString(sum[:])
}

package pool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// FileStore persists the pool as a JSON object mapping item name to quantity:
//
//	{"Coal": 12, "Iron Ore": 40}
//
// Saves write a temporary file in the same directory and rename it over the
// target, so readers never see a partial file.
type FileStore struct {
	path   string
	logger *log.Logger
}

// NewFileStore creates a store at path. Parent directories are created on
// the first save.
func NewFileStore(path string, logger *log.Logger) *FileStore {
	if logger == nil {
		logger = log.Default()
	}
	return &FileStore{path: path, logger: logger}
}

func (f *FileStore) Name() string { return "file" }

// Path returns the pool file location.
func (f *FileStore) Path() string { return f.path }

// Load reads the pool file. A missing file loads as an empty pool. A
// malformed file is moved aside to "<path>.corrupt", logged, and loads as
// an empty pool.
func (f *FileStore) Load(ctx context.Context) (Stock, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Stock{}, nil
	}
	if err != nil {
		return nil, err
	}

	s, err := decodeStock(data)
	if err != nil {
		backup := f.path + ".corrupt"
		if rerr := os.Rename(f.path, backup); rerr != nil {
			f.logger.Warn("could not move malformed pool file aside", "path", f.path, "err", rerr)
		}
		f.logger.Warn("pool file malformed, starting empty", "path", f.path, "backup", backup, "err", err)
		return Stock{}, nil
	}
	if clamped := s.Clamp(); len(clamped) > 0 {
		f.logger.Warn("pool file had negative quantities", "path", f.path, "items", clamped)
	}
	return s, nil
}

// Save writes stock atomically.
func (f *FileStore) Save(ctx context.Context, stock Stock) error {
	data, err := json.MarshalIndent(stock, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(f.path, append(data, '\n'))
}

func (f *FileStore) Close() error { return nil }

// decodeStock parses a JSON pool document.
func decodeStock(data []byte) (Stock, error) {
	var s Stock
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = Stock{}
	}
	return s, nil
}

// writeFileAtomic writes data to a temp file next to path, syncs it, and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")
	fh, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	if _, err := fh.Write(data); err != nil {
		fh.Close()
		os.Remove(tmp)
		return err
	}
	if err := fh.Sync(); err != nil {
		fh.Close()
		os.Remove(tmp)
		return err
	}
	if err := fh.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

var _ Store = (*FileStore)(nil)

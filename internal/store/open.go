package store

import (
	"io"

	"github.com/charmbracelet/log"
)

// KV is the interface both stores implement.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

var (
	_ KV = (*Memory)(nil)
	_ KV = (*File)(nil)
)

// Open returns the file store at path, or a memory store when path is
// empty. A file that cannot be opened is logged and replaced by a memory
// store, so a damaged data file never keeps anyone from playing.
func Open(path string, logger *log.Logger) KV {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if path == "" {
		logger.Info("no data file configured, scores are kept in memory")
		return NewMemory()
	}
	f, err := OpenFile(path)
	if err != nil {
		logger.Warn("cannot open data file, scores are kept in memory", "path", path, "err", err)
		return NewMemory()
	}
	logger.Info("data file opened", "path", path)
	return f
}

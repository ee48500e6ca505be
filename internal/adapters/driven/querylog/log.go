package querylog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/khalid0211/FileRAG/internal/core/domain"
	"github.com/khalid0211/FileRAG/internal/core/ports/driven"
	"github.com/khalid0211/FileRAG/internal/logger"
)

// Ensure Log implements the interface.
var _ driven.QueryLog = (*Log)(nil)

const (
	historyFile = "query_history.jsonl"
	ratingsFile = "ratings.jsonl"

	// maxLineSize bounds a single entry; answers can be long.
	maxLineSize = 16 * 1024 * 1024
)

// Log is the JSON-lines query history.
type Log struct {
	mu          sync.Mutex
	historyPath string
	ratingsPath string
}

// New creates a log in dir, creating dir if needed.
func New(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &Log{
		historyPath: filepath.Join(dir, historyFile),
		ratingsPath: filepath.Join(dir, ratingsFile),
	}, nil
}

// Path returns the history file path.
func (l *Log) Path() string {
	return l.historyPath
}

// Append durably adds an entry at the end of the history.
func (l *Log) Append(_ context.Context, entry domain.QueryLogEntry) error {
	return l.appendLine(l.historyPath, entry)
}

// ReadAll returns every entry in append order.
func (l *Log) ReadAll(_ context.Context) ([]domain.QueryLogEntry, error) {
	var entries []domain.QueryLogEntry
	err := l.readLines(l.historyPath, func(line []byte) error {
		var e domain.QueryLogEntry
		if err := json.Unmarshal(line, &e); err != nil {
			return err
		}
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// AppendRating durably records feedback on an answer.
func (l *Log) AppendRating(_ context.Context, rating domain.Rating) error {
	return l.appendLine(l.ratingsPath, rating)
}

// Ratings returns every rating in append order.
func (l *Log) Ratings(_ context.Context) ([]domain.Rating, error) {
	var ratings []domain.Rating
	err := l.readLines(l.ratingsPath, func(line []byte) error {
		var r domain.Rating
		if err := json.Unmarshal(line, &r); err != nil {
			return err
		}
		ratings = append(ratings, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

func (l *Log) appendLine(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	data = append(data, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	if torn, err := endsWithoutNewline(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("inspect %s: %w", filepath.Base(path), err)
	} else if torn {
		data = append([]byte{'\n'}, data...)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("append to %s: %w", filepath.Base(path), err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync %s: %w", filepath.Base(path), err)
	}
	return f.Close()
}

// endsWithoutNewline reports whether a previous write was cut short.
func endsWithoutNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// readLines calls fn for every non-empty line. Lines that fail to decode,
// such as one torn by a crash mid-write, are skipped with a warning.
func (l *Log) readLines(path string, fn func(line []byte) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(line); err != nil {
			logger.Warn("skipping malformed line %d of %s: %v", lineNo, filepath.Base(path), err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return nil
}

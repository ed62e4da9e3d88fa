package diagnostics

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"igflash/pkg/logger"
)

// FileSink appends scraper-error records to a JSON-lines file. Log lines go
// to the logger.
type FileSink struct {
	path   string
	mu     sync.Mutex
	now    func() time.Time
	logger logger.Logger
}

// NewFileSink creates a sink writing to path. An empty path selects
// scraper_errors.jsonl in the user data directory.
func NewFileSink(path string, log logger.Logger) (*FileSink, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if path == "" {
		dataDir, err := getDataDirectory()
		if err != nil {
			return nil, fmt.Errorf("failed to get data directory: %w", err)
		}
		path = filepath.Join(dataDir, "scraper_errors.jsonl")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create diagnostics directory: %w", err)
	}

	return &FileSink{
		path:   path,
		now:    time.Now,
		logger: log,
	}, nil
}

// Path returns the file records are appended to
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) RecordScraperError(_ context.Context, rec Record) {
	if rec.Time.IsZero() {
		rec.Time = s.now()
	}
	line, err := json.Marshal(rec)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode scraper error record")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := appendLine(s.path, line); err != nil {
		s.logger.WithError(err).ErrorWithFields("failed to persist scraper error record", map[string]interface{}{
			"path": s.path,
			"url":  rec.URL,
		})
	}
}

func (s *FileSink) LogScraperError(_ context.Context, line string) {
	s.logger.Warn(line)
}

// Records reads back every record in the file
func (s *FileSink) Records() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open diagnostics file: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 16<<20)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return records, fmt.Errorf("failed to decode record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("failed to read diagnostics file: %w", err)
	}
	return records, nil
}

func appendLine(path string, line []byte) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// getDataDirectory returns the appropriate data directory for the current OS
func getDataDirectory() (string, error) {
	var dataDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(home, "Library", "Application Support", "igflash")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			return "", fmt.Errorf("APPDATA environment variable not set")
		}
		dataDir = filepath.Join(appData, "igflash")
	default:
		if xdgDataHome := os.Getenv("XDG_DATA_HOME"); xdgDataHome != "" {
			dataDir = filepath.Join(xdgDataHome, "igflash")
		} else {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			dataDir = filepath.Join(home, ".local", "share", "igflash")
		}
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}

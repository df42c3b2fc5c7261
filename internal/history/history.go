// Package history archives solved and failed runs so they can be listed and replayed later.
package history

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// StatusSolved marks a run that produced a tops string
	StatusSolved = "solved"
	// StatusFailed marks a run that stopped on an error
	StatusFailed = "failed"

	timestampLayout = "2006-01-02_15-04-05.000"
	fileExt         = ".yaml"
	maxSourceRunes  = 30
	maxSaveAttempts = 100
)

// Record is the archived content of one run
type Record struct {
	Timestamp time.Time `yaml:"timestamp"`
	Source    string    `yaml:"source"`
	Status    string    `yaml:"status"`
	Tops      string    `yaml:"tops,omitempty"`
	Error     string    `yaml:"error,omitempty"`
	Moves     int       `yaml:"moves"`
	Input     string    `yaml:"input"`
}

// Entry represents a history file entry
type Entry struct {
	Path      string
	Filename  string
	Timestamp time.Time
	Source    string // input file name, or "stdin"
	Status    string // solved or failed
}

// Store keeps at most Max records in Dir
type Store struct {
	Dir string
	Max int
}

// NewStore returns a store rooted at dir
func NewStore(dir string, max int) *Store {
	return &Store{Dir: dir, Max: max}
}

// Save writes rec to a new history file and returns its path
func (s *Store) Save(rec Record) (string, error) {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode history record: %w", err)
	}

	// Runs saved within the same millisecond get -2, -3, ... on the source
	for seq := 1; seq <= maxSaveAttempts; seq++ {
		path := filepath.Join(s.Dir, filenameFor(rec, seq))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to write history file: %w", err)
		}
		_, err = f.Write(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return "", fmt.Errorf("failed to write history file: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("failed to write history file: %d runs share timestamp %s",
		maxSaveAttempts, rec.Timestamp.Format(timestampLayout))
}

// filenameFor names the history file of rec. seq > 1 is appended to the source.
// Format: YYYY-MM-DD_HH-MM-SS.mmm_<source>[-seq]_<status>.yaml
func filenameFor(rec Record, seq int) string {
	source := sanitizeSourceName(rec.Source)
	if seq > 1 {
		source += "-" + strconv.Itoa(seq)
	}
	return fmt.Sprintf("%s_%s_%s%s",
		rec.Timestamp.Format(timestampLayout),
		source,
		rec.Status,
		fileExt,
	)
}

// sanitizeSourceName makes a source name safe for filenames.
// Underscores separate filename fields, so they must not survive.
func sanitizeSourceName(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	replacer := strings.NewReplacer(
		"_", "-",
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		".", "-",
	)
	name = replacer.Replace(name)

	name = truncate(name, maxSourceRunes, "")
	if name == "" || name == "-" {
		name = "stdin"
	}
	return name
}

// Load reads the record stored at path
func (s *Store) Load(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode history file %s: %w", filepath.Base(path), err)
	}
	return &rec, nil
}

// List returns all history entries, newest first. A non-empty
// filterStatus keeps only entries with that status.
func (s *Store) List(filterStatus string) ([]Entry, error) {
	files, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history directory: %w", err)
	}

	entries := []Entry{}
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), fileExt) {
			continue
		}

		entry, err := parseFilename(f.Name())
		if err != nil {
			continue // not one of ours
		}
		if filterStatus != "" && entry.Status != filterStatus {
			continue
		}

		entry.Path = filepath.Join(s.Dir, f.Name())
		entry.Filename = f.Name()
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp.After(entries[j].Timestamp)
	})
	return entries, nil
}

// Resolve maps a 1-based index (1 = newest) or a file name to a history file path
func (s *Store) Resolve(target string) (string, error) {
	if index, err := strconv.Atoi(target); err == nil {
		if index < 1 {
			return "", fmt.Errorf("index must be 1 or greater")
		}
		entries, err := s.List("")
		if err != nil {
			return "", err
		}
		if index > len(entries) {
			return "", fmt.Errorf("index %d out of range (only %d entries)", index, len(entries))
		}
		return entries[index-1].Path, nil
	}

	path := filepath.Join(s.Dir, filepath.Base(target))
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("no history file named %s", filepath.Base(target))
	}
	return path, nil
}

// Cleanup deletes the oldest entries beyond Max and returns how many were removed
func (s *Store) Cleanup() (int, error) {
	if s.Max <= 0 {
		return 0, nil
	}
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries[min(s.Max, len(entries)):] {
		if err := os.Remove(e.Path); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", e.Filename, err)
		}
		deleted++
	}
	return deleted, nil
}

// Clear deletes every history entry
func (s *Store) Clear() (int, error) {
	entries, err := s.List("")
	if err != nil {
		return 0, err
	}
	deleted := 0
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", e.Filename, err)
		}
		deleted++
	}
	return deleted, nil
}

// parseFilename parses a history filename into an Entry
func parseFilename(filename string) (Entry, error) {
	base := strings.TrimSuffix(filename, fileExt)
	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return Entry{}, fmt.Errorf("invalid filename format")
	}

	timestamp, err := time.ParseInLocation(timestampLayout, parts[0]+"_"+parts[1], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("invalid timestamp: %w", err)
	}

	status := parts[3]
	if status != StatusSolved && status != StatusFailed {
		return Entry{}, fmt.Errorf("unknown status: %s", status)
	}

	return Entry{
		Timestamp: timestamp,
		Source:    parts[2],
		Status:    status,
	}, nil
}

// FormatEntry formats an entry for display
func FormatEntry(e Entry) string {
	source := truncate(e.Source, 20, "...")
	return fmt.Sprintf("%s  %-20s  %-8s",
		e.Timestamp.Format("2006-01-02 15:04:05"),
		source,
		strings.ToUpper(e.Status),
	)
}

// truncate shortens s to at most n runes, ending in ellipsis when cut
func truncate(s string, n int, ellipsis string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-len([]rune(ellipsis))]) + ellipsis
}

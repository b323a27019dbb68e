// Package evidence manages the small fact files written by the shell
// integration hooks when a command fails. Each file holds one fact about the
// most recent failure and lives in a shared temporary directory. Hooks and
// the resolver share these files across processes without locking; every
// read treats an absent or unreadable file as a normal outcome.
package evidence

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind identifies one evidence file in the shared temporary directory.
type Kind string

const (
	// LastError holds the plain text error description of the last failure.
	LastError Kind = "aicmd_last_error"
	// SimpleError is a simplified variant of LastError written by older hooks.
	SimpleError Kind = "aicmd_simple_error"
	// LastCommand holds the offending command line, verbatim.
	LastCommand Kind = "aicmd_last_command"
	// LastExitCode holds the decimal exit code of the last failure.
	LastExitCode Kind = "aicmd_last_exit_code"
	// CurrentCommand holds the command about to execute, written pre-execution.
	CurrentCommand Kind = "aicmd_current_command"
	// ErrorOutput holds raw error output captured by the hooks.
	ErrorOutput Kind = "aicmd_error_output"
)

// stderrCapturePrefix is the file name prefix for per-process stderr captures.
const stderrCapturePrefix = "aicmd_stderr_"

const (
	// ErrorFreshness is the maximum age of a LastError-family record.
	ErrorFreshness = 30 * time.Second
	// StderrFreshness is the maximum age of a stderr capture.
	StderrFreshness = 60 * time.Second
)

// ErrorFamily returns every kind that is purged once a fresh LastError record
// has been consumed, so the same failure cannot be reported twice.
func ErrorFamily() []Kind {
	return []Kind{LastError, SimpleError, LastCommand, LastExitCode, CurrentCommand, ErrorOutput}
}

// StderrCapture is one per-process stderr capture file.
type StderrCapture struct {
	Content string
	Age     time.Duration
}

// Store is the repository of evidence records. Implementations must treat
// missing records as normal: Read and Age report presence through their
// second return value and never fail.
type Store interface {
	// Write stores content for the given kind, replacing any previous record.
	Write(kind Kind, content string) error

	// Read returns the trimmed content of the record, if present and readable.
	Read(kind Kind) (string, bool)

	// Age returns how long ago the record was last written, if present.
	Age(kind Kind) (time.Duration, bool)

	// Purge deletes the given records, ignoring ones that do not exist.
	Purge(kinds ...Kind)

	// LatestStderrCapture returns the most recently written stderr capture.
	LatestStderrCapture() (StderrCapture, bool)
}

// FileStore is the production Store backed by plain files in a shared
// temporary directory. The clock is injectable so tests can control record
// ages without touching real file modification times.
type FileStore struct {
	dir string
	now func() time.Time
}

// NewFileStore creates a FileStore rooted at dir. A nil now defaults to
// time.Now.
func NewFileStore(dir string, now func() time.Time) *FileStore {
	if now == nil {
		now = time.Now
	}
	return &FileStore{dir: dir, now: now}
}

func (s *FileStore) path(kind Kind) string {
	return filepath.Join(s.dir, string(kind))
}

// Write stores content for the given kind. Last writer wins; there is no
// locking because at most one shell session's hook produces evidence per
// failure.
func (s *FileStore) Write(kind Kind, content string) error {
	return os.WriteFile(s.path(kind), []byte(content), 0644)
}

// Read returns the trimmed record content. Absent and unreadable files are
// both reported as not present.
func (s *FileStore) Read(kind Kind) (string, bool) {
	data, err := os.ReadFile(s.path(kind))
	if err != nil {
		return "", false
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", false
	}
	return content, true
}

// Age returns the time elapsed since the record was written, derived from the
// file modification time.
func (s *FileStore) Age(kind Kind) (time.Duration, bool) {
	info, err := os.Stat(s.path(kind))
	if err != nil {
		return 0, false
	}
	return s.now().Sub(info.ModTime()), true
}

// Purge deletes the given records. Missing files are not an error.
func (s *FileStore) Purge(kinds ...Kind) {
	for _, kind := range kinds {
		_ = os.Remove(s.path(kind))
	}
}

// PurgeStderrCaptures deletes every per-process stderr capture file.
func (s *FileStore) PurgeStderrCaptures() {
	matches, err := filepath.Glob(filepath.Join(s.dir, stderrCapturePrefix+"*"))
	if err != nil {
		return
	}
	for _, match := range matches {
		_ = os.Remove(match)
	}
}

// LatestStderrCapture scans the directory for per-process stderr captures and
// returns the most recently modified one that has content.
func (s *FileStore) LatestStderrCapture() (StderrCapture, bool) {
	matches, err := filepath.Glob(filepath.Join(s.dir, stderrCapturePrefix+"*"))
	if err != nil || len(matches) == 0 {
		return StderrCapture{}, false
	}

	type candidate struct {
		path    string
		modTime time.Time
	}
	var candidates []candidate
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{path: match, modTime: info.ModTime()})
	}
	if len(candidates) == 0 {
		return StderrCapture{}, false
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].modTime.After(candidates[j].modTime)
	})

	latest := candidates[0]
	data, err := os.ReadFile(latest.path)
	if err != nil {
		return StderrCapture{}, false
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return StderrCapture{}, false
	}

	return StderrCapture{
		Content: content,
		Age:     s.now().Sub(latest.modTime),
	}, true
}

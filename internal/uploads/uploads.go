package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MountPrefix is the public URL prefix the stored files are served under.
	MountPrefix = "/uploads"

	// DefaultMaxBytes caps an upload at 32 MiB when no limit is configured.
	DefaultMaxBytes = 32 << 20

	dirPerm  = 0o755
	filePerm = 0o600
)

var (
	// ErrNoFile indicates the multipart request carried no file field.
	ErrNoFile = errors.New("no file attached")
	// ErrFileTooLarge indicates the upload exceeded the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// Intake accepts a single uploaded file and persists it under a local
// directory, returning the public path it will be served from.
type Intake struct {
	dir      string
	maxBytes int64
}

// NewIntake creates an Intake writing into dir, creating the directory if it
// does not exist. A non-positive maxBytes falls back to DefaultMaxBytes.
func NewIntake(dir string, maxBytes int64) (*Intake, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory cannot be empty")
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &Intake{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes reports the configured size limit.
func (i *Intake) MaxBytes() int64 {
	return i.maxBytes
}

// Accept reads the uploaded stream to a new file and returns its public path
// under MountPrefix. The stored name is
// "<epoch-millis>-<uuid fragment>-<original name>"; the uuid fragment keeps
// two same-named uploads in the same millisecond from colliding. A stream
// longer than the limit aborts with ErrFileTooLarge and removes the partial
// file.
func (i *Intake) Accept(file io.Reader, originalName string) (string, error) {
	if file == nil {
		return "", ErrNoFile
	}

	name := i.generateName(originalName)
	dst := filepath.Join(i.dir, name)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePerm)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	// Copy one byte past the limit so an exactly-at-limit file passes and
	// anything longer is detected without reading the whole stream.
	written, err := io.Copy(out, io.LimitReader(file, i.maxBytes+1))
	if cerr := out.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	if written > i.maxBytes {
		_ = os.Remove(dst)
		return "", ErrFileTooLarge
	}

	return path.Join(MountPrefix, name), nil
}

// Dir reports the storage directory, e.g. for mounting a file server over it.
func (i *Intake) Dir() string {
	return i.dir
}

// generateName builds the stored filename. The original name is reduced to
// its base to strip any client-supplied path segments.
func (i *Intake) generateName(originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "upload"
	}

	fragment := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), fragment, base)
}

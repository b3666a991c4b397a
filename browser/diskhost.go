package browser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adamwoolhether/apiclient/client/download"
)

var (
	ErrUnknownObjectURL = errors.New("unknown object url")
	ErrDetachedAnchor   = errors.New("anchor is not attached")
)

// DiskHost is a Host that saves clicked blobs into Dir. A name already
// taken in Dir is saved as "name (1).ext", "name (2).ext" and so on,
// unless the anchor asks to keep the existing file.
type DiskHost struct {
	dir    string
	origin string
	logger *slog.Logger

	mu       sync.Mutex
	blobs    map[string][]byte
	attached map[*Anchor]struct{}
}

// NewDiskHost returns a host saving into dir. Object URLs are minted as
// blob:<origin>/<uuid>, where origin is taken from base ("null" when base
// has none).
func NewDiskHost(dir, base string, logger *slog.Logger) *DiskHost {
	if logger == nil {
		logger = slog.Default()
	}

	return &DiskHost{
		dir:      dir,
		origin:   origin(base),
		logger:   logger,
		blobs:    make(map[string][]byte),
		attached: make(map[*Anchor]struct{}),
	}
}

// Dir returns the directory files are saved to.
func (h *DiskHost) Dir() string { return h.dir }

func (h *DiskHost) CreateObjectURL(blob []byte, _ string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generating object id: %w", err)
	}
	u := "blob:" + h.origin + "/" + id.String()

	h.mu.Lock()
	h.blobs[u] = blob
	h.mu.Unlock()

	return u, nil
}

func (h *DiskHost) RevokeObjectURL(u string) {
	h.mu.Lock()
	delete(h.blobs, u)
	h.mu.Unlock()
}

func (h *DiskHost) AppendChild(a *Anchor) {
	h.mu.Lock()
	h.attached[a] = struct{}{}
	h.mu.Unlock()
}

func (h *DiskHost) RemoveChild(a *Anchor) {
	h.mu.Lock()
	delete(h.attached, a)
	h.mu.Unlock()
}

// Click writes the blob behind a.Href to Dir under the base name of
// a.Download, verifying a.Integrity when set.
func (h *DiskHost) Click(ctx context.Context, a *Anchor) error {
	h.mu.Lock()
	_, ok := h.attached[a]
	blob, found := h.blobs[a.Href]
	h.mu.Unlock()

	if !ok {
		return ErrDetachedAnchor
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrUnknownObjectURL, a.Href)
	}

	var opts []download.Option
	if a.Integrity != nil {
		opts = append(opts, download.WithChecksum(a.Integrity.Hash, a.Integrity.Expected))
	}

	name := sanitize(a.Download)
	dest := filepath.Join(h.dir, name)
	if a.KeepExisting {
		opts = append(opts, download.WithSkipExisting())
	} else {
		dest = uniquePath(h.dir, name)
	}

	return download.Save(ctx, bytes.NewReader(blob), int64(len(blob)), dest, h.logger, opts...)
}

// uniquePath returns dir/name, or the first free "stem (n)ext" variant.
func uniquePath(dir, name string) string {
	p := filepath.Join(dir, name)
	if !exists(p) {
		return p
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		p = filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, i, ext))
		if !exists(p) {
			return p
		}
	}
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// sanitize keeps only the final path element of name.
func sanitize(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	switch name {
	case "", ".", "..", "/":
		return download.DefaultFilename(time.Now())
	}

	return name
}

func origin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "null"
	}

	return u.Scheme + "://" + u.Host
}

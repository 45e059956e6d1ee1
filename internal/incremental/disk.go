package incremental

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrCacheSchema reports a payload written by another schema version.
var ErrCacheSchema = errors.New("cache schema mismatch")

// Disk stores payloads as msgpack files under a directory. Writes go through
// a temp file and an atomic rename. Safe for concurrent use.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Payload is the on-disk record of one memoized value.
type Payload struct {
	Schema uint16
	Stage  string
	Data   []byte
}

// DefaultDir returns $XDG_CACHE_HOME/<app> or ~/.cache/<app>.
func DefaultDir(app string) (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("locate cache dir: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, app), nil
}

// OpenDisk creates dir if needed and returns a store rooted there.
func OpenDisk(dir string) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("open cache %s: %w", dir, err)
	}
	return &Disk{dir: dir}, nil
}

// Dir returns the cache root.
func (d *Disk) Dir() string { return d.dir }

func (d *Disk) pathFor(key Key) string {
	hexKey := key.String()
	return filepath.Join(d.dir, "memo", hexKey[:2], hexKey+".mp")
}

// Put writes a payload for key.
func (d *Disk) Put(key Key, payload *Payload) (err error) {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	p := d.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry is (false, nil); a payload
// from another schema version returns ErrCacheSchema.
func (d *Disk) Get(key Key, out *Payload) (bool, error) {
	if d == nil {
		return false, nil
	}
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, err := os.ReadFile(d.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if err := msgpack.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	if out.Schema != SchemaVersion {
		return false, fmt.Errorf("cache entry %s has schema %d: %w", key, out.Schema, ErrCacheSchema)
	}
	return true, nil
}

// DropAll removes every cached entry.
func (d *Disk) DropAll() error {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := os.Stat(d.dir); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	old := d.dir + ".old-" + time.Now().Format("20060102150405.000000000")
	if err := os.Rename(d.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(d.dir, 0o755)
}

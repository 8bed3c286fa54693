package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"taskctl/internal/logging"
)

// File is a durable, single-process Persistence adapter (SPEC_FULL.md §11):
// every key's value is one JSON file under baseDir/objects/, written with
// the same atomic-rename-plus-fsync discipline as a crash-safe state store,
// so each key's file is either fully replaced or left as it was. A commit
// of several keys is not atomic as a whole: a failure part-way leaves the
// keys written before it on disk.
type File struct {
	baseDir string
	log     logging.Sink
	cache   map[string]map[string]any
}

// OpenFile prepares a File adapter rooted at baseDir without touching the
// disk. Commit creates (and fsyncs) the directory on first use; Load
// performs the actual read of whatever keys already exist on disk.
func OpenFile(baseDir string, log logging.Sink) (*File, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, errors.New("baseDir is required")
	}
	if log == nil {
		log = logging.NewNoop()
	}
	return &File{baseDir: baseDir, log: log, cache: map[string]map[string]any{}}, nil
}

func (f *File) objectsDir() string {
	return filepath.Join(f.baseDir, "objects")
}

// objectPath maps a persistence key to a file name. Keys may contain ':'
// (e.g. "web:TASK_STATE"), which isn't filesystem-portable on every target,
// so it's escaped rather than passed through.
func (f *File) objectPath(key string) string {
	safe := strings.NewReplacer(":", "__", "/", "_").Replace(key)
	return filepath.Join(f.objectsDir(), safe+".json")
}

// Load reads every object file already on disk into the in-memory cache.
// A missing objects directory is not an error: it means no state has ever
// been committed yet.
func (f *File) Load(onFailure OnFailure) bool {
	entries, err := os.ReadDir(f.objectsDir())
	if err != nil {
		if os.IsNotExist(err) {
			return true
		}
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(f.objectsDir(), name)
		var rec fileRecord
		if err := readJSONStrict(path, &rec); err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
		f.cache[rec.Key] = deepCopyMap(rec.Value)
	}
	return true
}

func (f *File) Get(key string, refreshIfMissing bool) map[string]any {
	if v, ok := f.cache[key]; ok {
		return deepCopyMap(v)
	}
	if !refreshIfMissing {
		return map[string]any{}
	}
	var rec fileRecord
	if err := readJSONStrict(f.objectPath(key), &rec); err != nil {
		return map[string]any{}
	}
	v := deepCopyMap(rec.Value)
	f.cache[key] = deepCopyMap(v)
	return v
}

func (f *File) UpdateObjectState(key string, value map[string]any) {
	f.cache[key] = deepCopyMap(value)
}

// Commit writes every cached key to its own file, atomically. Keys are
// flushed in sorted order so a partial failure always reports a
// deterministic set of keys as committed.
func (f *File) Commit(onFailure OnFailure) bool {
	if err := ensureDirDurable(f.objectsDir(), 0o755); err != nil {
		if onFailure != nil {
			onFailure(err)
		}
		return false
	}

	keys := make([]string, 0, len(f.cache))
	for k := range f.cache {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		rec := fileRecord{Key: key, Value: f.cache[key]}
		data, err := jsonMarshalStable(rec)
		if err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
		if err := writeFileAtomicDurable(f.objectPath(key), data, 0o644); err != nil {
			if onFailure != nil {
				onFailure(err)
			}
			return false
		}
	}
	return true
}

// fileRecord is the on-disk shape of a single object file: the key is
// carried alongside the value so Load can reconstruct the cache without
// relying on the (escaped, lossy) file name alone.
type fileRecord struct {
	Key   string         `json:"key"`
	Value map[string]any `json:"value"`
}

func jsonMarshalStable(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func readJSONStrict(path string, dst any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("invalid JSON: trailing content")
	}
	return nil
}

func ensureDirDurable(dir string, perm os.FileMode) error {
	if err := os.MkdirAll(dir, perm); err != nil {
		return err
	}
	if err := fsyncDir(dir); err != nil {
		return err
	}
	parent := filepath.Dir(dir)
	if parent != dir {
		if err := fsyncDir(parent); err != nil {
			return err
		}
	}
	return nil
}

func writeFileAtomicDurable(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return fsyncDir(dir)
}

func fsyncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}

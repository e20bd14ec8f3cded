package source

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/incgraph/incgraph/pkg/cache"
	"github.com/incgraph/incgraph/pkg/errors"
	"github.com/incgraph/incgraph/pkg/include"
)

// scanCacheTTL bounds how long cached include lists are kept. Entries are
// keyed by size and mtime, so the TTL only limits garbage accumulation.
const scanCacheTTL = 7 * 24 * time.Hour

// ScanOptions configures directory scanning.
type ScanOptions struct {
	Recursive bool                 // descend into subdirectories
	Exts      []string             // extension allow-list, empty means every file
	Exclude   []string             // directory names skipped during recursive walks
	Cache     cache.Cache          // include-list cache (optional)
	Logger    func(string, ...any) // progress/debug callback (optional)
}

// WithDefaults returns a copy of o with zero values replaced by defaults.
func (o ScanOptions) WithDefaults() ScanOptions {
	opts := o
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Scan collects the regular files of dirs into a library named name.
// Directories are scanned in argument order with entries in lexical order,
// so repeated scans of an unchanged tree produce identical libraries.
// Unreadable directories fail the scan; unreadable files merely contribute
// empty include lists.
func Scan(ctx context.Context, name string, dirs []string, opts ScanOptions) (*Library, error) {
	opts = opts.WithDefaults()
	exts := normalizeExts(opts.Exts)

	var files []File
	for _, dir := range dirs {
		collected, err := scanDir(ctx, dir, exts, opts)
		if err != nil {
			return nil, err
		}
		files = append(files, collected...)
	}

	return New(name, files), nil
}

func scanDir(ctx context.Context, dir string, exts map[string]bool, opts ScanOptions) ([]File, error) {
	if opts.Recursive {
		return walkDir(ctx, dir, exts, opts)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDirNotFound, err, "scan %s", dir)
	}

	var files []File
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		info, err := os.Stat(path) // follows symlinks
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		if !allowedExt(entry.Name(), exts) {
			continue
		}
		files = append(files, newFile(ctx, dir, entry.Name(), info, opts))
	}

	return files, nil
}

// walkDir is the recursive variant of scanDir. Hidden directories and the
// configured exclude names are skipped whole.
func walkDir(ctx context.Context, root string, exts map[string]bool, opts ScanOptions) ([]File, error) {
	skip := make(map[string]bool, len(opts.Exclude))
	for _, name := range opts.Exclude {
		skip[name] = true
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && excludedDir(d.Name(), skip) {
				return filepath.SkipDir
			}
			return nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil
		}
		if !allowedExt(d.Name(), exts) {
			return nil
		}
		files = append(files, newFile(ctx, filepath.Dir(path), d.Name(), info, opts))
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeDirNotFound, err, "scan %s", root)
	}

	return files, nil
}

// newFile builds the File for one directory entry, consulting the cache
// before reading the file itself.
func newFile(ctx context.Context, dir, name string, info os.FileInfo, opts ScanOptions) File {
	base, ext := SplitExt(name)
	f := File{Name: base, Ext: ext, Dir: dir}
	path := filepath.Join(dir, name)

	key := cache.FileKey(path, info.Size(), info.ModTime())
	if data, hit, err := opts.Cache.Get(ctx, key); err == nil && hit {
		if json.Unmarshal(data, &f.Includes) == nil {
			return f
		}
	}

	f.Includes = include.ExtractFile(path)
	opts.Logger("scanned %s: %d includes", path, len(f.Includes))

	if data, err := json.Marshal(f.Includes); err == nil {
		_ = opts.Cache.Set(ctx, key, data, scanCacheTTL)
	}
	return f
}

func excludedDir(name string, skip map[string]bool) bool {
	return skip[name] || (len(name) > 1 && strings.HasPrefix(name, "."))
}

// normalizeExts lowercases entries and ensures the leading dot, so "c" and
// ".C" both match main.c. A nil result means no filtering.
func normalizeExts(exts []string) map[string]bool {
	if len(exts) == 0 {
		return nil
	}
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = true
	}
	if len(set) == 0 {
		return nil
	}
	return set
}

func allowedExt(name string, exts map[string]bool) bool {
	if exts == nil {
		return true
	}
	_, ext := SplitExt(name)
	return exts[strings.ToLower(ext)]
}

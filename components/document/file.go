package document

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// File is a document stored on the local file system
type File struct {
	path string
	meta map[string]string
}

var _ Source = (*File)(nil)

func NewFile(fname string) (*File, error) {
	fileInfo, err := os.Stat(fname)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("FileDocument could not be a directory")
	}
	return &File{
		path: fname,
		meta: map[string]string{
			"filename": fileInfo.Name(),
			"modtime":  strconv.FormatInt(fileInfo.ModTime().Unix(), 10),
		},
	}, nil
}

func (d *File) Name() string {
	return d.path
}

func (d *File) Meta() map[string]string {
	return d.meta
}

func (d *File) Open(_ context.Context) (io.ReadCloser, error) {
	return os.Open(d.path)
}

// Dir lists the files of a directory tree matching a glob pattern on their base name
type Dir struct {
	root    string
	pattern string
}

var _ Lister = (*Dir)(nil)

// NewDir returns a Dir lister, pattern defaults to every file
func NewDir(root string, pattern string) *Dir {
	if pattern == "" {
		pattern = "*"
	}
	return &Dir{root: root, pattern: pattern}
}

func (d *Dir) List(ctx context.Context) ([]Source, error) {
	var ret []Source
	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}
		matched, err := filepath.Match(d.pattern, entry.Name())
		if err != nil || !matched {
			return err
		}
		f, err := NewFile(p)
		if err != nil {
			return err
		}
		ret = append(ret, f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].Name() < ret[j].Name()
	})
	return ret, nil
}

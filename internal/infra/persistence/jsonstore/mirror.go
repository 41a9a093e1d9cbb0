// Package jsonstore keeps the user collection in memory and mirrors it to a single
// JSON document that is rewritten in full on every change.
package jsonstore

import (
	"context"
	"io/fs"
	"os"

	"usersvc/internal/errors"
)

// Mirror is the durable copy of the collection: one document, read whole and written whole.
type Mirror interface {
	Exists(ctx context.Context) (bool, error)
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
	String() string
}

const filePerm = 0o644

// FileMirror stores the document in a local file.
type FileMirror struct {
	path        string
	atomicWrite bool
}

// NewFileMirror returns a mirror at path. With atomicWrite the document is written
// to path+".tmp" and renamed over path; otherwise path is truncated and rewritten.
// The parent directory must already exist.
func NewFileMirror(path string, atomicWrite bool) *FileMirror {
	return &FileMirror{
		path:        path,
		atomicWrite: atomicWrite,
	}
}

func (m *FileMirror) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(m.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	return false, errors.Wrapf(err, "stat %s", m.path)
}

func (m *FileMirror) Read(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", m.path)
	}

	return data, nil
}

func (m *FileMirror) Write(_ context.Context, data []byte) error {
	if m.atomicWrite {
		return m.writeAtomic(data)
	}

	f, err := os.OpenFile(m.path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePerm)
	if err != nil {
		return errors.Wrapf(err, "open %s", m.path)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()

		return errors.Wrapf(err, "write %s", m.path)
	}

	return errors.Wrapf(f.Close(), "close %s", m.path)
}

func (m *FileMirror) writeAtomic(data []byte) error {
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, filePerm); err != nil {
		return errors.Wrapf(err, "write %s", tmp)
	}

	if err := os.Rename(tmp, m.path); err != nil {
		_ = os.Remove(tmp)

		return errors.Wrapf(err, "rename %s", tmp)
	}

	return nil
}

func (m *FileMirror) Close() error {
	return nil
}

func (m *FileMirror) String() string {
	return m.path
}

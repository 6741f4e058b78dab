package mocks

import (
	"io/fs"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/openuci/uci/internal/fsutil"
)

var (
	_ fsutil.ReadWriteFS = (*MockFS)(nil)
	_ fsutil.FileOps     = (*MockFS)(nil)
)

// MockFS is a testify/mock double for fsutil.ReadWriteFS and
// fsutil.FileOps, used to exercise backend commit/load error paths
// without touching the real filesystem.
type MockFS struct {
	mock.Mock
}

func (m *MockFS) Stat(p string) (fs.FileInfo, error) {
	args := m.Called(p)
	var fileInfo fs.FileInfo
	if args.Get(0) != nil {
		fileInfo = args.Get(0).(fs.FileInfo)
	}
	return fileInfo, args.Error(1)
}

func (m *MockFS) MkdirAll(p string, mode os.FileMode) error {
	args := m.Called(p, mode)
	return args.Error(0)
}

func (m *MockFS) Open(p string) (*os.File, error) {
	args := m.Called(p)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	return file, args.Error(1)
}

func (m *MockFS) ReadFile(p string) ([]byte, error) {
	args := m.Called(p)
	var data []byte
	if args.Get(0) != nil {
		data = args.Get(0).([]byte)
	}
	return data, args.Error(1)
}

func (m *MockFS) WriteFile(p string, b []byte, mode os.FileMode) error {
	args := m.Called(p, b, mode)
	return args.Error(0)
}

func (m *MockFS) CreateTemp(dir, pat string) (*os.File, error) {
	args := m.Called(dir, pat)
	var file *os.File
	if args.Get(0) != nil {
		file = args.Get(0).(*os.File)
	}
	return file, args.Error(1)
}

func (m *MockFS) Rename(old, newPath string) error {
	args := m.Called(old, newPath)
	return args.Error(0)
}

func (m *MockFS) Remove(p string) error {
	args := m.Called(p)
	return args.Error(0)
}

func (m *MockFS) Chmod(p string, mode os.FileMode) error {
	args := m.Called(p, mode)
	return args.Error(0)
}

package fs

import (
	"os"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// BridgeFS wraps the filesystem operations used by the bridge.
type BridgeFS interface {
	Getwd() (string, error)
	TempDir() string
	MkdirAll(path string) error
	DirExists(path string) (bool, error)
	FileExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data string) error
	Rename(oldPath, newPath string) error
	Remove(name string) error
}

type fsImpl struct{}

// New creates a new BridgeFS.
func New() BridgeFS {
	return fsImpl{}
}

// Getwd returns the current working directory.
func (fsImpl) Getwd() (string, error) { return os.Getwd() }

// TempDir returns the default directory for temporary files.
func (fsImpl) TempDir() string { return os.TempDir() }

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) WriteFile(name string, data string) error {
	return os.WriteFile(name, []byte(data), 0644)
}

// Rename moves a file, failing if the destination already exists.
func (fsImpl) Rename(oldPath, newPath string) error {
	if _, err := os.Lstat(newPath); err == nil {
		return &os.LinkError{Op: "rename", Old: oldPath, New: newPath, Err: os.ErrExist}
	}
	return os.Rename(oldPath, newPath)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

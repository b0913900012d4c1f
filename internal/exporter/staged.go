package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"salesetl/pkg/contracts/domain"
)

// StagedFile is a complete output held in a temporary file next to its
// final path. The final path is untouched until Commit.
type StagedFile struct {
	name string
	path string
	tmp  string
	size int64
	done bool
}

// stage closes tmp and records it as the pending content of dir/name
func stage(tmp *os.File, dir, name string) (*StagedFile, error) {
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to close file: %w", err)
	}
	info, err := os.Stat(tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return &StagedFile{
		name: name,
		path: filepath.Join(dir, name),
		tmp:  tmp.Name(),
		size: info.Size(),
	}, nil
}

// stageBytes writes data to a temporary file for dir/name
func stageBytes(dir, name string, data []byte) (*StagedFile, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := createTemp(dir, name)
	if err != nil {
		return nil, err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to write %s: %w", name, err)
	}
	return stage(tmp, dir, name)
}

func createTemp(dir, name string) (*os.File, error) {
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return tmp, nil
}

// Output describes the file as it will exist after Commit
func (f *StagedFile) Output() domain.OutputFile {
	return domain.OutputFile{Name: f.name, Path: f.path, SizeBytes: f.size}
}

// Commit moves the staged content to its final path
func (f *StagedFile) Commit() error {
	if f.done {
		return fmt.Errorf("%s already committed or discarded", f.name)
	}
	if err := os.Rename(f.tmp, f.path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", f.name, err)
	}
	f.done = true
	return nil
}

// Discard removes the staged content. It is a no-op after Commit.
func (f *StagedFile) Discard() {
	if f.done {
		return
	}
	os.Remove(f.tmp)
	f.done = true
}

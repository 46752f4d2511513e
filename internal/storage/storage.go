package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/catalog-courses/internal/requirements"
)

// Storage handles persistence of program documents
type Storage struct {
	dataDir string
}

// New creates a Storage rooted at dataDir, creating the directory if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// Path returns the path of a document file inside the data directory
func (s *Storage) Path(file string) string {
	return filepath.Join(s.dataDir, file)
}

// LoadProgram reads a program document. A missing file yields an empty
// document and no error.
func (s *Storage) LoadProgram(file string) (*requirements.Program, error) {
	data, err := os.ReadFile(s.Path(file))
	if err != nil {
		if os.IsNotExist(err) {
			return &requirements.Program{Records: make([]requirements.Record, 0)}, nil
		}
		return nil, fmt.Errorf("reading program document: %w", err)
	}

	var program requirements.Program
	if err := json.Unmarshal(data, &program); err != nil {
		return nil, fmt.Errorf("parsing program document: %w", err)
	}

	return &program, nil
}

// SaveProgram writes a program document with two-space indentation and a
// trailing newline, leaving "&", "<" and ">" unescaped, and returns the path
// written
func (s *Storage) SaveProgram(file string, program *requirements.Program) (string, error) {
	path := s.Path(file)

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(program); err != nil {
		return "", fmt.Errorf("encoding program document: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("writing program document: %w", err)
	}

	return path, nil
}

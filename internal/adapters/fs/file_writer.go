package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/nellarium/tokenfarm/internal/usecase"
)

// FileWriterAdapter writes the build artifacts and configuration
// consumed by the front end
type FileWriterAdapter struct{}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter() *FileWriterAdapter {
	return &FileWriterAdapter{}
}

// ReplaceDir removes dst and copies the tree rooted at src in its place
func (f *FileWriterAdapter) ReplaceDir(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	if err := os.RemoveAll(dst); err != nil {
		return fmt.Errorf("failed to remove %s: %w", dst, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	return nil
}

// WriteYAMLAsJSON converts a YAML document to indented JSON and writes it to dst
func (f *FileWriterAdapter) WriteYAMLAsJSON(ctx context.Context, yamlData []byte, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var doc any
	if err := yaml.Unmarshal(yamlData, &doc); err != nil {
		return fmt.Errorf("failed to parse yaml: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	data, err := json.MarshalIndent(normalize(doc), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}
	return nil
}

// normalize turns the maps yaml.v3 may produce into JSON encodable ones
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}

var _ usecase.FrontEndWriter = (*FileWriterAdapter)(nil)

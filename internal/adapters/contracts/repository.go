package contracts

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

const (
	artifactCacheSize = 64
	maxSuggestions    = 3
)

// ArtifactRepository loads compiled contracts from the build output.
// Brownie keeps one <Name>.json per contract in a flat directory, Foundry
// nests them as <File>.sol/<Name>.json.
type ArtifactRepository struct {
	dir    string
	layout config.ArtifactLayout
	cache  *lru.Cache
	log    *slog.Logger
}

// NewArtifactRepository creates a repository over the configured artifacts directory
func NewArtifactRepository(cfg *config.RuntimeConfig, log *slog.Logger) (*ArtifactRepository, error) {
	cache, err := lru.New(artifactCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create artifact cache: %w", err)
	}
	return &ArtifactRepository{
		dir:    cfg.ArtifactsDir,
		layout: cfg.ArtifactLayout,
		cache:  cache,
		log:    log.With("component", "artifacts"),
	}, nil
}

// Get returns the parsed artifact of a contract
func (r *ArtifactRepository) Get(ctx context.Context, name string) (*models.Artifact, error) {
	if cached, ok := r.cache.Get(name); ok {
		return cached.(*models.Artifact), nil
	}

	path, err := r.find(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	artifact, err := ParseArtifact(data, path)
	if err != nil {
		return nil, err
	}
	if artifact.Name == "" {
		artifact.Name = name
	}

	r.log.Debug("loaded artifact", "contract", name, "path", path, "deployable", artifact.Deployable())
	r.cache.Add(name, artifact)
	return artifact, nil
}

// Names lists the contract names present in the build output
func (r *ArtifactRepository) Names() ([]string, error) {
	var names []string
	seen := make(map[string]bool)
	err := r.walk(func(path string) {
		name := strings.TrimSuffix(filepath.Base(path), ".json")
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// find locates the artifact file of name
func (r *ArtifactRepository) find(name string) (string, error) {
	if r.layout == config.LayoutBrownie {
		path := filepath.Join(r.dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		return "", r.notFound(name)
	}

	// Foundry: prefer <Name>.sol/<Name>.json when several files declare the name
	var matches []string
	err := r.walk(func(path string) {
		if filepath.Base(path) == name+".json" {
			matches = append(matches, path)
		}
	})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", r.notFound(name)
	}

	sort.Strings(matches)
	for _, path := range matches {
		if filepath.Base(filepath.Dir(path)) == name+".sol" {
			return path, nil
		}
	}
	return matches[0], nil
}

// walk visits every artifact file under the artifacts directory
func (r *ArtifactRepository) walk(visit func(path string)) error {
	if _, err := os.Stat(r.dir); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: artifacts directory %s does not exist, compile the contracts first",
			domain.ErrNotFound, r.dir)
	}

	return filepath.WalkDir(r.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip build info files
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			// Brownie keeps artifacts in a flat directory
			if r.layout == config.LayoutBrownie && path != r.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".json" {
			visit(path)
		}
		return nil
	})
}

// notFound builds an ArtifactNotFoundErr with close name matches
func (r *ArtifactRepository) notFound(name string) error {
	names, err := r.Names()
	if err != nil {
		return err
	}

	var suggestions []string
	for _, match := range fuzzy.Find(name, names) {
		suggestions = append(suggestions, match.Str)
		if len(suggestions) == maxSuggestions {
			break
		}
	}
	return domain.ArtifactNotFoundErr{Name: name, Suggestions: suggestions}
}

// ParseArtifact decodes a Brownie or Foundry artifact file
func ParseArtifact(data []byte, path string) (*models.Artifact, error) {
	var file models.ArtifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if len(file.ABI) == 0 {
		return nil, fmt.Errorf("artifact %s has no ABI", path)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", path, err)
	}

	bytecode, err := decodeBytecode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}

	artifact := &models.Artifact{
		Name:            file.ContractName,
		Path:            path,
		SourcePath:      file.SourcePath,
		CompilerVersion: file.Compiler.Version,
		RawABI:          file.ABI,
		ABI:             parsedABI,
		Bytecode:        bytecode,
	}

	// Foundry keeps the source and contract name in the metadata compilation target
	for source, contract := range file.Metadata.Settings.CompilationTarget {
		if artifact.SourcePath == "" {
			artifact.SourcePath = source
		}
		if artifact.Name == "" {
			artifact.Name = contract
		}
		break // There should only be one entry
	}
	if artifact.CompilerVersion == "" {
		artifact.CompilerVersion = file.Metadata.Compiler.Version
	}

	return artifact, nil
}

// decodeBytecode accepts a hex string or a {"object": "0x..."} object
func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var code string
	if err := json.Unmarshal(raw, &code); err != nil {
		var object models.BytecodeObject
		if err := json.Unmarshal(raw, &object); err != nil {
			return nil, fmt.Errorf("bytecode is neither a string nor an object")
		}
		code = object.Object
	}

	code = strings.TrimPrefix(code, "0x")
	if strings.Contains(code, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library references")
	}
	return hex.DecodeString(code)
}

// Ensure the repository implements the interface
var _ usecase.ArtifactRepository = (*ArtifactRepository)(nil)

package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// MapFile is the deployment map read by the front end
const MapFile = "map.json"

// DeploymentMap is the content of map.json: chain ID -> contract name -> addresses, newest first
type DeploymentMap map[string]map[string][]string

// FileRepository stores deployments as map.json plus one
// <chainId>/<address>.json record per deployment
type FileRepository struct {
	dir         string
	mu          sync.RWMutex
	mapping     DeploymentMap
	deployments map[string]*models.Deployment // key: chainId/lowercase address
}

// NewFileRepository creates a repository over the configured deployments directory
func NewFileRepository(cfg *config.RuntimeConfig) (*FileRepository, error) {
	return NewFileRepositoryAt(cfg.DeploymentsDir)
}

// NewFileRepositoryAt creates a repository rooted at dir and loads existing records
func NewFileRepositoryAt(dir string) (*FileRepository, error) {
	r := &FileRepository{
		dir:         dir,
		mapping:     make(DeploymentMap),
		deployments: make(map[string]*models.Deployment),
	}

	// Load existing data
	if err := r.load(); err != nil {
		return nil, fmt.Errorf("failed to load deployments: %w", err)
	}

	return r, nil
}

func recordKey(chainID uint64, address string) string {
	return fmt.Sprintf("%d/%s", chainID, strings.ToLower(address))
}

// load reads map.json and the records it references
func (r *FileRepository) load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(filepath.Join(r.dir, MapFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, &r.mapping); err != nil {
		return fmt.Errorf("invalid %s: %w", MapFile, err)
	}

	for chain, contracts := range r.mapping {
		chainID, err := strconv.ParseUint(chain, 10, 64)
		if err != nil {
			// Brownie keys development deployments as "dev"; they are kept in
			// map.json but not tracked
			continue
		}
		for name, addresses := range contracts {
			for _, address := range addresses {
				record, err := r.loadRecord(chainID, address)
				if err != nil {
					return err
				}
				if record == nil {
					// Entry written by another tool without a record file
					record = &models.Deployment{
						ContractName: name,
						Address:      address,
						ChainID:      chainID,
						Verification: models.VerificationStatusUnverified,
					}
				}
				r.deployments[recordKey(chainID, address)] = record
			}
		}
	}

	return nil
}

// loadRecord reads a record file, returning nil when it does not exist
func (r *FileRepository) loadRecord(chainID uint64, address string) (*models.Deployment, error) {
	data, err := os.ReadFile(r.recordPath(chainID, address))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var record models.Deployment
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("invalid deployment record %s: %w", r.recordPath(chainID, address), err)
	}
	return &record, nil
}

func (r *FileRepository) recordPath(chainID uint64, address string) string {
	return filepath.Join(r.dir, strconv.FormatUint(chainID, 10), address+".json")
}

// writeJSON writes v as indented JSON through a temp file
func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	return os.Rename(tmpPath, path)
}

// Save records a deployment as the newest of its contract on its chain
func (r *FileRepository) Save(ctx context.Context, deployment *models.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *deployment
	if err := writeJSON(r.recordPath(clone.ChainID, clone.Address), &clone); err != nil {
		return fmt.Errorf("failed to write deployment record: %w", err)
	}

	chain := strconv.FormatUint(clone.ChainID, 10)
	if r.mapping[chain] == nil {
		r.mapping[chain] = make(map[string][]string)
	}
	addresses := slices.DeleteFunc(r.mapping[chain][clone.ContractName], func(a string) bool {
		return strings.EqualFold(a, clone.Address)
	})
	r.mapping[chain][clone.ContractName] = append([]string{clone.Address}, addresses...)
	r.deployments[recordKey(clone.ChainID, clone.Address)] = &clone

	if err := writeJSON(filepath.Join(r.dir, MapFile), r.mapping); err != nil {
		return fmt.Errorf("failed to write %s: %w", MapFile, err)
	}
	return nil
}

// Latest returns the newest deployment of a contract on a chain
func (r *FileRepository) Latest(ctx context.Context, chainID uint64, contractName string) (*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	addresses := r.mapping[strconv.FormatUint(chainID, 10)][contractName]
	if len(addresses) == 0 {
		return nil, domain.ErrNotFound
	}

	record, exists := r.deployments[recordKey(chainID, addresses[0])]
	if !exists {
		return nil, domain.ErrNotFound
	}

	// Clone to avoid mutations
	clone := *record
	return &clone, nil
}

// List returns deployments ordered by chain, then contract name, newest first
func (r *FileRepository) List(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*models.Deployment
	for _, chain := range slices.Sorted(maps.Keys(r.mapping)) {
		chainID, err := strconv.ParseUint(chain, 10, 64)
		if err != nil {
			continue
		}
		if filter.ChainID != 0 && chainID != filter.ChainID {
			continue
		}
		contracts := r.mapping[chain]
		for _, name := range slices.Sorted(maps.Keys(contracts)) {
			if filter.ContractName != "" && name != filter.ContractName {
				continue
			}
			for _, address := range contracts[name] {
				if record, exists := r.deployments[recordKey(chainID, address)]; exists {
					clone := *record
					result = append(result, &clone)
				}
			}
		}
	}
	return result, nil
}

// MarkVerified updates the verification status of a deployment
func (r *FileRepository) MarkVerified(ctx context.Context, chainID uint64, address string, status models.VerificationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, exists := r.deployments[recordKey(chainID, address)]
	if !exists {
		return fmt.Errorf("%w: deployment %s on chain %d", domain.ErrNotFound, address, chainID)
	}

	record.Verification = status
	if err := writeJSON(r.recordPath(chainID, record.Address), record); err != nil {
		return fmt.Errorf("failed to write deployment record: %w", err)
	}
	return nil
}

// Prune removes deployments from the map and deletes their record files
func (r *FileRepository) Prune(ctx context.Context, chainID uint64, addresses []string) error {
	if len(addresses) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stale := make(map[string]bool, len(addresses))
	for _, address := range addresses {
		stale[strings.ToLower(address)] = true
	}

	chain := strconv.FormatUint(chainID, 10)
	for name, list := range r.mapping[chain] {
		kept := slices.DeleteFunc(list, func(a string) bool {
			return stale[strings.ToLower(a)]
		})
		if len(kept) == 0 {
			delete(r.mapping[chain], name)
		} else {
			r.mapping[chain][name] = kept
		}
	}
	if len(r.mapping[chain]) == 0 {
		delete(r.mapping, chain)
	}

	for _, address := range addresses {
		key := recordKey(chainID, address)
		if record, exists := r.deployments[key]; exists {
			if err := os.Remove(r.recordPath(chainID, record.Address)); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove deployment record: %w", err)
			}
			delete(r.deployments, key)
		}
	}

	if err := writeJSON(filepath.Join(r.dir, MapFile), r.mapping); err != nil {
		return fmt.Errorf("failed to write %s: %w", MapFile, err)
	}
	return nil
}

// Ensure the repository implements the interface
var _ usecase.DeploymentRepository = (*FileRepository)(nil)

package usecase

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/models"
)

// ChainClient submits transactions and reads state on the active network
type ChainClient interface {
	ChainID(ctx context.Context) (uint64, error)
	Deploy(ctx context.Context, account *models.Account, artifact *models.Artifact, args ...any) (*models.Receipt, error)
	Transact(ctx context.Context, account *models.Account, contract *models.Contract, method string, args ...any) (*models.Receipt, error)
	Call(ctx context.Context, contract *models.Contract, method string, args ...any) ([]any, error)
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// ArtifactRepository provides access to compiled contracts
type ArtifactRepository interface {
	Get(ctx context.Context, name string) (*models.Artifact, error)
}

// DeploymentRepository handles persistence of deployments
type DeploymentRepository interface {
	Save(ctx context.Context, deployment *models.Deployment) error
	Latest(ctx context.Context, chainID uint64, contractName string) (*models.Deployment, error)
	List(ctx context.Context, filter domain.DeploymentFilter) ([]*models.Deployment, error)
	MarkVerified(ctx context.Context, chainID uint64, address string, status models.VerificationStatus) error
	Prune(ctx context.Context, chainID uint64, addresses []string) error
}

// AccountLoader turns signing material into chain-bound accounts
type AccountLoader interface {
	FromMnemonic(ctx context.Context, mnemonic string, index int, chainID uint64) (*models.Account, error)
	FromKeystore(ctx context.Context, id string, chainID uint64) (*models.Account, error)
	FromPrivateKey(ctx context.Context, key string, chainID uint64) (*models.Account, error)
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, deployment *models.Deployment) error
}

// NodeManager manages local development node instances
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
	TakeSnapshot(ctx context.Context, instance *domain.NodeInstance) (string, error)
	RevertSnapshot(ctx context.Context, instance *domain.NodeInstance, snapshotID string) error
}

// FrontEndWriter publishes build output to the front-end tree
type FrontEndWriter interface {
	ReplaceDir(ctx context.Context, src, dst string) error
	WriteYAMLAsJSON(ctx context.Context, yamlData []byte, dst string) error
}

// ProjectConfigReader returns the project file as written, without env expansion
type ProjectConfigReader interface {
	ReadRaw(ctx context.Context) ([]byte, error)
}

// InteractiveSelector asks the user for choices and secrets
type InteractiveSelector interface {
	Select(ctx context.Context, label string, items []string) (int, error)
	Passphrase(ctx context.Context, label string) (string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}

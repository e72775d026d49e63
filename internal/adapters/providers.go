package adapters

import (
	"github.com/google/wire"

	"github.com/nellarium/tokenfarm/internal/adapters/anvil"
	"github.com/nellarium/tokenfarm/internal/adapters/blockchain"
	"github.com/nellarium/tokenfarm/internal/adapters/contracts"
	"github.com/nellarium/tokenfarm/internal/adapters/fs"
	"github.com/nellarium/tokenfarm/internal/adapters/interactive"
	"github.com/nellarium/tokenfarm/internal/adapters/progress"
	"github.com/nellarium/tokenfarm/internal/adapters/repository/deployments"
	"github.com/nellarium/tokenfarm/internal/adapters/senders"
	"github.com/nellarium/tokenfarm/internal/adapters/verification"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	deployments.NewFileRepository,
	wire.Bind(new(usecase.DeploymentRepository), new(*deployments.FileRepository)),

	contracts.NewArtifactRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.ArtifactRepository)),

	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FrontEndWriter), new(*fs.FileWriterAdapter)),

	fs.NewProjectReaderAdapter,
	wire.Bind(new(usecase.ProjectConfigReader), new(*fs.ProjectReaderAdapter)),
)

// BlockchainSet provides chain access and signing
var BlockchainSet = wire.NewSet(
	blockchain.NewClientAdapter,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.ClientAdapter)),

	senders.NewAccountLoader,
	wire.Bind(new(usecase.AccountLoader), new(*senders.AccountLoader)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.InteractiveSelector), new(*interactive.SelectorAdapter)),
	wire.Bind(new(senders.PassphraseReader), new(*interactive.SelectorAdapter)),
)

// ToolingSet provides the external tools: the local node and the verifier
var ToolingSet = wire.NewSet(
	anvil.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*anvil.Manager)),

	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// ProgressSet provides the terminal progress reporter
var ProgressSet = wire.NewSet(
	progress.NewProgressSink,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerProgressReporter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	BlockchainSet,
	InteractiveSet,
	ToolingSet,
	ProgressSet,
)

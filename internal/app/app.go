package app

import (
	"log/slog"

	"github.com/nellarium/tokenfarm/internal/adapters/progress"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Log    *slog.Logger

	// Shared dependencies
	Selector usecase.InteractiveSelector
	Progress *progress.SpinnerProgressReporter

	// Use cases
	DeployAll        *usecase.DeployAll
	DeployNellarium  *usecase.DeployNellarium
	DeployTokenFarm  *usecase.DeployTokenFarm
	DeployMocks      *usecase.DeployMocks
	UpdateFrontEnd   *usecase.UpdateFrontEnd
	GetAccount       *usecase.GetAccount
	GetContract      *usecase.GetContract
	Stake            *usecase.Stake
	Unstake          *usecase.Unstake
	IssueTokens      *usecase.IssueTokens
	FarmStatus       *usecase.FarmStatus
	ListDeployments  *usecase.ListDeployments
	PruneDeployments *usecase.PruneDeployments
	ListNetworks     *usecase.ListNetworks
	ManageNode       *usecase.ManageNode

	// Lower-level building blocks for direct contract access
	DeployContract *usecase.DeployContract
	Chain          usecase.ChainClient

	// Adapters (needed for special cases like log streaming)
	NodeManager usecase.NodeManager
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	selector usecase.InteractiveSelector,
	reporter *progress.SpinnerProgressReporter,
	deployAll *usecase.DeployAll,
	deployNellarium *usecase.DeployNellarium,
	deployTokenFarm *usecase.DeployTokenFarm,
	deployMocks *usecase.DeployMocks,
	updateFrontEnd *usecase.UpdateFrontEnd,
	getAccount *usecase.GetAccount,
	getContract *usecase.GetContract,
	stake *usecase.Stake,
	unstake *usecase.Unstake,
	issueTokens *usecase.IssueTokens,
	farmStatus *usecase.FarmStatus,
	listDeployments *usecase.ListDeployments,
	pruneDeployments *usecase.PruneDeployments,
	listNetworks *usecase.ListNetworks,
	manageNode *usecase.ManageNode,
	deployContract *usecase.DeployContract,
	chain usecase.ChainClient,
	nodeManager usecase.NodeManager,
) (*App, error) {
	return &App{
		Config:           cfg,
		Log:              log,
		Selector:         selector,
		Progress:         reporter,
		DeployAll:        deployAll,
		DeployNellarium:  deployNellarium,
		DeployTokenFarm:  deployTokenFarm,
		DeployMocks:      deployMocks,
		UpdateFrontEnd:   updateFrontEnd,
		GetAccount:       getAccount,
		GetContract:      getContract,
		Stake:            stake,
		Unstake:          unstake,
		IssueTokens:      issueTokens,
		FarmStatus:       farmStatus,
		ListDeployments:  listDeployments,
		PruneDeployments: pruneDeployments,
		ListNetworks:     listNetworks,
		ManageNode:       manageNode,
		DeployContract:   deployContract,
		Chain:            chain,
		NodeManager:      nodeManager,
	}, nil
}

//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/nellarium/tokenfarm/internal/adapters"
	"github.com/nellarium/tokenfarm/internal/config"
	"github.com/nellarium/tokenfarm/internal/logging"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDeployContract,
		usecase.NewGetAccount,
		usecase.NewLocateContract,
		usecase.NewDeployMocks,
		usecase.NewGetContract,
		usecase.NewAddAllowedTokens,
		usecase.NewDeployNellarium,
		usecase.NewDeployTokenFarm,
		usecase.NewDeployAll,
		usecase.NewUpdateFrontEnd,
		usecase.NewResolveToken,
		usecase.NewStake,
		usecase.NewUnstake,
		usecase.NewIssueTokens,
		usecase.NewFarmStatus,
		usecase.NewListDeployments,
		usecase.NewPruneDeployments,
		usecase.NewListNetworks,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nellarium/tokenfarm/internal/app"
	"github.com/nellarium/tokenfarm/internal/cli/render"
	"github.com/nellarium/tokenfarm/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"

	// annotationNode marks commands that need the local node up before they run
	annotationNode = "tokenfarm/node"
)

// needsNode is set on every command that talks to the chain
var needsNode = map[string]string{annotationNode: "true"}

// session holds what PersistentPreRunE sets up so it can be released after the command
type session struct {
	app    *app.App
	cancel context.CancelFunc
}

func (s *session) close() {
	if s.app != nil && s.app.Progress != nil {
		s.app.Progress.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// Execute runs the command tree and releases the app afterwards
func Execute(ctx context.Context) error {
	cmd, s := newRootCmd()
	defer s.close()
	return cmd.ExecuteContext(ctx)
}

func newRootCmd() (*cobra.Command, *session) {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "tokenfarm",
		Short: "Deploy and operate the Nellarium token farm",
		Long: `tokenfarm deploys the Nellarium (NEL) token and the TokenFarm staking
contract, wires up the tokens it accepts and their price feeds, and publishes
the build output to the front end.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsApp(cmd) {
				return nil
			}

			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			s.app = appInstance

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			if appInstance.Config.Timeout > 0 {
				ctx, s.cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
			}
			cmd.SetContext(ctx)

			if cmd.Annotations[annotationNode] != "" {
				if err := appInstance.ManageNode.EnsureRunning(ctx); err != nil {
					return fmt.Errorf("failed to launch local node: %w", err)
				}
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (defaults to networks.default)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().Bool("json", false, "Output results as JSON")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "farm",
		Title: "Farm Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Main commands
	for _, sub := range []*cobra.Command{
		NewDeployCmd(),
		NewFrontendCmd(),
		NewContractCmd(),
		NewAccountCmd(),
	} {
		sub.GroupID = "main"
		rootCmd.AddCommand(sub)
	}

	// Farm commands
	for _, sub := range []*cobra.Command{
		NewStakeCmd(),
		NewUnstakeCmd(),
		NewIssueCmd(),
		NewStatusCmd(),
	} {
		sub.GroupID = "farm"
		rootCmd.AddCommand(sub)
	}

	// Management commands
	for _, sub := range []*cobra.Command{
		NewDeploymentsCmd(),
		NewNetworksCmd(),
		NewNodeCmd(),
	} {
		sub.GroupID = "management"
		rootCmd.AddCommand(sub)
	}

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, s
}

// skipsApp reports whether cmd runs without a project
func skipsApp(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	return cmd.Parent() != nil && cmd.Parent().Name() == "completion"
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	a, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return a, nil
}

// output renders result as JSON with --json, otherwise with renderFn
func output[T any](cmd *cobra.Command, a *app.App, result T, renderFn func(T) error) error {
	if a.Config.JSON {
		return render.RenderJSON(cmd.OutOrStdout(), result)
	}
	return renderFn(result)
}

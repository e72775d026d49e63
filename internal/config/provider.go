package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/nellarium/tokenfarm/internal/domain/config"
)

// ProjectFileName is the project configuration file that marks the project root
const ProjectFileName = "tokenfarm.yaml"

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	project, err := LoadProjectConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	applyFoundryEndpoints(project, foundryConfig)

	if err := validateProject(project); err != nil {
		return nil, err
	}

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = project.Networks.Default
	}
	network, err := ResolveNetwork(project, networkName)
	if err != nil {
		return nil, err
	}
	if err := validateActiveNetwork(network); err != nil {
		return nil, err
	}

	confirmations := v.GetUint64("confirmations")
	if confirmations == 0 {
		confirmations = 1
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:        projectRoot,
		ConfigFile:         filepath.Join(projectRoot, ProjectFileName),
		Network:            network,
		BuildDir:           resolvePath(projectRoot, project.BuildDir),
		DeploymentsDir:     filepath.Join(resolvePath(projectRoot, project.BuildDir), "deployments"),
		FrontEndDir:        resolvePath(projectRoot, project.FrontEnd.Dir),
		FrontEndConfigFile: project.FrontEnd.ConfigFile,
		KeystoreDir:        resolvePath(projectRoot, project.Wallets.KeystoreDir),
		Debug:              v.GetBool("debug"),
		NonInteractive:     v.GetBool("non_interactive"),
		JSON:               v.GetBool("json"),
		Timeout:            v.GetDuration("timeout"),
		Confirmations:      confirmations,
		Project:            project,
		FoundryConfig:      foundryConfig,
	}

	// Without an explicit build_dir a Foundry project reads artifacts from its out dir
	cfg.ArtifactLayout = config.LayoutBrownie
	cfg.ArtifactsDir = filepath.Join(cfg.BuildDir, "contracts")
	if foundryConfig != nil && !project.ExplicitBuildDir {
		cfg.ArtifactLayout = config.LayoutFoundry
		cfg.ArtifactsDir = resolvePath(projectRoot, foundryConfig.OutDir())
	}

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find tokenfarm.yaml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a tokenfarm project (%s not found)", ProjectFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("TOKENFARM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("network", "")
	v.SetDefault("timeout", "5m")
	v.SetDefault("confirmations", 1)
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("json", false)
	v.SetDefault("project_root", projectRoot)

	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		key := strings.ReplaceAll(f.Name, "-", "_")
		if err := v.BindPFlag(key, f); err != nil {
			panic(err)
		}
	})

	return v
}

// resolvePath expands a leading ~ and anchors relative paths at the project root
func resolvePath(projectRoot, path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectRoot, path)
}

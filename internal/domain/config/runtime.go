package config

import (
	"time"

	"github.com/nellarium/tokenfarm/internal/domain"
)

// ArtifactLayout identifies the compiler output layout
type ArtifactLayout string

const (
	LayoutBrownie ArtifactLayout = "brownie"
	LayoutFoundry ArtifactLayout = "foundry"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	ConfigFile  string // absolute path of tokenfarm.yaml

	// Context settings
	Network *domain.Network

	// Resolved paths (absolute)
	BuildDir           string
	ArtifactsDir       string
	ArtifactLayout     ArtifactLayout
	DeploymentsDir     string
	FrontEndDir        string
	FrontEndConfigFile string
	KeystoreDir        string

	// Execution settings
	Debug          bool
	NonInteractive bool
	JSON           bool
	Timeout        time.Duration
	Confirmations  uint64

	// Resolved configurations
	Project       *ProjectConfig
	FoundryConfig *FoundryConfig // nil when the project has no foundry.toml
}

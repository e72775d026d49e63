package config

// FoundryConfig represents the parts of foundry.toml the tool reads
type FoundryConfig struct {
	Profile      map[string]ProfileConfig `toml:"profile"`
	RpcEndpoints map[string]string        `toml:"rpc_endpoints"`
}

// ProfileConfig represents a profile's foundry configuration
type ProfileConfig struct {
	SrcPath string `toml:"src,omitempty"`
	OutPath string `toml:"out,omitempty"`
}

// OutDir returns the artifact directory of the default profile
func (f *FoundryConfig) OutDir() string {
	if f == nil {
		return ""
	}
	if profile, ok := f.Profile["default"]; ok && profile.OutPath != "" {
		return profile.OutPath
	}
	return "out"
}

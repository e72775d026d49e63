package domain

// NetworkKind classifies how a network sources accounts and dependency contracts
type NetworkKind string

const (
	// NetworkLocal is a development chain started from a mnemonic
	NetworkLocal NetworkKind = "local"
	// NetworkForked is a local chain forked from a live network
	NetworkForked NetworkKind = "forked"
	// NetworkLive is a public network reached with a configured key
	NetworkLive NetworkKind = "live"
)

// Network is the resolved configuration of the active network
type Network struct {
	Name     string      `json:"name"`
	Kind     NetworkKind `json:"kind"`
	RPCURL   string      `json:"rpcUrl"`
	ChainID  uint64      `json:"chainId,omitempty"`
	Mnemonic string      `json:"-"`
	ForkURL  string      `json:"forkUrl,omitempty"`
	Launch   bool        `json:"launch"`
	Verify   bool        `json:"verify"`

	// Contracts maps contract keys (eth_usd_price_feed, ...) to live addresses
	Contracts map[string]string `json:"contracts,omitempty"`
}

// UsesDevAccounts reports whether accounts come from the node mnemonic
func (n *Network) UsesDevAccounts() bool {
	return n.Kind == NetworkLocal || n.Kind == NetworkForked
}

// UsesMocks reports whether external dependencies are replaced by mock contracts
func (n *Network) UsesMocks() bool {
	return n.UsesDevAccounts()
}

// AccountQuery selects the signing account
type AccountQuery struct {
	Index *int
	ID    string
}

// DeploymentFilter narrows deployment listings
type DeploymentFilter struct {
	ChainID      uint64
	ContractName string
}

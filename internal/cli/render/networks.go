package render

import (
	"fmt"
	"io"

	"github.com/nellarium/tokenfarm/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// RenderNetworksList renders the configured networks, marking the active one
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in tokenfarm.yaml")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := "  "
		if network.Active {
			marker = okStyle.Sprint("▶ ")
		}
		line := fmt.Sprintf("%s%-16s %s", marker, network.Name, labelStyle.Sprintf("%-7s", network.Kind))
		if network.ChainID != 0 {
			line += fmt.Sprintf(" Chain ID: %d", network.ChainID)
		}
		if network.Host != "" {
			line += labelStyle.Sprintf("  %s", network.Host)
		}
		if network.Verify {
			line += verifiedStyle.Sprint("  verify")
		}
		fmt.Fprintln(r.out, line)
	}

	return nil
}

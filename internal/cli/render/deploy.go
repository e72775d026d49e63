package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// DeployRenderer renders the outcome of deployment commands
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// RenderContract renders a single deployed contract
func (r *DeployRenderer) RenderContract(result *usecase.DeployContractResult) error {
	r.contractLine(result.Contract)
	if d := result.Deployment; d != nil {
		if d.TxHash != "" {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "tx:"), d.TxHash)
		}
		if d.Deployer != "" {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "deployer:"), d.Deployer)
		}
		if d.IsVerified() {
			fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "source:"), verifiedStyle.Sprint("verified"))
		}
	}
	return nil
}

// RenderFarm renders the farm deployment, its funding and allowed tokens
func (r *DeployRenderer) RenderFarm(result *usecase.DeployTokenFarmResult) error {
	headerStyle.Fprintln(r.out, "🚜 Token farm deployed")
	if err := r.RenderContract(result.Farm); err != nil {
		return err
	}
	r.contractLine(result.Token)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-10s", "funded:"), ether(result.Funding))

	if len(result.AllowedTokens) > 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "Allowed tokens:")
		t := newTable(r.out)
		for _, allowed := range result.AllowedTokens {
			t.AppendRow(table.Row{
				"  " + contractStyle.Sprint(allowed.Token.Name),
				addressStyle.Sprint(allowed.Token.Address.Hex()),
				labelStyle.Sprint("priced by " + allowed.PriceFeed.Address.Hex()),
			})
		}
		t.Render()
	}
	return nil
}

// RenderMocks renders the mock contracts
func (r *DeployRenderer) RenderMocks(result *usecase.DeployMocksResult) error {
	headerStyle.Fprintln(r.out, "🧪 Mocks deployed")
	r.contractLine(result.PriceFeed)
	r.contractLine(result.DAI)
	r.contractLine(result.WETH)
	return nil
}

// RenderContractKey renders a resolved contract key
func (r *DeployRenderer) RenderContractKey(key string, contract *models.Contract) error {
	fmt.Fprintf(r.out, "%s %s %s\n",
		headerStyle.Sprint(title(key)),
		addressStyle.Sprint(contract.Address.Hex()),
		labelStyle.Sprintf("(%s)", contract.Name))
	return nil
}

// RenderFrontEnd renders the paths written by a front-end update
func (r *DeployRenderer) RenderFrontEnd(result *usecase.UpdateFrontEndResult) error {
	fmt.Fprintln(r.out, FormatSuccess("Front end updated"))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-11s", "chain info:"), result.ChainInfoDir)
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-11s", "config:"), result.ConfigFile)
	return nil
}

func (r *DeployRenderer) contractLine(contract *models.Contract) {
	if contract == nil {
		return
	}
	fmt.Fprintf(r.out, "%s %s %s\n",
		okStyle.Sprint("✔"),
		contractStyle.Sprintf("%-18s", contract.Name),
		addressStyle.Sprint(contract.Address.Hex()))
}

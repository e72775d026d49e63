package render

import (
	"fmt"
	"io"
	"slices"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"

	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

var (
	chainHeader      = color.New(color.BgCyan, color.FgBlack)
	chainHeaderBold  = color.New(color.BgCyan, color.FgBlack, color.Bold)
	timestampStyle   = color.New(color.Faint)
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
	contractStyle    = color.New(color.FgGreen, color.Bold)
)

// DeploymentsRenderer renders deployment lists as one table per chain
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments grouped by chain
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult) error {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return nil
	}

	byChain := lo.GroupBy(result.Deployments, func(d *models.Deployment) uint64 { return d.ChainID })
	chainIDs := lo.Keys(byChain)
	slices.Sort(chainIDs)

	for i, chainID := range chainIDs {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		deployments := byChain[chainID]
		network := deployments[0].Network
		fmt.Fprintf(r.out, "%s%s\n",
			chainHeader.Sprint(" chain: "),
			chainHeaderBold.Sprintf("%d %s ", chainID, network))

		t := newTable(r.out)
		for _, d := range deployments {
			t.AppendRow(table.Row{
				contractStyle.Sprint(d.ContractName),
				addressStyle.Sprint(d.Address),
				verificationLabel(d),
				timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05")),
			})
		}
		t.Render()
	}

	fmt.Fprintf(r.out, "\nTotal: %d deployments\n", len(result.Deployments))
	return nil
}

// RenderPrune lists stale records and whether they were removed
func (r *DeploymentsRenderer) RenderPrune(result *usecase.PruneDeploymentsResult) error {
	if len(result.Stale) == 0 {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("No stale deployments on chain %d", result.ChainID)))
		return nil
	}

	fmt.Fprintf(r.out, "Deployments without code on chain %d:\n", result.ChainID)
	t := newTable(r.out)
	for _, d := range result.Stale {
		t.AppendRow(table.Row{"  " + d.ContractName, addressStyle.Sprint(d.Address)})
	}
	t.Render()

	if result.Pruned {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Removed %d records", len(result.Stale))))
	} else {
		fmt.Fprintln(r.out, FormatWarning("Dry run, nothing removed"))
	}
	return nil
}

func verificationLabel(d *models.Deployment) string {
	switch d.Verification {
	case models.VerificationStatusVerified:
		return verifiedStyle.Sprint("✔︎ verified")
	case models.VerificationStatusFailed:
		return notVerifiedStyle.Sprint("✗ failed")
	default:
		return timestampStyle.Sprint("-")
	}
}

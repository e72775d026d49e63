package render

import (
	"fmt"
	"io"
	"math/big"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// FarmRenderer renders farm transactions and status
type FarmRenderer struct {
	out io.Writer
}

// NewFarmRenderer creates a new farm renderer
func NewFarmRenderer(out io.Writer) *FarmRenderer {
	return &FarmRenderer{out: out}
}

// RenderStake renders the approve and stake transactions
func (r *FarmRenderer) RenderStake(result *usecase.StakeResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Staked %s of %s", usecase.FormatEther(result.Amount), tokenName(result.Token))))
	receiptLine(r.out, "approve", result.Approve)
	receiptLine(r.out, "stake", result.Stake)
	return nil
}

// RenderTx renders a single farm transaction
func (r *FarmRenderer) RenderTx(result *usecase.FarmTxResult) error {
	msg := result.Method
	if result.Token != nil {
		msg = fmt.Sprintf("%s %s", result.Method, tokenName(result.Token))
	}
	fmt.Fprintln(r.out, FormatSuccess(msg))
	receiptLine(r.out, "tx", result.Receipt)
	return nil
}

const noFeed = "no feed"

// RenderStatus renders the farm snapshot of one user
func (r *FarmRenderer) RenderStatus(result *usecase.FarmStatusResult) error {
	headerStyle.Fprintln(r.out, "🚜 Token farm")
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "farm:"), addressStyle.Sprint(result.Farm.Hex()))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "user:"), addressStyle.Sprint(result.User.Hex()))
	fmt.Fprintf(r.out, "  %s %s NEL\n", labelStyle.Sprintf("%-14s", "rewards:"), usecase.FormatEther(result.RewardBalance))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "tokens staked:"), intString(result.UniqueTokensStaked))
	fmt.Fprintf(r.out, "  %s %s\n", labelStyle.Sprintf("%-14s", "total value:"), dollars(result.TotalStakedValue))

	if len(result.Tokens) == 0 {
		fmt.Fprintln(r.out)
		fmt.Fprintln(r.out, "No allowed tokens")
		return nil
	}

	fmt.Fprintln(r.out)
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Token", "Address", "Price", "Staked", "Value"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	for _, token := range result.Tokens {
		t.AppendRow(table.Row{
			token.Symbol,
			token.Address.Hex(),
			price(token),
			usecase.FormatEther(token.Staked),
			dollars(token.StakedValue),
		})
	}
	t.Render()
	return nil
}

func price(token usecase.TokenStatus) string {
	if token.Price == nil {
		return warnStyle.Sprint(noFeed)
	}
	return "$" + scaled(token.Price, token.Decimals)
}

// dollars formats an 18-decimal USD value, nil when it cannot be priced
func dollars(value *big.Int) string {
	if value == nil {
		return "-"
	}
	return "$" + usecase.FormatEther(value)
}

// scaled formats a feed answer with its own decimals
func scaled(value, decimals *big.Int) string {
	if value == nil {
		return "0"
	}
	if decimals == nil || decimals.Cmp(big.NewInt(18)) == 0 {
		return usecase.FormatEther(value)
	}
	f := new(big.Float).SetInt(value)
	f.Quo(f, new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), decimals, nil)))
	return f.Text('f', 2)
}

func intString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func tokenName(token *models.Contract) string {
	if token == nil {
		return ""
	}
	return fmt.Sprintf("%s (%s)", token.Name, token.Address.Hex())
}

package render

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

var (
	labelStyle   = color.New(color.FgHiBlack)
	addressStyle = color.New(color.FgWhite)
	headerStyle  = color.New(color.FgCyan, color.Bold)
	okStyle      = color.New(color.FgGreen)
	warnStyle    = color.New(color.FgYellow)
	errStyle     = color.New(color.FgRed)
)

// RenderJSON writes v as indented JSON, used for --json output
func RenderJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return warnStyle.Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Capitalize first letter
	if len(message) > 0 {
		message = strings.ToUpper(message[:1]) + message[1:]
	}

	return errStyle.Sprintf("❌ %s", message)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return okStyle.Sprintf("✅ %s", message)
}

// title turns a key like "eth_usd_price_feed" into "Eth Usd Price Feed"
func title(s string) string {
	return cases.Title(language.English).String(strings.NewReplacer("_", " ", "-", " ").Replace(s))
}

// ether formats a wei amount with its unit
func ether(wei *big.Int) string {
	return usecase.FormatEther(wei) + " ETH"
}

func receiptLine(out io.Writer, label string, receipt *models.Receipt) {
	if receipt == nil {
		return
	}
	fmt.Fprintf(out, "  %s %s %s\n",
		labelStyle.Sprintf("%-10s", label+":"),
		addressStyle.Sprint(receipt.TxHash.Hex()),
		labelStyle.Sprintf("(block %d, gas %d)", receipt.BlockNumber, receipt.GasUsed))
}

// newTable returns a borderless table in the style of the deployment lists
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}

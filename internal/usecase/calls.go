package usecase

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"

	"github.com/nellarium/tokenfarm/internal/domain/models"
)

func callBigInt(ctx context.Context, chain ChainClient, contract *models.Contract, method string, args ...any) (*big.Int, error) {
	out, err := chain.Call(ctx, contract, method, args...)
	if err != nil {
		return nil, fmt.Errorf("%s.%s: %w", contract.Name, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s.%s returned no values", contract.Name, method)
	}
	value, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s.%s returned %T, expected uint256", contract.Name, method, out[0])
	}
	return value, nil
}

func callAddress(ctx context.Context, chain ChainClient, contract *models.Contract, method string, args ...any) (common.Address, error) {
	out, err := chain.Call(ctx, contract, method, args...)
	if err != nil {
		return common.Address{}, fmt.Errorf("%s.%s: %w", contract.Name, method, err)
	}
	if len(out) == 0 {
		return common.Address{}, fmt.Errorf("%s.%s returned no values", contract.Name, method)
	}
	value, ok := out[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("%s.%s returned %T, expected address", contract.Name, method, out[0])
	}
	return value, nil
}

func callString(ctx context.Context, chain ChainClient, contract *models.Contract, method string) (string, error) {
	out, err := chain.Call(ctx, contract, method)
	if err != nil {
		return "", fmt.Errorf("%s.%s: %w", contract.Name, method, err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("%s.%s returned no values", contract.Name, method)
	}
	value, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%s.%s returned %T, expected string", contract.Name, method, out[0])
	}
	return value, nil
}

// tokenLabel is the token's name(), or the artifact name when the call fails
func tokenLabel(ctx context.Context, chain ChainClient, token *models.Contract) string {
	if name, err := callString(ctx, chain, token, "name"); err == nil && name != "" {
		return name
	}
	return token.Name
}

// FormatEther renders a wei amount in ether without trailing zeros
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	ether := new(big.Int).SetUint64(params.Ether)
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	whole, frac := new(big.Int).QuoRem(abs, ether, new(big.Int))
	out := whole.String()
	if frac.Sign() != 0 {
		digits := frac.String()
		digits = strings.Repeat("0", 18-len(digits)) + digits
		out += "." + strings.TrimRight(digits, "0")
	}
	if neg {
		out = "-" + out
	}
	return out
}

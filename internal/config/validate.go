package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
)

var validate = validator.New()

// validateProject checks addresses and URLs of every configured network
func validateProject(cfg *config.ProjectConfig) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("invalid %s: %w", ProjectFileName, err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		problems = append(problems, formatFieldError(fieldError))
	}
	return fmt.Errorf("invalid %s: %s", ProjectFileName, strings.Join(problems, "; "))
}

func formatFieldError(fieldError validator.FieldError) string {
	field := strings.TrimPrefix(fieldError.Namespace(), "ProjectConfig.")
	switch fieldError.Tag() {
	case "eth_addr":
		return fmt.Sprintf("%s: %q is not an Ethereum address", field, fieldError.Value())
	case "url":
		return fmt.Sprintf("%s: %q is not a valid URL", field, fieldError.Value())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fieldError.Tag())
	}
}

// validateActiveNetwork checks what only matters for the selected network
func validateActiveNetwork(network *domain.Network) error {
	if network.RPCURL == "" {
		return fmt.Errorf("network %s has no host (set networks.%s.host or foundry.toml [rpc_endpoints])",
			network.Name, network.Name)
	}
	return nil
}

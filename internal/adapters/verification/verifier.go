package verification

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/domain/models"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// APIKeyEnv holds the block explorer API key
const APIKeyEnv = "ETHERSCAN_API_KEY"

// runner executes forge with args in dir, adding env to the inherited
// environment, and returns its combined output
type runner func(ctx context.Context, dir string, args, env []string) ([]byte, error)

func runForge(ctx context.Context, dir string, args, env []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "forge", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	return cmd.CombinedOutput()
}

// ForgeVerifier publishes contract sources through forge verify-contract
type ForgeVerifier struct {
	projectRoot string
	run         runner
	log         *slog.Logger
}

// NewForgeVerifier creates a verifier running forge from the project root
func NewForgeVerifier(cfg *config.RuntimeConfig, log *slog.Logger) *ForgeVerifier {
	return &ForgeVerifier{
		projectRoot: cfg.ProjectRoot,
		run:         runForge,
		log:         log.With("component", "verification"),
	}
}

// Verify publishes the source of a deployment on Etherscan
func (v *ForgeVerifier) Verify(ctx context.Context, deployment *models.Deployment) error {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return fmt.Errorf("%s is not set", APIKeyEnv)
	}
	if deployment.SourcePath == "" {
		return fmt.Errorf("no source path recorded for %s", deployment.ContractName)
	}

	// ETHERSCAN_API_KEY goes through the environment, never argv
	args := buildVerifyArgs(deployment)
	v.log.Debug("verifying", "contract", deployment.ContractName, "address", deployment.Address)

	output, err := v.run(ctx, v.projectRoot, args, []string{APIKeyEnv + "=" + apiKey})
	outputStr := strings.TrimSpace(string(output))
	if alreadyVerified(outputStr) {
		// Contract is already verified, not an error
		return nil
	}
	if err != nil {
		return fmt.Errorf("verification failed: %s", outputStr)
	}

	// Check if verification was successful
	if strings.Contains(outputStr, "Contract successfully verified") {
		return nil
	}
	return fmt.Errorf("verification status unclear: %s", outputStr)
}

func alreadyVerified(output string) bool {
	return strings.Contains(output, "Already Verified") ||
		strings.Contains(output, "is already verified") ||
		strings.Contains(output, "already verified")
}

// buildVerifyArgs builds the forge verify-contract args for Etherscan
func buildVerifyArgs(deployment *models.Deployment) []string {
	constructorArgs := strings.TrimPrefix(deployment.ConstructorArgs, "0x")
	contractPath := fmt.Sprintf("%s:%s", deployment.SourcePath, deployment.ContractName)

	args := []string{
		"verify-contract",
		deployment.Address,
		contractPath,
		"--chain-id", strconv.FormatUint(deployment.ChainID, 10),
		"--watch",
	}

	if deployment.CompilerVersion != "" {
		args = append(args, "--compiler-version", deployment.CompilerVersion)
	}
	if constructorArgs != "" {
		args = append(args, "--constructor-args", constructorArgs)
	}

	return args
}

// Ensure the verifier implements the interface
var _ usecase.ContractVerifier = (*ForgeVerifier)(nil)

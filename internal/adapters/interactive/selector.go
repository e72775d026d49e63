package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/nellarium/tokenfarm/internal/domain"
	"github.com/nellarium/tokenfarm/internal/domain/config"
	"github.com/nellarium/tokenfarm/internal/usecase"
)

// SelectorAdapter handles interactive selection and secret input
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// Select asks the user to pick one of items and returns its index
func (s *SelectorAdapter) Select(ctx context.Context, label string, items []string) (int, error) {
	// In non-interactive mode, we can't select
	if s.config.NonInteractive {
		return 0, domain.ErrInteractiveDisabled
	}

	if len(items) == 0 {
		return 0, fmt.Errorf("no options provided for selection")
	}

	// If only one option, return it directly
	if len(items) == 1 {
		return 0, nil
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             label,
		Items:             items,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(items),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return 0, fmt.Errorf("selection cancelled: %w", err)
	}

	return index, nil
}

// Passphrase reads a secret without echoing it
func (s *SelectorAdapter) Passphrase(ctx context.Context, label string) (string, error) {
	if s.config.NonInteractive {
		return "", domain.ErrInteractiveDisabled
	}

	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
	}

	secret, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("passphrase prompt cancelled: %w", err)
	}
	return secret, nil
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		// Empty search shows all items
		if input == "" {
			return true
		}

		// Convert to lowercase for case-insensitive search
		input = strings.ToLower(input)
		item := strings.ToLower(items[index])

		// First try simple substring match
		if strings.Contains(item, input) {
			return true
		}

		// Then try fuzzy match
		pattern := fuzzy.Find(input, []string{item})
		return len(pattern) > 0
	}
}

// Ensure the adapter implements the interface
var _ usecase.InteractiveSelector = (*SelectorAdapter)(nil)

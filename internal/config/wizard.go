package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to the given path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to klemmenplan! Let's configure the service.")
	fmt.Println()

	if os.Getenv(APIKeyEnvVar) == "" {
		fmt.Printf("Note: %s is not set. The server will start but requests will fail until it is.\n\n", APIKeyEnvVar)
	}

	cfg := DefaultConfig()

	// 1. Assistant for document analysis.
	analyzePrompt := promptui.Prompt{
		Label: "Analyze assistant ID (asst_...)",
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("assistant ID is required")
			}
			return nil
		},
	}
	analyzeID, err := analyzePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("analyze assistant prompt: %w", err)
	}
	cfg.AnalyzeAssistantID = strings.TrimSpace(analyzeID)

	// 2. Assistant for follow-up chat.
	chatPrompt := promptui.Prompt{
		Label:   "Chat assistant ID (asst_...)",
		Default: cfg.AnalyzeAssistantID,
	}
	chatID, err := chatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chat assistant prompt: %w", err)
	}
	cfg.ChatAssistantID = strings.TrimSpace(chatID)

	// 3. Upload limit.
	maxFilesPrompt := promptui.Prompt{
		Label:   "Maximum files per analyze request",
		Default: strconv.Itoa(cfg.MaxFiles),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 {
				return fmt.Errorf("must be a positive number")
			}
			return nil
		},
	}
	maxFiles, err := maxFilesPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("max files prompt: %w", err)
	}
	cfg.MaxFiles, _ = strconv.Atoi(maxFiles)

	// 4. Strict table validation.
	strictPrompt := promptui.Select{
		Label: "Table validation",
		Items: []string{"shallow (accept any controller/rows shape)", "strict (enforce enums on every row)"},
	}
	idx, _, err := strictPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("strictness selection: %w", err)
	}
	cfg.StrictTable = idx == 1

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Save(path); err != nil {
		return nil, err
	}

	fmt.Printf("\nConfiguration written to %s\n", path)
	return cfg, nil
}

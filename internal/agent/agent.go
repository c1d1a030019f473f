package agent

import (
	"context"
	"fmt"
	"os"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"github.com/spf13/cobra"
)

const (
	defaultModel        = "claude-haiku-4-5"
	defaultSystemPrompt = "You are a helpful study advisor for Fagskolen i Viken, a Norwegian vocational college. You have access to tools that query the local study catalog database: program titles and categories, per-program fields, course codes and fields, and campus locations. Use these tools to give accurate, data-backed answers about the college's study programs. Answer in the language the question was asked in."
)

// DBInterface is the read-only catalog surface the agent tools run against.
// It mirrors the cmd package's interface so the CLI's database initializer
// can be passed straight through.
type DBInterface interface {
	CountPrograms() (int, error)
	ProgramCategories() ([]string, error)
	ProgramNames(category string) ([]string, error)
	ProgramFields() ([]string, error)
	ProgramFieldValues(title string, fields []string) (map[string]any, error)
	ProgramCourseIDs(title string) ([]string, error)
	CountCourses() (int, error)
	CourseTitles() ([]string, error)
	CourseIDsByTitle(title string) ([]string, error)
	CourseFields() ([]string, error)
	CourseFieldValues(courseID string, fields []string) (map[string]any, error)
	LocationName(locationID int) (string, error)
	Close() error
}

// InitDBFunc opens the database for one tool invocation.
type InitDBFunc func(dataDir string) (DBInterface, func(), error)

// AgentConfig holds the configuration for creating an ask agent
type AgentConfig struct {
	apiKey       string
	model        string
	systemPrompt string
	dataDir      string
	exclusions   []string
	initDB       InitDBFunc
}

// AgentOption is a functional option for configuring the agent
type AgentOption func(*AgentConfig) error

// WithAPIKey sets the Anthropic API key
func WithAPIKey(apiKey string) AgentOption {
	return func(c *AgentConfig) error {
		if apiKey == "" {
			return fmt.Errorf("API key cannot be empty")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithAPIKeyFromEnv sets the API key from the ANTHROPIC_API_KEY environment variable
func WithAPIKeyFromEnv() AgentOption {
	return func(c *AgentConfig) error {
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
		c.apiKey = apiKey
		return nil
	}
}

// WithModel sets the Claude model to use (default: claude-haiku-4-5)
func WithModel(model string) AgentOption {
	return func(c *AgentConfig) error {
		if model == "" {
			return fmt.Errorf("model cannot be empty")
		}
		c.model = model
		return nil
	}
}

// WithSystemPrompt sets a custom system prompt
func WithSystemPrompt(prompt string) AgentOption {
	return func(c *AgentConfig) error {
		c.systemPrompt = prompt
		return nil
	}
}

// WithDataDir sets the data directory for database operations
func WithDataDir(dataDir string) AgentOption {
	return func(c *AgentConfig) error {
		c.dataDir = dataDir
		return nil
	}
}

// WithToolExclusions sets command names to exclude from tool generation
func WithToolExclusions(exclusions []string) AgentOption {
	return func(c *AgentConfig) error {
		c.exclusions = exclusions
		return nil
	}
}

// WithDBInitializer sets the database initialization function
func WithDBInitializer(initDB InitDBFunc) AgentOption {
	return func(c *AgentConfig) error {
		c.initDB = initDB
		return nil
	}
}

// NewAskAgent creates a Fantasy agent configured for answering questions
// about the study catalog, with one tool per read-only CLI command. Mutating
// and interactive commands (scrape, load, serve, ask itself) and the raw SQL
// surface are excluded by default.
func NewAskAgent(rootCmd *cobra.Command, opts ...AgentOption) (fantasy.Agent, error) {
	config := &AgentConfig{
		model:        defaultModel,
		systemPrompt: defaultSystemPrompt,
		exclusions:   []string{"serve", "ask", "scrape", "load", "query", "summarize", "schema"},
	}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if config.apiKey == "" {
		return nil, fmt.Errorf("API key is required (use WithAPIKey or WithAPIKeyFromEnv)")
	}
	if config.initDB == nil {
		return nil, fmt.Errorf("database initializer is required (use WithDBInitializer)")
	}

	provider, err := anthropic.New(anthropic.WithAPIKey(config.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Anthropic provider: %w", err)
	}

	ctx := context.Background()

	model, err := provider.LanguageModel(ctx, config.model)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Claude model: %w", err)
	}

	agentTools := CreateToolsFromCommands(
		rootCmd,
		config.dataDir,
		config.exclusions,
		config.initDB,
	)

	agent := fantasy.NewAgent(
		model,
		fantasy.WithSystemPrompt(config.systemPrompt),
		fantasy.WithTools(agentTools...),
	)

	return agent, nil
}

// GenerateResponse is a convenience function that creates an agent and generates a response in one call
func GenerateResponse(ctx context.Context, question string, rootCmd *cobra.Command, opts ...AgentOption) (string, error) {
	agent, err := NewAskAgent(rootCmd, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create agent: %w", err)
	}

	result, err := agent.Generate(ctx, fantasy.AgentCall{Prompt: question})
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}

	return result.Response.Content.Text(), nil
}

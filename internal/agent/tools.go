package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"github.com/spf13/cobra"
)

// CreateToolsFromCommands creates Fantasy tools from all registered Cobra commands
// except for the specified exclusions (e.g., "serve", "ask")
func CreateToolsFromCommands(rootCmd *cobra.Command, dataDir string, exclusions []string, initDB InitDBFunc) []fantasy.AgentTool {
	var tools []fantasy.AgentTool

	for _, cobraCmd := range rootCmd.Commands() {
		skip := false
		for _, excl := range exclusions {
			if cobraCmd.Use == excl || strings.HasPrefix(cobraCmd.Use, excl) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		tool := createToolForCommand(cobraCmd, dataDir, initDB)
		if tool != nil {
			tools = append(tools, tool)
		}
	}

	return tools
}

// createToolForCommand creates a Fantasy tool from a Cobra command. The tool
// calls the database accessors directly rather than re-entering Cobra.
func createToolForCommand(cobraCmd *cobra.Command, dataDir string, initDB InitDBFunc) fantasy.AgentTool {
	cmdName := strings.Split(cobraCmd.Use, " ")[0]

	description := cobraCmd.Short
	if description == "" {
		description = fmt.Sprintf("Execute the %s command", cmdName)
	}

	toolFunc := func(ctx context.Context, params map[string]any) (string, error) {
		db, cleanup, err := initDB(dataDir)
		if err != nil {
			return "", fmt.Errorf("failed to initialize database: %v", err)
		}
		defer cleanup()

		result, err := executeTool(db, cmdName, params)
		if err != nil {
			return "", err
		}

		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to encode result as JSON: %v", err)
		}
		return string(jsonBytes), nil
	}

	return &commandTool{
		name:        cmdName,
		description: description,
		run:         toolFunc,
	}
}

// commandTool implements fantasy.AgentTool with the hand-written JSON schema
// from toolParameters, which fantasy.NewAgentTool's reflection-based schema
// generation cannot express for map-typed inputs.
type commandTool struct {
	name            string
	description     string
	run             func(ctx context.Context, params map[string]any) (string, error)
	providerOptions fantasy.ProviderOptions
}

func (t *commandTool) Info() fantasy.ToolInfo {
	schema := toolParameters(t.name)
	properties, _ := schema["properties"].(map[string]any)
	required, _ := schema["required"].([]string)
	if required == nil {
		required = []string{}
	}
	return fantasy.ToolInfo{
		Name:        t.name,
		Description: t.description,
		Parameters:  properties,
		Required:    required,
	}
}

func (t *commandTool) Run(ctx context.Context, call fantasy.ToolCall) (fantasy.ToolResponse, error) {
	params := map[string]any{}
	if call.Input != "" {
		if err := json.Unmarshal([]byte(call.Input), &params); err != nil {
			return fantasy.NewTextErrorResponse(fmt.Sprintf("invalid parameters: %s", err)), nil
		}
	}
	result, err := t.run(ctx, params)
	if err != nil {
		return fantasy.ToolResponse{}, err
	}
	return fantasy.NewTextResponse(result), nil
}

func (t *commandTool) ProviderOptions() fantasy.ProviderOptions { return t.providerOptions }

func (t *commandTool) SetProviderOptions(opts fantasy.ProviderOptions) { t.providerOptions = opts }

// executeTool dispatches one tool call to the matching database accessor.
func executeTool(db DBInterface, cmdName string, params map[string]any) (any, error) {
	switch cmdName {
	case "program-count":
		return db.CountPrograms()

	case "categories":
		return db.ProgramCategories()

	case "programs":
		category := ""
		if c, ok := params["category"].(string); ok {
			category = c
		}
		return db.ProgramNames(category)

	case "program-fields":
		return db.ProgramFields()

	case "program":
		title, ok := params["title"].(string)
		if !ok || title == "" {
			return nil, fmt.Errorf("title parameter is required")
		}
		fields, err := stringSliceParam(params, "fields")
		if err != nil {
			return nil, err
		}
		return db.ProgramFieldValues(title, fields)

	case "program-courses":
		title, ok := params["title"].(string)
		if !ok || title == "" {
			return nil, fmt.Errorf("title parameter is required")
		}
		return db.ProgramCourseIDs(title)

	case "course-count":
		return db.CountCourses()

	case "courses":
		return db.CourseTitles()

	case "course-ids":
		title, ok := params["title"].(string)
		if !ok || title == "" {
			return nil, fmt.Errorf("title parameter is required")
		}
		return db.CourseIDsByTitle(title)

	case "course-fields":
		return db.CourseFields()

	case "course":
		courseID, ok := params["course_id"].(string)
		if !ok || courseID == "" {
			return nil, fmt.Errorf("course_id parameter is required")
		}
		fields, err := stringSliceParam(params, "fields")
		if err != nil {
			return nil, err
		}
		return db.CourseFieldValues(courseID, fields)

	case "location":
		id, ok := params["location_id"].(float64)
		if !ok {
			return nil, fmt.Errorf("location_id parameter is required")
		}
		return db.LocationName(int(id))

	default:
		return nil, fmt.Errorf("unsupported command: %s", cmdName)
	}
}

// stringSliceParam reads a required JSON string array parameter.
func stringSliceParam(params map[string]any, name string) ([]string, error) {
	raw, ok := params[name].([]any)
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("%s parameter is required", name)
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%s must be an array of strings", name)
		}
		out = append(out, s)
	}
	return out, nil
}

// toolParameters returns the JSON schema for a tool's parameters.
func toolParameters(cmdName string) map[string]any {
	titleParam := map[string]any{
		"type":        "string",
		"description": "Exact title of the study program",
	}

	switch cmdName {
	case "programs":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "Optional study category filter; omit to list every program",
				},
			},
		}
	case "program":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": titleParam,
				"fields": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Program fields to return, from the program-fields tool",
				},
			},
			"required": []string{"title", "fields"},
		}
	case "program-courses":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": titleParam,
			},
			"required": []string{"title"},
		}
	case "course-ids":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Exact title of the course",
				},
			},
			"required": []string{"title"},
		}
	case "course":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_id": map[string]any{
					"type":        "string",
					"description": "External course code, e.g. 00TE01A",
				},
				"fields": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Course fields to return, from the course-fields tool",
				},
			},
			"required": []string{"course_id", "fields"},
		}
	case "location":
		return map[string]any{
			"type": "object",
			"properties": map[string]any{
				"location_id": map[string]any{
					"type":        "integer",
					"description": "Numeric location id from a program's location_id field",
				},
			},
			"required": []string{"location_id"},
		}
	default:
		// program-count, categories, program-fields, course-count,
		// courses, course-fields take no parameters.
		return map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		}
	}
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	"immobiliare-core/internal/domain/repository"
)

const (
	ToolListTables         = "list_tables"
	ToolTableSchema        = "get_table_schema"
	ToolRunQuery           = "run_sql_query"
	ToolPropertyDetails    = "get_property_details"
	ToolSimilarProperties  = "search_similar_properties"
	defaultSimilarityLimit = 5
)

// Toolbox exposes the property database (and, when configured, the vector
// index) as functions the model can call.
type Toolbox struct {
	catalog  repository.PropertyCatalog
	embedder repository.Embedder
	index    repository.PropertyIndex
}

// NewToolbox wires the tools. Semantic search is offered only when both the
// embedder and the index are non-nil.
func NewToolbox(catalog repository.PropertyCatalog, embedder repository.Embedder, index repository.PropertyIndex) *Toolbox {
	return &Toolbox{
		catalog:  catalog,
		embedder: embedder,
		index:    index,
	}
}

func (t *Toolbox) semanticSearch() bool {
	return t.embedder != nil && t.index != nil
}

func (t *Toolbox) Definitions() []openai.ChatCompletionToolParam {
	defs := []openai.ChatCompletionToolParam{
		tool(ToolListTables, "Lists the tables of the property database.", nil, nil),
		tool(ToolTableSchema, "Returns the CREATE statement of a table.",
			map[string]any{"table_name": map[string]any{"type": "string", "description": "Table to describe"}},
			[]string{"table_name"}),
		tool(ToolRunQuery, "Runs a single read-only SQLite SELECT and returns the rows as JSON (max 50 rows).",
			map[string]any{"query": map[string]any{"type": "string", "description": "SQL SELECT statement"}},
			[]string{"query"}),
		tool(ToolPropertyDetails, "Retrieves full details for a property id, including all its images.",
			map[string]any{"property_id": map[string]any{"type": "string"}},
			[]string{"property_id"}),
	}
	if t.semanticSearch() {
		defs = append(defs, tool(ToolSimilarProperties, "Finds properties whose description is semantically close to a free-text request.",
			map[string]any{
				"query": map[string]any{"type": "string", "description": "What the user is looking for"},
				"limit": map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			},
			[]string{"query"}))
	}
	return defs
}

func tool(name, description string, props map[string]any, required []string) openai.ChatCompletionToolParam {
	if props == nil {
		props = map[string]any{}
	}
	params := openai.FunctionParameters{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		params["required"] = required
	}
	return openai.ChatCompletionToolParam{
		Function: openai.FunctionDefinitionParam{
			Name:        name,
			Description: openai.String(description),
			Parameters:  params,
		},
	}
}

type toolArgs struct {
	TableName  string `json:"table_name"`
	Query      string `json:"query"`
	PropertyID string `json:"property_id"`
	Limit      int    `json:"limit"`
}

// Call runs one tool and returns its JSON answer. Failures are reported to
// the model as {"error": ...} so it can correct itself.
func (t *Toolbox) Call(ctx context.Context, name, arguments string) string {
	var args toolArgs
	if strings.TrimSpace(arguments) != "" {
		if err := json.Unmarshal([]byte(arguments), &args); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
	}

	result, err := t.dispatch(ctx, name, args)
	if err != nil {
		log.Warn().Err(err).Str("component", "AGENT").Str("tool", name).Msg("tool call failed")
		return toolError(err)
	}
	b, err := json.Marshal(result)
	if err != nil {
		return toolError(err)
	}
	return string(b)
}

func (t *Toolbox) dispatch(ctx context.Context, name string, args toolArgs) (any, error) {
	switch name {
	case ToolListTables:
		return t.catalog.ListTables(ctx)
	case ToolTableSchema:
		return t.catalog.TableSchema(ctx, args.TableName)
	case ToolRunQuery:
		return t.catalog.RunQuery(ctx, args.Query)
	case ToolPropertyDetails:
		return t.catalog.PropertyDetails(ctx, args.PropertyID)
	case ToolSimilarProperties:
		if !t.semanticSearch() {
			return nil, fmt.Errorf("tool %s is not enabled", name)
		}
		limit := args.Limit
		if limit <= 0 || limit > 10 {
			limit = defaultSimilarityLimit
		}
		vector, err := t.embedder.CreateEmbedding(ctx, args.Query)
		if err != nil {
			return nil, err
		}
		return t.index.Search(ctx, vector, limit)
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
}

func toolError(err error) string {
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(b)
}

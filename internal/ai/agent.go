package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-ledger/internal/core"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
)

// AgentService turns a free-text description of a stock movement into a
// structured sale or purchase proposal.
type AgentService interface {
	InterpretEntry(ctx context.Context, naturalLanguage string, catalog string) (*core.EntryResponse, error)
}

type Agent struct {
	client *openai.Client
}

func NewAgent(apiKey string) *Agent {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Agent{client: &client}
}

// InterpretEntry asks the model to map the described event onto the product
// catalog. The response is constrained by a JSON schema generated from
// core.EntryResponse, so the output is either a proposal or a clarification
// request, never free prose.
func (a *Agent) InterpretEntry(ctx context.Context, naturalLanguage string, catalog string) (*core.EntryResponse, error) {
	prompt := fmt.Sprintf(`You are the data-entry assistant of a small-business inventory tracker.
Your goal is to interpret a stock movement described in natural language and propose a single sale or purchase entry.
Rules:
1. The product_name MUST be copied exactly from the catalog below.
2. A sale removes stock; a purchase adds stock and needs a per-unit cost.
3. Quantities and costs must be decimal strings (e.g. "4" or "2.50").
4. Never propose a sale larger than the product's listed stock.
5. If the product, quantity, or (for purchases) unit cost is unclear, ask for clarification instead of guessing.
6. Provide a confidence score (0.0-1.0) and explain your reasoning.

Product catalog (name | stock | selling price):
%s

Event: %s`, catalog, naturalLanguage)

	schemaStruct := generateSchema()
	schemaJSON, err := json.Marshal(schemaStruct)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "inventory_entry_proposal",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("A proposal for a single inventory sale or purchase entry"),
				},
			},
		},
	}

	resp, err := a.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var response core.EntryResponse
	if err := json.Unmarshal([]byte(content), &response); err != nil {
		return nil, fmt.Errorf("failed to parse completion: %w", err)
	}

	if response.IsClarificationRequest {
		if response.Clarification == nil {
			return nil, fmt.Errorf("clarification requested without a message")
		}
		return &response, nil
	}
	if response.Entry == nil {
		return nil, fmt.Errorf("response carries neither an entry nor a clarification")
	}

	response.Entry.Normalize()
	if err := response.Entry.Validate(); err != nil {
		return nil, fmt.Errorf("entry validation failed: %w", err)
	}

	return &response, nil
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v core.EntryResponse
	return reflector.Reflect(v)
}

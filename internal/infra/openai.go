package infra

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
)

// OpenAIClient sends single-turn prompts through the Responses API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	o := &OpenAIClient{model: model}
	if apiKey == "" {
		return o
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	o.client = &client
	return o
}

func (o *OpenAIClient) Name() string { return ProviderOpenAI }

func (o *OpenAIClient) Ready() error {
	if o.client == nil {
		return ErrAIKeyMissing
	}
	return nil
}

func (o *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if err := o.Ready(); err != nil {
		return "", err
	}
	resp, err := o.client.Responses.New(ctx, responses.ResponseNewParams{
		Model: shared.ResponsesModel(o.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai: responses: %w", err)
	}
	content := resp.OutputText()
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}

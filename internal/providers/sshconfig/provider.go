package sshconfig

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmluang/xTerm/internal/providers/hosts"
	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes ssh_config generation and import scanning as the
// "sshconfig" service.
type Provider struct {
	generator *Generator
	scanner   *Scanner
}

func NewProvider(generator *Generator, scanner *Scanner) *Provider {
	return &Provider{generator: generator, scanner: scanner}
}

// Generator returns the underlying generator.
func (p *Provider) Generator() *Generator {
	return p.generator
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "sshconfig",
		Name:         "SSH Config",
		Description:  "ssh_config generation and ~/.ssh/config import",
		Category:     types.CategorySystem,
		Capabilities: []string{"generate", "scan"},
		Tools: []types.Tool{
			{
				ID:          "sshconfig.generate",
				Name:        "Generate Config",
				Description: "Render a host list into the managed ssh_config file",
				Parameters: []types.Parameter{
					{Name: "hosts", Type: "array", Description: "Hosts to render", Required: true},
				},
				Returns: "nothing",
			},
			{
				ID:          "sshconfig.scan",
				Name:        "Scan Importable Hosts",
				Description: "Find concrete Host blocks in the user's ssh configuration",
				Returns:     "candidate list",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "sshconfig.generate":
		raw, ok := params["hosts"]
		if !ok {
			return types.Failure("hosts is required"), errors.New("hosts is required")
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return types.Failure(err.Error()), fmt.Errorf("encode hosts: %w", err)
		}
		var list []hosts.Host
		if err := json.Unmarshal(encoded, &list); err != nil {
			return types.Failure(err.Error()), fmt.Errorf("decode hosts: %w", err)
		}
		if err := p.generator.WriteConfig(list); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil

	case "sshconfig.scan":
		candidates, err := p.scanner.Scan()
		if err != nil {
			return types.Failure(err.Error()), err
		}
		if candidates == nil {
			candidates = []Candidate{}
		}
		return types.Ok(map[string]interface{}{"candidates": candidates}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

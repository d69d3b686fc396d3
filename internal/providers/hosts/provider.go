package hosts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes the host store as the "hosts" service.
type Provider struct {
	store  *Store
	config ConfigWriter
}

// NewProvider wraps a store. config may be nil when ssh_config
// regeneration is not wanted.
func NewProvider(store *Store, config ConfigWriter) *Provider {
	return &Provider{store: store, config: config}
}

// Store returns the underlying host store.
func (p *Provider) Store() *Store {
	return p.store
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "hosts",
		Name:         "Host Store",
		Description:  "Saved SSH hosts in a local SQLite database",
		Category:     types.CategoryStorage,
		Capabilities: []string{"load", "save"},
		Tools: []types.Tool{
			{
				ID:          "hosts.load",
				Name:        "Load Hosts",
				Description: "Load all saved hosts",
				Returns:     "host list",
			},
			{
				ID:          "hosts.save",
				Name:        "Save Hosts",
				Description: "Replace the saved host list and regenerate ssh_config",
				Parameters: []types.Parameter{
					{Name: "hosts", Type: "array", Description: "Full host list", Required: true},
				},
				Returns: "nothing",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "hosts.load":
		return p.load()
	case "hosts.save":
		return p.save(params)
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) load() (*types.Result, error) {
	hosts, err := p.store.Load()
	if err != nil {
		return types.Failure(err.Error()), err
	}
	return types.Ok(map[string]interface{}{"hosts": hosts}), nil
}

func (p *Provider) save(params map[string]interface{}) (*types.Result, error) {
	raw, ok := params["hosts"]
	if !ok {
		return types.Failure("hosts is required"), errors.New("hosts is required")
	}

	// Round-trip through JSON so frontend payloads and typed hosts share
	// one decoding path.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return types.Failure(err.Error()), fmt.Errorf("encode hosts: %w", err)
	}
	var hosts []Host
	if err := json.Unmarshal(encoded, &hosts); err != nil {
		return types.Failure(err.Error()), fmt.Errorf("decode hosts: %w", err)
	}

	if err := p.store.Replace(hosts); err != nil {
		return types.Failure(err.Error()), err
	}
	if p.config != nil {
		if err := p.config.WriteConfig(hosts); err != nil {
			return types.Failure(err.Error()), err
		}
	}
	return types.Ok(map[string]interface{}{"saved": len(hosts)}), nil
}

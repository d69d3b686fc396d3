package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes settings persistence as the "settings" service.
type Provider struct {
	store *Store
}

func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

// Store returns the underlying settings store.
func (p *Provider) Store() *Store {
	return p.store
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "settings",
		Name:         "Settings",
		Description:  "Application settings persistence",
		Category:     types.CategorySystem,
		Capabilities: []string{"load", "save", "export", "import"},
		Tools: []types.Tool{
			{
				ID:          "settings.load",
				Name:        "Load Settings",
				Description: "Load current settings",
				Returns:     "settings object",
			},
			{
				ID:          "settings.save",
				Name:        "Save Settings",
				Description: "Persist settings",
				Parameters: []types.Parameter{
					{Name: "settings", Type: "object", Description: "Settings to save", Required: true},
				},
				Returns: "nothing",
			},
			{
				ID:          "settings.export",
				Name:        "Export Settings",
				Description: "Serialize settings as json, yaml or toml",
				Parameters: []types.Parameter{
					{Name: "format", Type: "string", Description: "json|yaml|toml (default json)"},
				},
				Returns: "serialized settings",
			},
			{
				ID:          "settings.import",
				Name:        "Import Settings",
				Description: "Parse and persist settings from json, yaml or toml",
				Parameters: []types.Parameter{
					{Name: "content", Type: "string", Description: "Serialized settings", Required: true},
					{Name: "format", Type: "string", Description: "json|yaml|toml (default json)"},
				},
				Returns: "imported settings",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "settings.load":
		settings, err := p.store.Load()
		if err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(map[string]interface{}{"settings": settings}), nil

	case "settings.save":
		raw, ok := params["settings"]
		if !ok {
			return types.Failure("settings is required"), errors.New("settings is required")
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return types.Failure(err.Error()), fmt.Errorf("encode settings: %w", err)
		}
		var settings Settings
		if err := json.Unmarshal(encoded, &settings); err != nil {
			return types.Failure(err.Error()), fmt.Errorf("decode settings: %w", err)
		}
		if err := p.store.Save(settings); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil

	case "settings.export":
		format, _ := params["format"].(string)
		settings, err := p.store.Load()
		if err != nil {
			return types.Failure(err.Error()), err
		}
		out, err := Export(settings, format)
		if err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(map[string]interface{}{"content": out}), nil

	case "settings.import":
		content, ok := params["content"].(string)
		if !ok {
			return types.Failure("content is required"), errors.New("content is required")
		}
		format, _ := params["format"].(string)
		settings, err := Import(content, format)
		if err != nil {
			return types.Failure(err.Error()), err
		}
		if err := p.store.Save(settings); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(map[string]interface{}{"settings": settings}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

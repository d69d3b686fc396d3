package webdav

import (
	"context"
	"fmt"

	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes WebDAV sync as the "sync" service.
type Provider struct {
	syncer *Syncer
}

func NewProvider(syncer *Syncer) *Provider {
	return &Provider{syncer: syncer}
}

// Syncer returns the underlying syncer.
func (p *Provider) Syncer() *Syncer {
	return p.syncer
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "sync",
		Name:         "WebDAV Sync",
		Description:  "Host database sync against a WebDAV server",
		Category:     types.CategorySync,
		Capabilities: []string{"pull", "push"},
		Tools: []types.Tool{
			{
				ID:          "sync.pull",
				Name:        "Pull",
				Description: "Replace local hosts with the remote copy",
				Returns:     "nothing",
			},
			{
				ID:          "sync.push",
				Name:        "Push",
				Description: "Upload local hosts to the remote server",
				Returns:     "nothing",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "sync.pull":
		if err := p.syncer.Pull(ctx); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil
	case "sync.push":
		if err := p.syncer.Push(ctx); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

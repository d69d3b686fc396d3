package credentials

import (
	"context"
	"fmt"

	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes the credential store as the "credentials" service.
type Provider struct {
	store *Store
}

func NewProvider(store *Store) *Provider {
	return &Provider{store: store}
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "credentials",
		Name:         "Host Credentials",
		Description:  "Per-host passwords in the OS credential store",
		Category:     types.CategorySecurity,
		Capabilities: []string{"get", "set", "delete"},
		Tools: []types.Tool{
			{
				ID:          "credentials.get",
				Name:        "Get Password",
				Description: "Fetch the stored password for a host",
				Parameters: []types.Parameter{
					{Name: "hostId", Type: "string", Description: "Host identifier", Required: true},
				},
				Returns: "password or null",
			},
			{
				ID:          "credentials.set",
				Name:        "Set Password",
				Description: "Store a password for a host (blank deletes)",
				Parameters: []types.Parameter{
					{Name: "hostId", Type: "string", Description: "Host identifier", Required: true},
					{Name: "password", Type: "string", Description: "Password to store"},
				},
				Returns: "nothing",
			},
			{
				ID:          "credentials.delete",
				Name:        "Delete Password",
				Description: "Remove the stored password for a host",
				Parameters: []types.Parameter{
					{Name: "hostId", Type: "string", Description: "Host identifier", Required: true},
				},
				Returns: "nothing",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	hostID, _ := params["hostId"].(string)

	switch toolID {
	case "credentials.get":
		pw, err := p.store.Get(hostID)
		if err != nil {
			return types.Failure(err.Error()), err
		}
		if pw == "" {
			return types.Ok(map[string]interface{}{"password": nil}), nil
		}
		return types.Ok(map[string]interface{}{"password": pw}), nil

	case "credentials.set":
		password, _ := params["password"].(string)
		if err := p.store.Set(hostID, password); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil

	case "credentials.delete":
		if err := p.store.Delete(hostID); err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(nil), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

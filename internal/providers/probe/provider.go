package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmluang/xTerm/internal/providers/hosts"
	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes remote probing as the "probe" service.
type Provider struct {
	prober *Prober
}

func NewProvider(prober *Prober) *Provider {
	return &Provider{prober: prober}
}

func (p *Provider) Definition() types.Service {
	hostParam := types.Parameter{Name: "host", Type: "object", Description: "Host to probe", Required: true}
	return types.Service{
		ID:           "probe",
		Name:         "Host Probe",
		Description:  "Remote host facts and utilization over ssh",
		Category:     types.CategorySystem,
		Capabilities: []string{"static", "live"},
		Tools: []types.Tool{
			{
				ID:          "probe.static",
				Name:        "Static Probe",
				Description: "System name, kernel, CPU and memory size",
				Parameters:  []types.Parameter{hostParam},
				Returns:     "static info",
			},
			{
				ID:          "probe.live",
				Name:        "Live Probe",
				Description: "CPU, memory, load, disk and top processes",
				Parameters:  []types.Parameter{hostParam},
				Returns:     "live info",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	host, err := decodeHost(params)
	if err != nil {
		return types.Failure(err.Error()), err
	}

	switch toolID {
	case "probe.static":
		info, err := p.prober.Static(ctx, host)
		if err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(map[string]interface{}{"info": info}), nil

	case "probe.live":
		info, err := p.prober.Live(ctx, host)
		if err != nil {
			return types.Failure(err.Error()), err
		}
		return types.Ok(map[string]interface{}{"info": info}), nil

	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

func decodeHost(params map[string]interface{}) (hosts.Host, error) {
	raw, ok := params["host"]
	if !ok {
		return hosts.Host{}, errors.New("host is required")
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return hosts.Host{}, fmt.Errorf("encode host: %w", err)
	}
	var host hosts.Host
	if err := json.Unmarshal(encoded, &host); err != nil {
		return hosts.Host{}, fmt.Errorf("decode host: %w", err)
	}
	return host, nil
}

package terminal

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmluang/xTerm/internal/shared/types"
)

// Provider exposes the session manager as the "terminal" service.
type Provider struct {
	manager *Manager
}

// NewProvider wraps a manager.
func NewProvider(manager *Manager) *Provider {
	return &Provider{manager: manager}
}

// Manager returns the underlying session manager.
func (p *Provider) Manager() *Manager {
	return p.manager
}

func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:           "terminal",
		Name:         "Terminal Sessions",
		Description:  "Spawn and control PTY-backed terminal sessions",
		Category:     types.CategoryTerminal,
		Capabilities: []string{"spawn", "write", "resize", "kill", "list"},
		Tools: []types.Tool{
			{
				ID:          "terminal.spawn",
				Name:        "Spawn Session",
				Description: "Start a process on a new pseudo-terminal",
				Parameters: []types.Parameter{
					{Name: "command", Type: "string", Description: "Executable to run", Required: true},
					{Name: "args", Type: "array", Description: "Command arguments"},
					{Name: "cols", Type: "number", Description: "Initial columns (default 80)"},
					{Name: "rows", Type: "number", Description: "Initial rows (default 24)"},
					{Name: "cwd", Type: "string", Description: "Working directory"},
					{Name: "env", Type: "object", Description: "Extra environment variables"},
				},
				Returns: "session id",
			},
			{
				ID:          "terminal.write",
				Name:        "Write Input",
				Description: "Send input bytes to a session",
				Parameters: []types.Parameter{
					{Name: "sessionId", Type: "string", Description: "Target session", Required: true},
					{Name: "data", Type: "string", Description: "Bytes to write", Required: true},
				},
				Returns: "nothing",
			},
			{
				ID:          "terminal.resize",
				Name:        "Resize Session",
				Description: "Change the terminal geometry of a session",
				Parameters: []types.Parameter{
					{Name: "sessionId", Type: "string", Description: "Target session", Required: true},
					{Name: "cols", Type: "number", Description: "New columns", Required: true},
					{Name: "rows", Type: "number", Description: "New rows", Required: true},
				},
				Returns: "nothing",
			},
			{
				ID:          "terminal.kill",
				Name:        "Kill Session",
				Description: "Forcefully terminate a session's process",
				Parameters: []types.Parameter{
					{Name: "sessionId", Type: "string", Description: "Target session", Required: true},
				},
				Returns: "nothing",
			},
			{
				ID:          "terminal.list",
				Name:        "List Sessions",
				Description: "Snapshot of live sessions",
				Returns:     "session list",
			},
		},
	}
}

func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, execCtx *types.Context) (*types.Result, error) {
	switch toolID {
	case "terminal.spawn":
		return p.spawn(params)
	case "terminal.write":
		return p.write(params)
	case "terminal.resize":
		return p.resize(params)
	case "terminal.kill":
		return p.kill(params)
	case "terminal.list":
		return p.list()
	default:
		return types.Failure(fmt.Sprintf("unknown tool: %s", toolID)), fmt.Errorf("unknown tool: %s", toolID)
	}
}

func (p *Provider) spawn(params map[string]interface{}) (*types.Result, error) {
	command, ok := params["command"].(string)
	if !ok || command == "" {
		return types.Failure("command is required"), errors.New("command is required")
	}

	req := SpawnRequest{
		Command: command,
		Args:    stringSlice(params["args"]),
		Cols:    uint16Param(params, "cols"),
		Rows:    uint16Param(params, "rows"),
		Cwd:     stringParam(params, "cwd"),
		Env:     stringMap(params["env"]),
	}

	id, err := p.manager.Spawn(req)
	if err != nil {
		return types.Failure(err.Error()), err
	}
	return types.Ok(map[string]interface{}{"sessionId": id.String()}), nil
}

func (p *Provider) write(params map[string]interface{}) (*types.Result, error) {
	id, res, err := sessionIDParam(params)
	if err != nil {
		return res, err
	}
	data, ok := params["data"].(string)
	if !ok {
		return types.Failure("data is required"), errors.New("data is required")
	}

	if err := p.manager.Write(id, []byte(data)); err != nil {
		return types.Failure(err.Error()), err
	}
	return types.Ok(nil), nil
}

func (p *Provider) resize(params map[string]interface{}) (*types.Result, error) {
	id, res, err := sessionIDParam(params)
	if err != nil {
		return res, err
	}

	if err := p.manager.Resize(id, uint16Param(params, "cols"), uint16Param(params, "rows")); err != nil {
		return types.Failure(err.Error()), err
	}
	return types.Ok(nil), nil
}

func (p *Provider) kill(params map[string]interface{}) (*types.Result, error) {
	id, res, err := sessionIDParam(params)
	if err != nil {
		return res, err
	}

	if err := p.manager.Kill(id); err != nil {
		return types.Failure(err.Error()), err
	}
	return types.Ok(nil), nil
}

func (p *Provider) list() (*types.Result, error) {
	return types.Ok(map[string]interface{}{"sessions": p.manager.List()}), nil
}

func sessionIDParam(params map[string]interface{}) (SessionID, *types.Result, error) {
	raw, ok := params["sessionId"].(string)
	if !ok {
		return 0, types.Failure("sessionId is required"), errors.New("sessionId is required")
	}
	id, err := ParseSessionID(raw)
	if err != nil {
		return 0, types.Failure(err.Error()), err
	}
	return id, nil, nil
}

func stringParam(params map[string]interface{}, key string) string {
	s, _ := params[key].(string)
	return s
}

func uint16Param(params map[string]interface{}, key string) uint16 {
	switch v := params[key].(type) {
	case float64:
		if v > 0 && v <= 65535 {
			return uint16(v)
		}
	case int:
		if v > 0 && v <= 65535 {
			return uint16(v)
		}
	}
	return 0
}

func stringSlice(v interface{}) []string {
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func stringMap(v interface{}) map[string]string {
	raw, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]string, len(raw))
	for k, item := range raw {
		if s, ok := item.(string); ok {
			out[k] = s
		}
	}
	return out
}

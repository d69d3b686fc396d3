package types

// Category groups services by concern.
type Category string

const (
	CategoryTerminal Category = "terminal"
	CategoryStorage  Category = "storage"
	CategorySecurity Category = "security"
	CategorySync     Category = "sync"
	CategorySystem   Category = "system"
)

// Service describes a registered service and its tools.
type Service struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	Capabilities []string `json:"capabilities"`
	Tools        []Tool   `json:"tools"`
}

// Tool describes one invokable operation of a service.
type Tool struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
	Returns     string      `json:"returns"`
}

// Parameter describes a tool parameter.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Context carries optional caller identity through a tool execution.
type Context struct {
	WindowID *string `json:"window_id,omitempty"`
	UserID   *string `json:"user_id,omitempty"`
}

// Result is the outcome of a tool execution.
type Result struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *string                `json:"error,omitempty"`
}

// Failure builds an unsuccessful result from an error message.
func Failure(msg string) *Result {
	return &Result{Success: false, Error: &msg}
}

// Ok builds a successful result with the given data.
func Ok(data map[string]interface{}) *Result {
	return &Result{Success: true, Data: data}
}

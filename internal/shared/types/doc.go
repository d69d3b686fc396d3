// Package types provides shared data structures for the xTerm backend.
//
// This package defines the service provider contract used across all
// backend components:
//   - Service: Service provider definition
//   - Tool: Service tool specification
//   - Context: Execution context for operations
//   - Result: Standard operation result
//
// Example Usage:
//
//	result := types.Ok(map[string]interface{}{
//	    "session_id": "3",
//	})
package types

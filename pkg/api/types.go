package api

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port int
	Bind string
	// APIKey protects /api/v1 when set.
	APIKey string
	// MaxBodyBytes limits uploaded containers; 0 means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

// DefaultMaxBodyBytes is the upload limit when none is configured.
const DefaultMaxBodyBytes = 64 << 20

// NameStore is the name index the hash and names endpoints use.
type NameStore interface {
	IndexName(path string) (uint32, error)
	LookupNames(id uint32) ([]string, error)
}

// HashResponse is returned by the hash endpoint.
type HashResponse struct {
	Path       string `json:"path"`
	Normalized string `json:"normalized"`
	ID         uint32 `json:"id"`
	Hex        string `json:"hex"`
	Indexed    bool   `json:"indexed"`
}

// NamesResponse is returned by the names endpoint.
type NamesResponse struct {
	ID    uint32   `json:"id"`
	Hex   string   `json:"hex"`
	Names []string `json:"names"`
}

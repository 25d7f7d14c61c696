package gojahost

import (
	"time"

	"go.uber.org/zap"
)

// Config defines runtime configuration
type Config struct {
	Timeout          time.Duration // Execution timeout
	EnableConsole    bool          // Allow console.log/warn/error
	MaxAllocBytes    int           // MemAlloc budget, 0 for unlimited
	MaxCallStackSize int           // 0 keeps the goja default
	Logger           *zap.Logger   // Receives console output when set
}

// Result holds execution result
type Result struct {
	Value    interface{}   // Exported return value
	Console  []LogEntry    // Console output
	Duration time.Duration // Execution time
	Error    error         // Execution error
}

// LogEntry represents console output
type LogEntry struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// DefaultConfig returns the default runtime configuration
func DefaultConfig() Config {
	return Config{
		Timeout:          5 * time.Second,
		EnableConsole:    true,
		MaxAllocBytes:    1 << 20,
		MaxCallStackSize: 1024,
	}
}

package docker

// Config holds the configuration for Docker-backed execution.
type Config struct {
	// Image is the Docker image the interpreter runs in.
	Image string
	// MemoryLimit is the maximum memory per container, in bytes.
	MemoryLimit int64
	// CPULimit is the number of CPUs a container may use.
	CPULimit float64
	// PoolSize is the number of pre-warmed containers to maintain.
	PoolSize int
}

// DefaultConfig provides sensible defaults for a Python sandbox.
// The per-run deadline is NOT configured here — it arrives with each
// runner.Request, because every caller picks its own timeout.
func DefaultConfig() Config {
	return Config{
		// Use a lightweight python image
		Image: "python:3.12-alpine",
		// 128 MB memory limit
		MemoryLimit: 128 * 1024 * 1024,
		// 0.5 CPU shares
		CPULimit: 0.5,
		PoolSize: 3,
	}
}

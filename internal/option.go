package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config     *Config
	configPath string
	stdio      bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithConfigPath records where the configuration was loaded from, so the
// seed watcher can re-read it on change.
func WithConfigPath(path string) Option {
	return func(a *application) {
		a.configPath = path
	}
}

// WithStdio selects the stdio MCP transport instead of HTTP.
func WithStdio(stdio bool) Option {
	return func(a *application) {
		a.stdio = stdio
	}
}

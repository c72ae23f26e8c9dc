package config

import (
	"context"

	"go.uber.org/zap"

	"github.com/mtahir955/EventCore-UserSide-sub004/cmd/eventctl/internal/client"
)

type contextKey string

const configKey contextKey = "eventctl-config"

// GlobalConfig holds shared configuration for all eventctl commands.
// This is injected into the cobra command context by the root command's
// PersistentPreRunE hook and consumed by all subcommands.
type GlobalConfig struct {
	Config         *Config
	ServerURL      string
	Host           string
	NonInteractive bool
	Logger         *zap.Logger
	ClientProvider *client.Provider
}

// InjectConfig adds config to the cobra command context.
func InjectConfig(ctx context.Context, cfg *GlobalConfig) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from the cobra command context.
// Returns (nil, false) if config is not present.
func FromContext(ctx context.Context) (*GlobalConfig, bool) {
	cfg, ok := ctx.Value(configKey).(*GlobalConfig)
	return cfg, ok
}

// MustFromContext retrieves config from context or panics.
// This should only be used in command RunE functions where we know
// the config has been injected by the root command.
func MustFromContext(ctx context.Context) *GlobalConfig {
	cfg, ok := FromContext(ctx)
	if !ok {
		panic("eventctl: config not found in context - this is a bug in eventctl")
	}
	return cfg
}

package sessions

import (
	"context"

	"github.com/pkg/errors"
)

// NewStore creates the appropriate Store implementation based on the
// provided configuration.
func NewStore(ctx context.Context, config *Config) (Store, error) {
	if config == nil {
		var err error
		config, err = DefaultConfig()
		if err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	switch config.StoreType {
	case "sqlite":
		return NewSQLiteStore(ctx, config.BasePath)
	case "json", "":
		return NewJSONStore(config.BasePath)
	default:
		return nil, errors.Errorf("unknown session store type: %s", config.StoreType)
	}
}

package cache

import (
	"github.com/tdtai09423/moe-ui-sub001/internal/config"
	"github.com/tdtai09423/moe-ui-sub001/internal/logger"
)

// Initialize builds the process wide cache
func Initialize(cfg *config.Configuration, log *logger.Logger) Cache {
	log.Infow("Initializing cache system",
		"enabled", cfg.Cache.Enabled,
		"ttl", cfg.Cache.TTL.String(),
	)
	return NewInMemoryCache(cfg)
}

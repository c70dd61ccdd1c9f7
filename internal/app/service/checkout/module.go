package checkout

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/fatflowers/storetis/pkg/config"
)

func newDraftStore(client *redis.Client, cfg *config.Config) DraftStore {
	return NewRedisDraftStore(client, cfg.Checkout.DraftTTL)
}

var Module = fx.Options(
	fx.Provide(newDraftStore),
	fx.Provide(NewService),
)

package account

import (
	"context"

	"go.uber.org/fx"

	"github.com/fatflowers/storetis/pkg/config"
)

func ensureSuperuser(lc fx.Lifecycle, s *Service, cfg *config.Config) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return s.EnsureSuperuser(ctx, cfg.Auth.SuperuserEmail, cfg.Auth.SuperuserPassword)
		},
	})
}

var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(ensureSuperuser),
)

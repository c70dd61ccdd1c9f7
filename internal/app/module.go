package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/fatflowers/storetis/internal/app/api/server"
	"github.com/fatflowers/storetis/internal/app/service/account"
	"github.com/fatflowers/storetis/internal/app/service/blog"
	"github.com/fatflowers/storetis/internal/app/service/cart"
	"github.com/fatflowers/storetis/internal/app/service/catalog"
	"github.com/fatflowers/storetis/internal/app/service/checkout"
	"github.com/fatflowers/storetis/internal/app/service/consultation"
	"github.com/fatflowers/storetis/internal/app/service/order"
	"github.com/fatflowers/storetis/internal/app/service/search"
	"github.com/fatflowers/storetis/internal/app/service/statistics"
	"github.com/fatflowers/storetis/internal/app/service/subscription"
	"github.com/fatflowers/storetis/internal/platform/cache"
	"github.com/fatflowers/storetis/internal/platform/db"
	"github.com/fatflowers/storetis/internal/platform/kafka"
	"github.com/fatflowers/storetis/internal/platform/storage"
	"github.com/fatflowers/storetis/pkg/config"
	"github.com/fatflowers/storetis/pkg/logger"
	"github.com/fatflowers/storetis/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	cache.Module,
	kafka.Module,
	storage.Module,
	server.Module,
	account.Module,
	catalog.Module,
	cart.Module,
	checkout.Module,
	order.Module,
	subscription.Module,
	consultation.Module,
	statistics.Module,
	blog.Module,
	search.Module,
)

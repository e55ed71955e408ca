package app

import (
	"go.uber.org/fx"

	"github.com/oakworks/orderhub/internal/auth"
	"github.com/oakworks/orderhub/internal/cache"
	"github.com/oakworks/orderhub/internal/config"
	"github.com/oakworks/orderhub/internal/database"
	"github.com/oakworks/orderhub/internal/logger"
	"github.com/oakworks/orderhub/internal/messaging"
	"github.com/oakworks/orderhub/internal/observability"
	repositoryorder "github.com/oakworks/orderhub/internal/repository/order"
	grpcserver "github.com/oakworks/orderhub/internal/server/grpc"
	httpserver "github.com/oakworks/orderhub/internal/server/http"
	serviceorder "github.com/oakworks/orderhub/internal/service/order"
	transporthttp "github.com/oakworks/orderhub/internal/transport/http"
	"github.com/oakworks/orderhub/internal/validation"
	"github.com/oakworks/orderhub/internal/worker"
	workerorder "github.com/oakworks/orderhub/internal/worker/order"
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	config.Module,
	cache.Module,
	database.Module,
	logger.Module,
	messaging.Module,
	observability.Module,
	validation.Module,
	repositoryorder.Module,
	serviceorder.Module,
)

// HTTP wires the HTTP transport on top of the core modules.
var HTTP = fx.Options(
	Core,
	auth.Module,
	httpserver.Module,
	transporthttp.Module,
)

// GRPC runs the gRPC surface next to the HTTP one.
var GRPC = fx.Options(
	HTTP,
	grpcserver.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerorder.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP

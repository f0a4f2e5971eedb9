package usecase

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderstatus/internal/metrics"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	func(r *metrics.Recorder) Metrics { return r },
	NewOrderUseCase,
)

package metrics

import "go.uber.org/fx"

// Module provides the metrics recorder.
var Module = fx.Provide(New)

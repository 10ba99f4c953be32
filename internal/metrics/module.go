package metrics

import "go.uber.org/fx"

// Module provides the shared collectors.
var Module = fx.Provide(New)

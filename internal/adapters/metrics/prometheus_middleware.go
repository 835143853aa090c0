package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/factorycore/internal/application/common"
)

// PrometheusMiddleware creates a middleware that records command execution metrics
//
// Command names are extracted via reflection with the package prefix removed,
// so "*simulation.RunTicksCommand" is recorded as "RunTicksCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		commandName := extractCommandName(request)
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(commandName, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// extractCommandName strips the pointer marker and package from the request type name
func extractCommandName(request common.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	fullName := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(fullName, "."); i >= 0 {
		return fullName[i+1:]
	}
	return fullName
}

package eventbus

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
)

// headerCarrier adapts amqp.Table to propagation.TextMapCarrier so a
// trace context can ride along in message headers the way it rides
// along in HTTP headers.
type headerCarrier struct {
	headers amqp.Table
}

func (c *headerCarrier) Get(key string) string {
	if v, ok := c.headers[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func (c *headerCarrier) Set(key, value string) {
	c.headers[key] = value
}

func (c *headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.headers))
	for k := range c.headers {
		keys = append(keys, k)
	}
	return keys
}

// InjectTraceContext packs the active span's trace context into AMQP
// headers for the publish side.
func InjectTraceContext(ctx context.Context) amqp.Table {
	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, &headerCarrier{headers: headers})
	return headers
}

// ExtractTraceContext restores a trace context from AMQP headers on
// the consume side so the outbound-dispatch span and the notify
// relay span share a trace id.
func ExtractTraceContext(ctx context.Context, headers amqp.Table) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, &headerCarrier{headers: headers})
}

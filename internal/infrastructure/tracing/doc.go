/*
Package tracing records request and script-run spans.

Spans carry a trace id propagated through the X-Trace-ID and X-Span-ID
headers. Finished spans are buffered (1000) and logged by a collector
goroutine; Close drains the buffer.

	tracer := tracing.New("scriptbridge", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	span, ctx := tracer.StartSpan(ctx, "script.eval")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()
*/
package tracing

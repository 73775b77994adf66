package granola

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec and client events.
var (
	SignalMapperCreated       = capitan.NewSignal("granola.mapper.created", "Mapper constructed")
	SignalEncodeComplete      = capitan.NewSignal("granola.encode.complete", "Encode operation finished")
	SignalDecodeComplete      = capitan.NewSignal("granola.decode.complete", "Decode operation finished")
	SignalShapeDecodeComplete = capitan.NewSignal("granola.shape.decode.complete", "Shape decode finished")
	SignalRequestComplete     = capitan.NewSignal("granola.client.request.complete", "Outbound request finished")
	SignalCSRFRejected        = capitan.NewSignal("granola.csrf.rejected", "Double-submit token pair rejected")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyTypeName    = capitan.NewStringKey("type_name")
	KeyShape       = capitan.NewStringKey("shape")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeyModules     = capitan.NewIntKey("modules")
	KeyMethod      = capitan.NewStringKey("method")
	KeyURL         = capitan.NewStringKey("url")
	KeyStatus      = capitan.NewIntKey("status")
	KeyHeaderName  = capitan.NewStringKey("header_name")
	KeyCookieName  = capitan.NewStringKey("cookie_name")
)

// emitMapperCreated emits an event when a mapper is assembled.
func emitMapperCreated(ctx context.Context, contentType string, moduleEncoders int) {
	capitan.Emit(ctx, SignalMapperCreated,
		KeyContentType.Field(contentType),
		KeyModules.Field(moduleEncoders),
	)
}

// emitEncodeComplete emits an event when an encode finishes.
func emitEncodeComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeComplete emits an event when a decode finishes.
func emitDecodeComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}

// emitShapeDecodeComplete emits an event when a shape decode finishes.
func emitShapeDecodeComplete(ctx context.Context, contentType, shape string, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyShape.Field(shape),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalShapeDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalShapeDecodeComplete, fields...)
	}
}

// emitRequestComplete emits an event when an outbound request finishes.
func emitRequestComplete(ctx context.Context, method, url string, status int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyMethod.Field(method),
		KeyURL.Field(url),
		KeyStatus.Field(status),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalRequestComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalRequestComplete, fields...)
	}
}

// emitCSRFRejected emits an event when the double-submit pair is rejected.
// This is a client input fault, not a server fault, so it is emitted as a
// plain event rather than an error.
func emitCSRFRejected(ctx context.Context, headerName, cookieName string) {
	capitan.Emit(ctx, SignalCSRFRejected,
		KeyHeaderName.Field(headerName),
		KeyCookieName.Field(cookieName),
	)
}

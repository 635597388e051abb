package presence

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for presence events.
var (
	SignalSupportInstalled  = capitan.NewSignal("presence.support.installed", "Presence factory installed into options")
	SignalCodecBuilt        = capitan.NewSignal("presence.codec.built", "Field codec built for a wrapper type")
	SignalSerializerCreated = capitan.NewSignal("presence.serializer.created", "Serializer instantiated")
	SignalContractDeclared  = capitan.NewSignal("presence.contract.declared", "Aggregate embeds the presence contract marker")
	SignalReceiveStart      = capitan.NewSignal("presence.receive.start", "Receive operation beginning")
	SignalReceiveComplete   = capitan.NewSignal("presence.receive.complete", "Receive operation finished")
	SignalSendStart         = capitan.NewSignal("presence.send.start", "Send operation beginning")
	SignalSendComplete      = capitan.NewSignal("presence.send.complete", "Send operation finished")
)

// Keys for typed event data.
var (
	KeyContentType    = capitan.NewStringKey("content_type")
	KeyTypeName       = capitan.NewStringKey("type_name")
	KeyInnerType      = capitan.NewStringKey("inner_type")
	KeyStatus         = capitan.NewStringKey("status")
	KeySize           = capitan.NewIntKey("size")
	KeyDuration       = capitan.NewDurationKey("duration")
	KeyError          = capitan.NewErrorKey("error")
	KeyFactoryCount   = capitan.NewIntKey("factory_count")
	KeyFieldCount     = capitan.NewIntKey("field_count")
	KeySpecifiedCount = capitan.NewIntKey("specified_count")
	KeyHashedCount    = capitan.NewIntKey("hashed_count")
)

// emitSupportInstalled emits after AddPresenceSupport; existing is true when
// the factory was already present and nothing was added.
func emitSupportInstalled(factories int, existing bool) {
	status := "added"
	if existing {
		status = "existing"
	}
	capitan.Emit(context.Background(), SignalSupportInstalled,
		KeyFactoryCount.Field(factories),
		KeyStatus.Field(status),
	)
}

func emitCodecBuilt(typeName, inner string) {
	capitan.Emit(context.Background(), SignalCodecBuilt,
		KeyTypeName.Field(typeName),
		KeyInnerType.Field(inner),
	)
}

func emitSerializerCreated(ctx context.Context, contentType, typeName string, fields int) {
	capitan.Emit(ctx, SignalSerializerCreated,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyFieldCount.Field(fields),
	)
}

func emitContractDeclared(ctx context.Context, typeName string) {
	capitan.Emit(ctx, SignalContractDeclared,
		KeyTypeName.Field(typeName),
	)
}

func emitReceiveStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalReceiveStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitReceiveComplete(ctx context.Context, contentType, typeName string, duration time.Duration, specified, hashed int, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeyDuration.Field(duration),
		KeySpecifiedCount.Field(specified),
		KeyHashedCount.Field(hashed),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalReceiveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalReceiveComplete, fields...)
	}
}

func emitSendStart(ctx context.Context, contentType, typeName string) {
	capitan.Emit(ctx, SignalSendStart,
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
	)
}

func emitSendComplete(ctx context.Context, contentType, typeName string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyTypeName.Field(typeName),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSendComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSendComplete, fields...)
	}
}

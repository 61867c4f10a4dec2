package rxlane

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"

	"github.com/AntonStoeckl/timelane-go/timelane"
)

const (
	logMsgSinkPanicked          = "timelane sink panicked, record dropped"
	logMsgTransformPanicked     = "lane transform panicked, value event dropped"
	logMsgTransformTypeMismatch = "lane transform does not match the element type, using the default formatter"

	logAttrLane           = "lane"
	logAttrShape          = "shape"
	logAttrSubscriptionID = "subscription_id"
	logAttrRecordKind     = "record_kind"
	logAttrError          = "error"
	logAttrTransformType  = "transform_type"
	logAttrElementType    = "element_type"
)

// TransformPanicError describes a panic raised by a value transform.
type TransformPanicError struct {
	Lane           string
	SubscriptionID timelane.SubscriptionID
	Value          any
	Stack          string
}

// Error implements error.
func (e *TransformPanicError) Error() string {
	return fmt.Sprintf("lane %q transform panicked: %v", e.Lane, e.Value)
}

func newTransformPanicError(lane string, id timelane.SubscriptionID, v any) *TransformPanicError {
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)

	return &TransformPanicError{Lane: lane, SubscriptionID: id, Value: v, Stack: string(buf[:n])}
}

func (l *lane[T]) sinkFault(err error) {
	args := []any{logAttrLane, l.name, logAttrShape, l.shape.name, logAttrError, err.Error()}

	var sinkPanic *timelane.SinkPanicError
	if errors.As(err, &sinkPanic) {
		args = append(args,
			logAttrSubscriptionID, sinkPanic.Record.SubscriptionID,
			logAttrRecordKind, sinkPanic.Record.Kind.String(),
		)
	}

	l.warn(logMsgSinkPanicked, args...)
	l.notifyFault(err)
}

func (l *lane[T]) transformFault(err *TransformPanicError) {
	l.warn(logMsgTransformPanicked,
		logAttrLane, l.name,
		logAttrShape, l.shape.name,
		logAttrSubscriptionID, err.SubscriptionID,
		logAttrError, err.Error(),
	)
	l.notifyFault(err)
}

func (l *lane[T]) warnTransformMismatch() {
	l.warn(logMsgTransformTypeMismatch,
		logAttrLane, l.name,
		logAttrShape, l.shape.name,
		logAttrTransformType, reflect.TypeOf(l.opts.transform).String(),
		logAttrElementType, reflect.TypeFor[T]().String(),
	)
}

// warn logs at warn level to the configured loggers.
func (l *lane[T]) warn(msg string, args ...any) {
	if l.opts.logger != nil {
		l.opts.logger.Warn(msg, args...)
	}

	if l.opts.contextualLogger != nil {
		l.opts.contextualLogger.WarnContext(l.opts.loggerCtx, msg, args...)
	}
}

func (l *lane[T]) notifyFault(err error) {
	if l.opts.onFault == nil {
		return
	}

	defer func() {
		_ = recover()
	}()

	l.opts.onFault(err)
}

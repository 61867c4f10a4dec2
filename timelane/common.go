package timelane

import (
	"errors"
)

var ErrInvalidFilter = errors.New("invalid filter supplied")
var ErrUnknownRecordKind = errors.New("unknown record kind")
var ErrMalformedMessage = errors.New("malformed timelane message")
var ErrDecodingRecordFailed = errors.New("decoding record failed")
var ErrEncodingRecordFailed = errors.New("encoding record failed")

// SubscriptionID is the process-wide identity of one Subscription.
type SubscriptionID = uint64

// ProtocolVersion is announced once per process with a version record before any other record.
const ProtocolVersion = 1

package service

// FailureKind classifies why a message was not stored. Each kind is
// contained at the single-message boundary: the loop logs it and takes the
// next message.
type FailureKind int

const (
	FailureNone FailureKind = iota
	// FailureDecode: malformed JSON or a missing required envelope field.
	FailureDecode
	// FailureTimestamp: unparsable received-at. Degrades the row's
	// received_at to NULL, the message itself still stores.
	FailureTimestamp
	// FailureIdentityIncomplete: device exists but has no assigned
	// sensor name yet.
	FailureIdentityIncomplete
	// FailureRoutingMiss: no brand/port rule matched.
	FailureRoutingMiss
	// FailureStore: upsert or insert failure. Not retried.
	FailureStore
)

func (k FailureKind) String() string {
	switch k {
	case FailureDecode:
		return "decode"
	case FailureTimestamp:
		return "timestamp"
	case FailureIdentityIncomplete:
		return "identity_incomplete"
	case FailureRoutingMiss:
		return "routing_miss"
	case FailureStore:
		return "store"
	default:
		return "none"
	}
}

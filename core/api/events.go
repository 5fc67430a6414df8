// Package api declares the abstract contracts the surrounding system
// implements (spec §C9): ValidationContext, ExecutionContext, Router and
// Module, plus the typed IbcEvent every successful mutation emits (spec §6.4).
package api

import (
	"fmt"

	host "github.com/tokenize-x/ibc-core/core/24host"
)

// EventKind enumerates the event types required by spec §6.4.
type EventKind string

const (
	EventMessageClient     EventKind = "message_client"
	EventMessageConnection EventKind = "message_connection"
	EventMessageChannel    EventKind = "message_channel"

	EventCreateClient       EventKind = "create_client"
	EventUpdateClient       EventKind = "update_client"
	EventUpgradeClient      EventKind = "upgrade_client"
	EventClientMisbehaviour EventKind = "client_misbehaviour"
	EventRecoverClient      EventKind = "recover_client"

	EventConnectionOpenInit    EventKind = "connection_open_init"
	EventConnectionOpenTry     EventKind = "connection_open_try"
	EventConnectionOpenAck     EventKind = "connection_open_ack"
	EventConnectionOpenConfirm EventKind = "connection_open_confirm"

	EventChannelOpenInit    EventKind = "channel_open_init"
	EventChannelOpenTry     EventKind = "channel_open_try"
	EventChannelOpenAck     EventKind = "channel_open_ack"
	EventChannelOpenConfirm EventKind = "channel_open_confirm"
	EventChannelCloseInit   EventKind = "channel_close_init"
	EventChannelCloseConfirm EventKind = "channel_close_confirm"

	EventSendPacket          EventKind = "send_packet"
	EventRecvPacket          EventKind = "recv_packet"
	EventWriteAcknowledgement EventKind = "write_acknowledgement"
	EventAcknowledgePacket   EventKind = "acknowledge_packet"
	EventTimeoutPacket       EventKind = "timeout_packet"
)

// Attribute keys used across event kinds (spec §6.4).
const (
	AttrPortID                  = "port_id"
	AttrChannelID                = "channel_id"
	AttrConnectionID             = "connection_id"
	AttrClientID                 = "client_id"
	AttrCounterpartyPortID       = "counterparty_port_id"
	AttrCounterpartyChannelID    = "counterparty_channel_id"
	AttrCounterpartyConnectionID = "counterparty_connection_id"
	AttrCounterpartyClientID     = "counterparty_client_id"
	AttrPacketSequence           = "packet_sequence"
	AttrPacketTimeoutHeight      = "packet_timeout_height"
	AttrPacketTimeoutTimestamp   = "packet_timeout_timestamp"
	AttrPacketData               = "packet_data"
	AttrPacketAck                = "packet_ack"
	AttrClientType               = "client_type"
	AttrConsensusHeight          = "consensus_height"
	AttrModule                   = "module"
	AttrSubjectClientID          = "subject_client_id"
	AttrSubstituteClientID       = "substitute_client_id"
)

// IbcEvent is the typed event emitted by every successful mutation
// (spec §6.4). Attributes are ordered (not a bare map) so emission order is
// deterministic irrespective of Go map iteration (spec §5 ordering
// guarantees: "Events are emitted in call order").
type IbcEvent struct {
	Kind       EventKind
	Attributes []EventAttribute
}

// EventAttribute is a single key/value pair of an IbcEvent.
type EventAttribute struct {
	Key   string
	Value string
}

// NewEvent builds an IbcEvent from ordered key/value pairs.
func NewEvent(kind EventKind, attrs ...EventAttribute) IbcEvent {
	return IbcEvent{Kind: kind, Attributes: attrs}
}

// Attr is a convenience constructor for EventAttribute.
func Attr(key, value string) EventAttribute { return EventAttribute{Key: key, Value: value} }

// AttrHeight renders a host.Height as an event attribute value.
func AttrHeight(h host.Height) string { return h.String() }

// AttrUint renders a uint64 as an event attribute value.
func AttrUint(v uint64) string { return fmt.Sprintf("%d", v) }

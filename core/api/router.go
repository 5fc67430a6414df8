package api

import (
	errorsmod "cosmossdk.io/errors"

	channeltypes "github.com/tokenize-x/ibc-core/core/04channel/types"
	deterministicmap "github.com/tokenize-x/ibc-core/pkg/deterministicmap"
)

// ModuleID names an application module bound to exactly one PortId
// (spec §4.5).
type ModuleID string

var (
	ErrUnknownPort    = errorsmod.Register("ibc-router", 2, "port is not bound to any module")
	ErrModuleNotFound = errorsmod.Register("ibc-router", 3, "module not found")
)

// Extras carries additional events/log lines a module callback wants
// emitted alongside the core's own events (spec §4.5).
type Extras struct {
	Events []IbcEvent
	Logs   []string
}

// Module is the set of callbacks a bound application implements
// (spec §4.5, §6.3).
type Module interface {
	OnChanOpenInit(ctx ExecutionContext, order channeltypes.Order, connectionHops []string, portID, channelID string, counterparty channeltypes.Counterparty, version string) (negotiatedVersion string, err error)
	OnChanOpenTry(ctx ExecutionContext, order channeltypes.Order, connectionHops []string, portID, channelID string, counterparty channeltypes.Counterparty, counterpartyVersion string) (negotiatedVersion string, err error)
	OnChanOpenAck(ctx ExecutionContext, portID, channelID, counterpartyVersion string) error
	OnChanOpenConfirm(ctx ExecutionContext, portID, channelID string) error
	OnChanCloseInit(ctx ExecutionContext, portID, channelID string) error
	OnChanCloseConfirm(ctx ExecutionContext, portID, channelID string) error

	// OnRecvPacket never fails the transaction (spec §4.4 step 6): errors are
	// encoded into the returned acknowledgement bytes instead.
	OnRecvPacket(ctx ExecutionContext, packet channeltypes.Packet, signer string) (extras Extras, ackBytes []byte)
	OnAcknowledgementPacket(ctx ExecutionContext, packet channeltypes.Packet, ackBytes []byte, signer string) error
	OnTimeoutPacket(ctx ExecutionContext, packet channeltypes.Packet, signer string) error
}

// Router is the name -> module mapping keyed by ModuleID, with a PortId ->
// ModuleID binding on top (spec §4.5).
type Router struct {
	modules      *deterministicmap.Map[string, Module]
	portBindings *deterministicmap.Map[string, string] // portID -> ModuleID
}

// NewRouter constructs an empty Router.
func NewRouter() *Router {
	return &Router{
		modules:      deterministicmap.New[string, Module](),
		portBindings: deterministicmap.New[string, string](),
	}
}

// AddRoute registers a module under a ModuleID. Re-registering the same id
// overwrites the previous binding, mirroring a host's module table setup.
func (r *Router) AddRoute(id ModuleID, module Module) *Router {
	r.modules.Set(string(id), module)
	return r
}

// BindPort binds a PortId to a previously-registered ModuleID.
func (r *Router) BindPort(portID string, id ModuleID) *Router {
	r.portBindings.Set(portID, string(id))
	return r
}

// Route resolves the Module bound to portID (spec §4.5: "Every channel
// operation and packet operation ... looks up the module by port").
func (r *Router) Route(portID string) (Module, error) {
	moduleID, ok := r.portBindings.Get(portID)
	if !ok {
		return nil, errorsmod.Wrapf(ErrUnknownPort, "no module bound to port %s", portID)
	}
	module, ok := r.modules.Get(moduleID)
	if !ok {
		return nil, errorsmod.Wrapf(ErrModuleNotFound, "module %s not registered", moduleID)
	}
	return module, nil
}

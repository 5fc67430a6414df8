package testing

import (
	channeltypes "github.com/tokenize-x/ibc-core/core/04channel/types"
	"github.com/tokenize-x/ibc-core/core/api"
)

// MockModule is a bare-bones api.Module: it accepts every channel handshake
// it is offered, echoes the proposed version back, and acknowledges every
// packet successfully. It exists only to drive the scenario tests in this
// package (spec §4.5, §8 scenarios S4-S6).
type MockModule struct {
	Version string

	Received []channeltypes.Packet
	Acked    []channeltypes.Packet
	TimedOut []channeltypes.Packet
}

var _ api.Module = (*MockModule)(nil)

func NewMockModule(version string) *MockModule { return &MockModule{Version: version} }

func (m *MockModule) version(counterOffered string) string {
	if counterOffered != "" {
		return counterOffered
	}
	return m.Version
}

func (m *MockModule) OnChanOpenInit(_ api.ExecutionContext, _ channeltypes.Order, _ []string, _, _ string, _ channeltypes.Counterparty, version string) (string, error) {
	return m.version(version), nil
}

func (m *MockModule) OnChanOpenTry(_ api.ExecutionContext, _ channeltypes.Order, _ []string, _, _ string, _ channeltypes.Counterparty, counterpartyVersion string) (string, error) {
	return m.version(counterpartyVersion), nil
}

func (m *MockModule) OnChanOpenAck(_ api.ExecutionContext, _, _, _ string) error { return nil }

func (m *MockModule) OnChanOpenConfirm(_ api.ExecutionContext, _, _ string) error { return nil }

func (m *MockModule) OnChanCloseInit(_ api.ExecutionContext, _, _ string) error { return nil }

func (m *MockModule) OnChanCloseConfirm(_ api.ExecutionContext, _, _ string) error { return nil }

func (m *MockModule) OnRecvPacket(_ api.ExecutionContext, packet channeltypes.Packet, _ string) (api.Extras, []byte) {
	m.Received = append(m.Received, packet)
	return api.Extras{}, []byte("result:ok")
}

func (m *MockModule) OnAcknowledgementPacket(_ api.ExecutionContext, packet channeltypes.Packet, _ []byte, _ string) error {
	m.Acked = append(m.Acked, packet)
	return nil
}

func (m *MockModule) OnTimeoutPacket(_ api.ExecutionContext, packet channeltypes.Packet, _ string) error {
	m.TimedOut = append(m.TimedOut, packet)
	return nil
}

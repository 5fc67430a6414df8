package dispatch

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clientkeeper "github.com/tokenize-x/ibc-core/core/02client/keeper"
	connectionkeeper "github.com/tokenize-x/ibc-core/core/03connection/keeper"
	channelkeeper "github.com/tokenize-x/ibc-core/core/04channel/keeper"
	"github.com/tokenize-x/ibc-core/core/api"
)

// ModuleName is the error codespace for dispatch-level failures (a message
// of a type Execute does not recognize). Signer rejections come from the
// host's ValidateMessageSigner (spec §6.1) and carry the host's own error.
const ModuleName = "ibc-dispatch"

var ErrUnknownMessageType = errorsmod.Register(ModuleName, 2, "unrecognized message type")

// Execute is the single entry point of spec §4.6: every message first runs
// its Validate phase (pure reads) and, only on success, its Execute phase
// (writes + events). Channel and packet operations additionally consult
// router to reach the bound application module.
func Execute(ctx context.Context, ectx api.ExecutionContext, router *api.Router, msg any) error {
	if err := validateSigner(ectx, msg); err != nil {
		return err
	}

	switch m := msg.(type) {
	case MsgCreateClient:
		if err := clientkeeper.ValidateCreateClient(m.ClientState, m.ConsensusState); err != nil {
			return err
		}
		_, err := clientkeeper.ExecuteCreateClient(ectx, m.ClientState, m.ConsensusState)
		return err

	case MsgUpdateClient:
		return clientkeeper.ExecuteUpdateClient(ctx, ectx, m.ClientID, m.Header)

	case MsgSubmitMisbehaviour:
		return clientkeeper.ExecuteUpdateClient(ctx, ectx, m.ClientID, m.Misbehaviour)

	case MsgUpgradeClient:
		return clientkeeper.ExecuteUpgradeClient(ctx, ectx, m.ClientID, m.NewClient, m.NewConsensusState, m.ProofUpgradeClient, m.ProofUpgradeConsState)

	case MsgRecoverClient:
		return clientkeeper.ExecuteRecoverClient(ctx, ectx, m.SubjectClientID, m.SubstituteClientID)

	case MsgConnectionOpenInit:
		_, err := connectionkeeper.ExecuteConnOpenInit(ectx, m.ClientID, m.Counterparty, m.Version, m.DelayPeriod)
		return err

	case MsgConnectionOpenTry:
		_, err := connectionkeeper.ExecuteConnOpenTry(ctx, ectx, m.ClientID, m.ClientState, m.Counterparty, m.CounterpartyVersions, m.DelayPeriod, m.ProofInit, m.ProofClient, m.ProofConsensus, m.ProofHeight, m.ConsensusHeight)
		return err

	case MsgConnectionOpenAck:
		return connectionkeeper.ExecuteConnOpenAck(ctx, ectx, m.ConnectionID, m.ClientState, m.Version, m.CounterpartyConnectionID, m.ProofTry, m.ProofClient, m.ProofConsensus, m.ProofHeight, m.ConsensusHeight)

	case MsgConnectionOpenConfirm:
		return connectionkeeper.ExecuteConnOpenConfirm(ctx, ectx, m.ConnectionID, m.ProofAck, m.ProofHeight)

	case MsgChannelOpenInit:
		_, err := channelkeeper.ExecuteChanOpenInit(ectx, router, m.PortID, m.Ordering, m.ConnectionHops, m.Counterparty, m.ProposedVersion)
		return err

	case MsgChannelOpenTry:
		_, err := channelkeeper.ExecuteChanOpenTry(ctx, ectx, router, m.PortID, m.Ordering, m.ConnectionHops, m.Counterparty, m.CounterpartyVersion, m.ProofChannel, m.ProofHeight)
		return err

	case MsgChannelOpenAck:
		return channelkeeper.ExecuteChanOpenAck(ctx, ectx, router, m.PortID, m.ChannelID, m.CounterpartyChannelID, m.CounterpartyVersion, m.ProofChannel, m.ProofHeight)

	case MsgChannelOpenConfirm:
		return channelkeeper.ExecuteChanOpenConfirm(ctx, ectx, router, m.PortID, m.ChannelID, m.ProofAck, m.ProofHeight)

	case MsgChannelCloseInit:
		return channelkeeper.ExecuteChanCloseInit(ectx, router, m.PortID, m.ChannelID)

	case MsgChannelCloseConfirm:
		return channelkeeper.ExecuteChanCloseConfirm(ctx, ectx, router, m.PortID, m.ChannelID, m.ProofInit, m.ProofHeight)

	case MsgRecvPacket:
		_, err := channelkeeper.ExecuteRecvPacket(ctx, ectx, router, m.Packet, m.ProofCommitment, m.ProofHeight)
		return err

	case MsgAcknowledgement:
		return channelkeeper.ExecuteAcknowledgePacket(ctx, ectx, router, m.Packet, m.Acknowledgement, m.ProofAcked, m.ProofHeight)

	case MsgTimeout:
		return channelkeeper.ExecuteTimeoutPacket(ctx, ectx, m.Packet, m.ProofUnreceived, m.ProofHeight, m.NextSequenceRecv)

	case MsgTimeoutOnClose:
		return channelkeeper.ExecuteTimeoutOnClose(ctx, ectx, m.Packet, m.ProofUnreceived, m.ProofClosed, m.ProofHeight, m.NextSequenceRecv)

	default:
		return errorsmod.Wrapf(ErrUnknownMessageType, "%T", msg)
	}
}

// validateSigner extracts the signer field from msg (every variant carries
// one, spec §6.3) and checks it against the host's signer policy
// (spec §6.1 ValidateMessageSigner: "permissionless by default, a host may
// restrict to a known relayer set").
func validateSigner(vctx api.ValidationContext, msg any) error {
	signer, ok := signerOf(msg)
	if !ok {
		return nil
	}
	return vctx.ValidateMessageSigner(signer)
}

func signerOf(msg any) (string, bool) {
	switch m := msg.(type) {
	case MsgCreateClient:
		return m.Signer, true
	case MsgUpdateClient:
		return m.Signer, true
	case MsgSubmitMisbehaviour:
		return m.Signer, true
	case MsgUpgradeClient:
		return m.Signer, true
	case MsgRecoverClient:
		return m.Signer, true
	case MsgConnectionOpenInit:
		return m.Signer, true
	case MsgConnectionOpenTry:
		return m.Signer, true
	case MsgConnectionOpenAck:
		return m.Signer, true
	case MsgConnectionOpenConfirm:
		return m.Signer, true
	case MsgChannelOpenInit:
		return m.Signer, true
	case MsgChannelOpenTry:
		return m.Signer, true
	case MsgChannelOpenAck:
		return m.Signer, true
	case MsgChannelOpenConfirm:
		return m.Signer, true
	case MsgChannelCloseInit:
		return m.Signer, true
	case MsgChannelCloseConfirm:
		return m.Signer, true
	case MsgRecvPacket:
		return m.Signer, true
	case MsgAcknowledgement:
		return m.Signer, true
	case MsgTimeout:
		return m.Signer, true
	case MsgTimeoutOnClose:
		return m.Signer, true
	default:
		return "", false
	}
}

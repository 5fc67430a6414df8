package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"

	clienttypes "github.com/tokenize-x/ibc-core/core/02client/types"
	tendermint "github.com/tokenize-x/ibc-core/core/07tendermint/types"
	host "github.com/tokenize-x/ibc-core/core/24host"
	"github.com/tokenize-x/ibc-core/core/api"
	"github.com/tokenize-x/ibc-core/core/exported"
)

// ValidateRecoverClient checks the governance-triggered client recovery
// (spec §4.1 recover_client; see DESIGN.md's core/02client entry): the subject
// must not be Active (it is the one being recovered), the substitute must
// be Active, and, where both are Tendermint clients, their chain ids must
// agree (recovery repoints a frozen/expired client at a live one of the
// same chain, it never migrates to a different chain).
func ValidateRecoverClient(ctx context.Context, vctx api.ValidationContext, subjectClientID, substituteClientID string) error {
	subjectAny, found := vctx.ClientState(subjectClientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "subject client %s not found", subjectClientID)
	}
	substituteAny, found := vctx.ClientState(substituteClientID)
	if !found {
		return errorsmod.Wrapf(tendermint.ErrClientNotFound, "substitute client %s not found", substituteClientID)
	}

	subject, err := subjectAny.Unwrap()
	if err != nil {
		return err
	}
	substitute, err := substituteAny.Unwrap()
	if err != nil {
		return err
	}

	subjectStatus := subject.Status(ctx, vctx.ClientStore(subjectClientID), vctx.HostTimestamp())
	if subjectStatus == exported.Active {
		return errorsmod.Wrap(tendermint.ErrClientNotActive, "subject client is still active, recovery is unnecessary")
	}
	substituteStatus := substitute.Status(ctx, vctx.ClientStore(substituteClientID), vctx.HostTimestamp())
	if substituteStatus != exported.Active {
		return errorsmod.Wrap(tendermint.ErrClientNotActive, "substitute client must be active")
	}

	subjectTM, subjectIsTM := subject.(*tendermint.ClientState)
	substituteTM, substituteIsTM := substitute.(*tendermint.ClientState)
	if subjectIsTM != substituteIsTM {
		return errorsmod.Wrap(tendermint.ErrUnknownClientStateType, "subject and substitute must be the same client type")
	}
	if subjectIsTM && subjectTM.ChainID != substituteTM.ChainID {
		return errorsmod.Wrapf(tendermint.ErrInvalidClientStateFields, "subject chain id %s does not match substitute chain id %s", subjectTM.ChainID, substituteTM.ChainID)
	}
	return nil
}

// ExecuteRecoverClient repeats validation, then overwrites the subject's
// client state with the substitute's (latest height, chain parameters) and
// copies the substitute's latest consensus state, clearing any frozen
// height (spec §4.1 recover_client).
func ExecuteRecoverClient(ctx context.Context, ectx api.ExecutionContext, subjectClientID, substituteClientID string) error {
	if err := ValidateRecoverClient(ctx, ectx, subjectClientID, substituteClientID); err != nil {
		return err
	}

	substituteAny, _ := ectx.ClientState(substituteClientID)
	substitute, err := substituteAny.Unwrap()
	if err != nil {
		return err
	}
	substituteStore := ectx.ClientStore(substituteClientID)
	substituteConsState, found := substituteStore.ConsensusState(substitute.LatestHeight())
	if !found {
		return errorsmod.Wrap(tendermint.ErrConsensusStateNotFound, "substitute client has no consensus state at its latest height")
	}

	var recovered exported.ClientState
	if substituteTM, ok := substitute.(*tendermint.ClientState); ok {
		copied := *substituteTM
		copied.FrozenHeight = host.ZeroHeight()
		recovered = &copied
	} else {
		recovered = substitute
	}

	wrappedClient, err := clienttypes.WrapClientState(recovered)
	if err != nil {
		return err
	}
	wrappedCons, err := clienttypes.WrapConsensusState(substituteConsState)
	if err != nil {
		return err
	}

	ectx.StoreClientState(subjectClientID, wrappedClient)
	subjectStore := ectx.ClientStore(subjectClientID)
	subjectStore.SetClientState(wrappedClient)
	subjectStore.SetConsensusState(recovered.LatestHeight(), wrappedCons)
	subjectStore.SetUpdateMeta(recovered.LatestHeight(), ectx.HostTimestamp(), ectx.HostHeight())

	ectx.EmitIBCEvent(api.NewEvent(api.EventMessageClient))
	ectx.EmitIBCEvent(api.NewEvent(api.EventRecoverClient,
		api.Attr(api.AttrSubjectClientID, subjectClientID),
		api.Attr(api.AttrSubstituteClientID, substituteClientID),
	))
	return nil
}

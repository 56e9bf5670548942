package vesting

import (
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
)

const day = 24 * time.Hour

func TestScenarioNativeReleaseAfterUnlock(t *testing.T) {
	e := newEnv(t)
	id := e.create()

	unlock := e.unix(day)
	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: unlock, Amount: 1000})
	assert.Nil(t, err)

	esc := e.escrow(id)
	assert.Equal(t, true, esc.Funded)
	assert.Equal(t, unlock, esc.UnlockTime)
	assert.Equal(t, AssetNative, esc.Asset.Kind)
	assert.Equal(t, uint64(1000), e.native(esc.Address))
	assert.Equal(t, uint64(4000), e.native(e.owner.Address()))

	_, err = e.deliver(e.beneficiary, &WithdrawNativeMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrTooEarly, err)

	e.now = unlock.Time()
	_, err = e.deliver(e.beneficiary, &WithdrawNativeMsg{Metadata: meta, EscrowId: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(1000), e.native(e.beneficiary.Address()))
	assert.Equal(t, uint64(0), e.native(esc.Address))

	// The record is kept, in its terminal state.
	esc = e.escrow(id)
	assert.Equal(t, true, esc.Withdrawn)
	assert.Equal(t, true, esc.Funded)

	_, err = e.deliver(e.beneficiary, &WithdrawNativeMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrAlreadyWithdrawn, err)
	assert.Equal(t, uint64(1000), e.native(e.beneficiary.Address()))
}

func TestScenarioTokenFundingPreconditions(t *testing.T) {
	e := newEnv(t)
	id := e.create()
	esc := e.escrow(id)
	unlock := e.unix(day)
	fund := &FundTokenMsg{Metadata: meta, EscrowId: id, UnlockTime: unlock, Token: e.token, Amount: 1}

	// Owner holds tokens but did not approve the escrow.
	_, err := e.deliver(e.owner, fund)
	assert.IsErr(t, ErrInsufficientAllowance, err)

	// Approved, but all tokens are gone.
	e.approve(esc.Address, 1)
	assert.Nil(t, e.tokens.Transfer(e.db, e.token, e.owner.Address(), e.stranger.Address(), 1000))
	_, err = e.deliver(e.owner, fund)
	assert.IsErr(t, ErrInsufficientFunds, err)

	assert.Equal(t, false, e.escrow(id).Funded)
}

func TestScenarioFundingTwice(t *testing.T) {
	e := newEnv(t)
	id := e.create()
	esc := e.escrow(id)
	e.approve(esc.Address, 100)

	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Amount: 10})
	assert.Nil(t, err)

	_, err = e.deliver(e.owner, &FundTokenMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Token: e.token, Amount: 100})
	assert.IsErr(t, ErrAlreadyFunded, err)

	_, err = e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(2 * day), Amount: 10})
	assert.IsErr(t, ErrAlreadyFunded, err)

	esc = e.escrow(id)
	assert.Equal(t, AssetNative, esc.Asset.Kind)
	assert.Equal(t, uint64(10), esc.Amount)
	assert.Equal(t, e.unix(day), esc.UnlockTime)
	assert.Equal(t, uint64(10), e.native(esc.Address))
	assert.Equal(t, uint64(0), e.tokenBalance(esc.Address))
}

func TestScenarioWrongWithdrawPath(t *testing.T) {
	e := newEnv(t)
	id := e.create()
	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Amount: 10})
	assert.Nil(t, err)

	e.now = e.now.Add(2 * day)
	_, err = e.deliver(e.beneficiary, &WithdrawTokenMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrAssetKindMismatch, err)

	esc := e.escrow(id)
	assert.Equal(t, false, esc.Withdrawn)
	assert.Equal(t, uint64(10), e.native(esc.Address))
	assert.Equal(t, uint64(0), e.native(e.beneficiary.Address()))
	assert.Equal(t, uint64(0), e.tokenBalance(e.beneficiary.Address()))
}

func TestTokenEscrowLifecycle(t *testing.T) {
	e := newEnv(t)
	id := e.create()
	esc := e.escrow(id)
	e.approve(esc.Address, 300)

	unlock := e.unix(day)
	_, err := e.deliver(e.owner, &FundTokenMsg{Metadata: meta, EscrowId: id, UnlockTime: unlock, Token: e.token, Amount: 250})
	assert.Nil(t, err)

	esc = e.escrow(id)
	assert.Equal(t, AssetFungible, esc.Asset.Kind)
	assert.Equal(t, e.token, esc.Asset.Token)
	assert.Equal(t, uint64(250), e.tokenBalance(esc.Address))
	assert.Equal(t, uint64(750), e.tokenBalance(e.owner.Address()))

	allowed, err := e.tokens.Allowance(e.db, e.token, e.owner.Address(), esc.Address)
	assert.Nil(t, err)
	assert.Equal(t, uint64(50), allowed)

	_, err = e.deliver(e.beneficiary, &WithdrawNativeMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrTooEarly, err)

	e.now = unlock.Time().Add(time.Hour)
	_, err = e.deliver(e.beneficiary, &WithdrawNativeMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrAssetKindMismatch, err)

	_, err = e.deliver(e.beneficiary, &WithdrawTokenMsg{Metadata: meta, EscrowId: id})
	assert.Nil(t, err)
	assert.Equal(t, uint64(250), e.tokenBalance(e.beneficiary.Address()))
	assert.Equal(t, uint64(0), e.tokenBalance(esc.Address))

	_, err = e.deliver(e.beneficiary, &WithdrawTokenMsg{Metadata: meta, EscrowId: id})
	assert.IsErr(t, ErrAlreadyWithdrawn, err)
	assert.Equal(t, uint64(250), e.tokenBalance(e.beneficiary.Address()))
}

func TestCreate(t *testing.T) {
	e := newEnv(t)

	_, err := e.deliver(e.owner, &CreateMsg{Metadata: meta})
	assert.IsErr(t, ErrInvalidBeneficiary, err)
	_, err = e.deliver(e.owner, &CreateMsg{Metadata: meta, Beneficiary: make([]byte, timelock.AddressLength)})
	assert.IsErr(t, ErrInvalidBeneficiary, err)
	_, err = e.deliver(nil, &CreateMsg{Metadata: meta, Beneficiary: e.beneficiary.Address()})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Nothing was stored by the failed attempts.
	latest, err := escrowSeq.Latest(e.db)
	assert.Nil(t, err)
	assert.Equal(t, int64(0), latest)

	id := e.create()
	assert.Equal(t, timelocktest.SequenceID(1), id)

	esc := e.escrow(id)
	assert.Equal(t, e.owner.Address(), esc.Owner)
	assert.Equal(t, e.beneficiary.Address(), esc.Beneficiary)
	assert.Equal(t, false, esc.Funded)
	assert.Equal(t, AssetNone, esc.Asset.Kind)
	assert.Equal(t, uint64(0), esc.Amount)
	assert.Equal(t, timelock.UnixTime(0), esc.UnlockTime)
	assert.Equal(t, Condition(id).Address(), esc.Address)

	// Escrows are independent of each other.
	other := e.create()
	assert.Equal(t, timelocktest.SequenceID(2), other)
	if e.escrow(other).Address.Equals(esc.Address) {
		t.Fatal("escrows share an address")
	}
}

func TestFundingPreconditionOrder(t *testing.T) {
	cases := map[string]struct {
		signer  func(*env) timelock.Condition
		funded  bool
		unlock  time.Duration
		amount  uint64
		wantErr *errors.Error
	}{
		"not owner beats everything": {
			signer:  func(e *env) timelock.Condition { return e.beneficiary },
			funded:  true,
			unlock:  -day,
			amount:  0,
			wantErr: ErrNotOwner,
		},
		"already funded beats unlock time": {
			funded:  true,
			unlock:  -day,
			amount:  0,
			wantErr: ErrAlreadyFunded,
		},
		"unlock time equal to now": {
			unlock:  0,
			amount:  0,
			wantErr: ErrUnlockNotInFuture,
		},
		"unlock time in the past": {
			unlock:  -time.Second,
			amount:  10,
			wantErr: ErrUnlockNotInFuture,
		},
		"zero amount": {
			unlock:  time.Second,
			amount:  0,
			wantErr: ErrZeroAmount,
		},
		"valid": {
			unlock: time.Second,
			amount: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			for _, kind := range []AssetKind{AssetNative, AssetFungible} {
				e := newEnv(t)
				id := e.create()
				e.approve(e.escrow(id).Address, 100)
				if tc.funded {
					_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Amount: 1})
					assert.Nil(t, err)
				}
				signer := e.owner
				if tc.signer != nil {
					signer = tc.signer(e)
				}

				var msg timelock.Msg = &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(tc.unlock), Amount: tc.amount}
				if kind == AssetFungible {
					msg = &FundTokenMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(tc.unlock), Token: e.token, Amount: tc.amount}
				}
				_, err := e.deliver(signer, msg)
				if tc.wantErr == nil {
					assert.Nil(t, err)
				} else {
					assert.IsErr(t, tc.wantErr, err)
				}
			}
		})
	}
}

func TestFundUnknownEscrow(t *testing.T) {
	e := newEnv(t)
	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: timelocktest.SequenceID(7), UnlockTime: e.unix(day), Amount: 1})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestFundUnknownToken(t *testing.T) {
	e := newEnv(t)
	id := e.create()
	unknown := timelocktest.NewCondition().Address()
	_, err := e.deliver(e.owner, &FundTokenMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Token: unknown, Amount: 1})
	assert.IsErr(t, errors.ErrNotFound, err)
}

func TestFundNativeTransferFailure(t *testing.T) {
	e := newEnv(t)
	id := e.create()

	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Amount: 5001})
	assert.IsErr(t, ErrTransferFailed, err)

	esc := e.escrow(id)
	assert.Equal(t, false, esc.Funded)
	assert.Equal(t, AssetNone, esc.Asset.Kind)
	assert.Equal(t, uint64(0), esc.Amount)
	assert.Equal(t, uint64(5000), e.native(e.owner.Address()))

	// A failed funding does not count, the escrow can still be funded.
	_, err = e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: id, UnlockTime: e.unix(day), Amount: 5000})
	assert.Nil(t, err)
}

func TestWithdrawPreconditions(t *testing.T) {
	e := newEnv(t)
	unfunded := e.create()
	funded := e.create()
	_, err := e.deliver(e.owner, &FundNativeMsg{Metadata: meta, EscrowId: funded, UnlockTime: e.unix(day), Amount: 100})
	assert.Nil(t, err)

	for _, who := range []timelock.Condition{e.owner, e.beneficiary, e.stranger} {
		_, err := e.deliver(who, &WithdrawNativeMsg{Metadata: meta, EscrowId: unfunded})
		assert.IsErr(t, ErrNotFunded, err)
		_, err = e.deliver(who, &WithdrawTokenMsg{Metadata: meta, EscrowId: unfunded})
		assert.IsErr(t, ErrNotFunded, err)
	}

	// Before the unlock time nobody can withdraw, whatever path.
	for _, who := range []timelock.Condition{e.owner, e.beneficiary, e.stranger} {
		_, err := e.deliver(who, &WithdrawNativeMsg{Metadata: meta, EscrowId: funded})
		assert.IsErr(t, ErrTooEarly, err)
		_, err = e.deliver(who, &WithdrawTokenMsg{Metadata: meta, EscrowId: funded})
		assert.IsErr(t, ErrTooEarly, err)
	}

	e.now = e.now.Add(day)
	for _, who := range []timelock.Condition{e.owner, e.stranger} {
		_, err := e.deliver(who, &WithdrawNativeMsg{Metadata: meta, EscrowId: funded})
		assert.IsErr(t, ErrNotBeneficiary, err)
		_, err = e.deliver(who, &WithdrawTokenMsg{Metadata: meta, EscrowId: funded})
		assert.IsErr(t, ErrNotBeneficiary, err)
	}
	assert.Equal(t, uint64(100), e.native(e.escrow(funded).Address))
}

func TestQueries(t *testing.T) {
	e := newEnv(t)
	first := e.create()
	e.beneficiary = e.stranger
	second := e.create()

	qr := timelock.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/escrows").Query(e.db, "", first)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, first, res[0].Key)

	res, err = qr.Handler("/escrows/owner").Query(e.db, "", e.owner.Address())
	assert.Nil(t, err)
	assert.Equal(t, 2, len(res))

	res, err = qr.Handler("/escrows/beneficiary").Query(e.db, "", e.stranger.Address())
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, second, res[0].Key)

	var esc Escrow
	assert.Nil(t, timelock.Unmarshal(res[0].Value, &esc))
	assert.Equal(t, e.stranger.Address(), esc.Beneficiary)
}

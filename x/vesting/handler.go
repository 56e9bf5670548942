package vesting

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
	"github.com/iov-one/timelock/x"
)

const (
	createEscrowCost   int64 = 300
	fundEscrowCost     int64 = 100
	withdrawEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r timelock.Registry, auth x.Authenticator, native NativeMover, ledger FungibleLedger) {
	bucket := NewBucket()
	r.Handle(&CreateMsg{}, CreateHandler{auth: auth, bucket: bucket})
	r.Handle(&FundNativeMsg{}, FundNativeHandler{auth: auth, bucket: bucket, native: native})
	r.Handle(&FundTokenMsg{}, FundTokenHandler{auth: auth, bucket: bucket, ledger: ledger})
	r.Handle(&WithdrawNativeMsg{}, WithdrawNativeHandler{auth: auth, bucket: bucket, native: native})
	r.Handle(&WithdrawTokenMsg{}, WithdrawTokenHandler{auth: auth, bucket: bucket, ledger: ledger})
}

// RegisterQuery will register the escrows bucket as "/escrows", together
// with the "/escrows/owner" and "/escrows/beneficiary" indexes.
func RegisterQuery(qr timelock.QueryRouter) {
	NewBucket().Register("escrows", qr)
}

// CreateHandler creates unfunded escrows.
type CreateHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ timelock.Handler = CreateHandler{}

func (h CreateHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver stores a new escrow and returns its ID.
func (h CreateHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, owner, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}

	var id []byte
	err = atomic(db, func(db timelock.KVStore) error {
		key, err := escrowSeq.NextVal(db)
		if err != nil {
			return errors.Wrap(err, "cannot acquire key")
		}
		if _, err := h.bucket.Put(db, key, NewEscrow(key, owner, msg.Beneficiary)); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		id = key
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("escrow created",
		"escrow", id, "owner", owner, "beneficiary", msg.Beneficiary)
	return &timelock.DeliverResult{Data: id}, nil
}

func (h CreateHandler) validate(ctx timelock.Context, tx timelock.Tx) (*CreateMsg, timelock.Address, error) {
	var msg CreateMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer, err := x.Signer(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, signer, nil
}

// FundNativeHandler funds an escrow with the native currency of the owner.
type FundNativeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	native NativeMover
}

var _ timelock.Handler = FundNativeHandler{}

func (h FundNativeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: fundEscrowCost}, nil
}

// Deliver marks the escrow funded and then moves the attached amount from
// the owner wallet to the escrow address.
func (h FundNativeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow.fund(NativeAsset(), msg.Amount, msg.UnlockTime)
	err = atomic(db, func(db timelock.KVStore) error {
		if _, err := h.bucket.Put(db, msg.EscrowId, escrow); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		if err := h.native.MoveCoins(db, escrow.Owner, escrow.Address, msg.Amount); err != nil {
			return transferFailed(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("escrow funded",
		"escrow", msg.EscrowId, "owner", escrow.Owner, "beneficiary", escrow.Beneficiary,
		"asset", escrow.Asset.Kind, "amount", escrow.Amount, "unlock", escrow.UnlockTime)
	return &timelock.DeliverResult{Data: msg.EscrowId}, nil
}

func (h FundNativeHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*FundNativeMsg, *Escrow, error) {
	var msg FundNativeMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadFundable(ctx, h.auth, h.bucket, db, msg.EscrowId, msg.UnlockTime)
	if err != nil {
		return nil, nil, err
	}
	if msg.Amount == 0 {
		return nil, nil, errors.Wrap(ErrZeroAmount, "native amount")
	}
	return &msg, escrow, nil
}

// FundTokenHandler funds an escrow with a fungible token of the owner.
type FundTokenHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger FungibleLedger
}

var _ timelock.Handler = FundTokenHandler{}

func (h FundTokenHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: fundEscrowCost}, nil
}

// Deliver marks the escrow funded and then pulls the tokens from the owner,
// using the allowance granted to the escrow address.
func (h FundTokenHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	escrow.fund(FungibleAsset(msg.Token), msg.Amount, msg.UnlockTime)
	err = atomic(db, func(db timelock.KVStore) error {
		if _, err := h.bucket.Put(db, msg.EscrowId, escrow); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		err := h.ledger.TransferFrom(db, msg.Token, escrow.Address, escrow.Owner, escrow.Address, msg.Amount)
		if err != nil {
			return transferFailed(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("escrow funded",
		"escrow", msg.EscrowId, "owner", escrow.Owner, "beneficiary", escrow.Beneficiary,
		"asset", escrow.Asset.Kind, "token", msg.Token, "amount", escrow.Amount, "unlock", escrow.UnlockTime)
	return &timelock.DeliverResult{Data: msg.EscrowId}, nil
}

func (h FundTokenHandler) validate(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*FundTokenMsg, *Escrow, error) {
	var msg FundTokenMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadFundable(ctx, h.auth, h.bucket, db, msg.EscrowId, msg.UnlockTime)
	if err != nil {
		return nil, nil, err
	}
	if msg.Amount == 0 {
		return nil, nil, errors.Wrap(ErrZeroAmount, "token amount")
	}

	balance, err := h.ledger.BalanceOf(db, msg.Token, escrow.Owner)
	if err != nil {
		return nil, nil, errors.Wrap(err, "owner balance")
	}
	if balance < msg.Amount {
		return nil, nil, errors.Wrapf(ErrInsufficientFunds, "balance %d, required %d", balance, msg.Amount)
	}
	allowed, err := h.ledger.Allowance(db, msg.Token, escrow.Owner, escrow.Address)
	if err != nil {
		return nil, nil, errors.Wrap(err, "escrow allowance")
	}
	if allowed < msg.Amount {
		return nil, nil, errors.Wrapf(ErrInsufficientAllowance, "allowed %d, required %d", allowed, msg.Amount)
	}
	return &msg, escrow, nil
}

// loadFundable returns the escrow if the signer can fund it now with given
// unlock time. Checks are done in order: owner, not yet funded, unlock time
// in the future.
func loadFundable(
	ctx timelock.Context,
	auth x.Authenticator,
	bucket orm.ModelBucket,
	db timelock.ReadOnlyKVStore,
	id []byte,
	unlock timelock.UnixTime,
) (*Escrow, error) {
	escrow, err := loadEscrow(bucket, db, id)
	if err != nil {
		return nil, err
	}
	if !auth.HasAddress(ctx, escrow.Owner) {
		return nil, errors.Wrap(ErrNotOwner, "owner signature missing")
	}
	if escrow.Funded {
		return nil, errors.Wrapf(ErrAlreadyFunded, "escrow %X", id)
	}
	if !timelock.InTheFuture(ctx, unlock) {
		return nil, errors.Wrapf(ErrUnlockNotInFuture, "unlock time %s", unlock)
	}
	return escrow, nil
}

// WithdrawNativeHandler releases native currency to the beneficiary.
type WithdrawNativeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	native NativeMover
}

var _ timelock.Handler = WithdrawNativeHandler{}

func (h WithdrawNativeHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	var msg WithdrawNativeMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := loadWithdrawable(ctx, h.auth, h.bucket, db, msg.EscrowId, AssetNative); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: withdrawEscrowCost}, nil
}

// Deliver marks the escrow withdrawn and then moves the whole amount to the
// beneficiary.
func (h WithdrawNativeHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	var msg WithdrawNativeMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadWithdrawable(ctx, h.auth, h.bucket, db, msg.EscrowId, AssetNative)
	if err != nil {
		return nil, err
	}

	escrow.Withdrawn = true
	err = atomic(db, func(db timelock.KVStore) error {
		if _, err := h.bucket.Put(db, msg.EscrowId, escrow); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		if err := h.native.MoveCoins(db, escrow.Address, escrow.Beneficiary, escrow.Amount); err != nil {
			return transferFailed(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("escrow withdrawn",
		"escrow", msg.EscrowId, "owner", escrow.Owner, "beneficiary", escrow.Beneficiary,
		"asset", escrow.Asset.Kind, "amount", escrow.Amount)
	return &timelock.DeliverResult{Data: msg.EscrowId}, nil
}

// WithdrawTokenHandler releases a fungible token to the beneficiary.
type WithdrawTokenHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	ledger FungibleLedger
}

var _ timelock.Handler = WithdrawTokenHandler{}

func (h WithdrawTokenHandler) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.CheckResult, error) {
	var msg WithdrawTokenMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := loadWithdrawable(ctx, h.auth, h.bucket, db, msg.EscrowId, AssetFungible); err != nil {
		return nil, err
	}
	return &timelock.CheckResult{GasAllocated: withdrawEscrowCost}, nil
}

// Deliver marks the escrow withdrawn and then transfers the whole amount of
// the token to the beneficiary.
func (h WithdrawTokenHandler) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx) (*timelock.DeliverResult, error) {
	var msg WithdrawTokenMsg
	if err := timelock.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadWithdrawable(ctx, h.auth, h.bucket, db, msg.EscrowId, AssetFungible)
	if err != nil {
		return nil, err
	}

	escrow.Withdrawn = true
	err = atomic(db, func(db timelock.KVStore) error {
		if _, err := h.bucket.Put(db, msg.EscrowId, escrow); err != nil {
			return errors.Wrap(err, "cannot store escrow")
		}
		err := h.ledger.Transfer(db, escrow.Asset.Token, escrow.Address, escrow.Beneficiary, escrow.Amount)
		if err != nil {
			return transferFailed(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	timelock.GetLogger(ctx).Info("escrow withdrawn",
		"escrow", msg.EscrowId, "owner", escrow.Owner, "beneficiary", escrow.Beneficiary,
		"asset", escrow.Asset.Kind, "token", escrow.Asset.Token, "amount", escrow.Amount)
	return &timelock.DeliverResult{Data: msg.EscrowId}, nil
}

// loadWithdrawable returns the escrow if the signer can withdraw it now.
// Checks are done in order: funded, unlocked, beneficiary, not yet
// withdrawn, asset kind.
func loadWithdrawable(
	ctx timelock.Context,
	auth x.Authenticator,
	bucket orm.ModelBucket,
	db timelock.ReadOnlyKVStore,
	id []byte,
	kind AssetKind,
) (*Escrow, error) {
	escrow, err := loadEscrow(bucket, db, id)
	if err != nil {
		return nil, err
	}
	if !escrow.Funded {
		return nil, errors.Wrapf(ErrNotFunded, "escrow %X", id)
	}
	if timelock.InTheFuture(ctx, escrow.UnlockTime) {
		return nil, errors.Wrapf(ErrTooEarly, "unlocks at %s", escrow.UnlockTime)
	}
	if !auth.HasAddress(ctx, escrow.Beneficiary) {
		return nil, errors.Wrap(ErrNotBeneficiary, "beneficiary signature missing")
	}
	if escrow.Withdrawn {
		return nil, errors.Wrapf(ErrAlreadyWithdrawn, "escrow %X", id)
	}
	if escrow.Asset.Kind != kind {
		return nil, errors.Wrapf(ErrAssetKindMismatch, "escrow holds %s asset, not %s", escrow.Asset.Kind, kind)
	}
	return escrow, nil
}

func loadEscrow(bucket orm.ModelBucket, db timelock.ReadOnlyKVStore, id []byte) (*Escrow, error) {
	var escrow Escrow
	if err := bucket.One(db, id, &escrow); err != nil {
		return nil, errors.Wrap(err, "cannot load escrow from the store")
	}
	return &escrow, nil
}

package cash

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Controller is the functionality needed by cash.Handler.
// Other extensions can use it to move the native currency.
type Controller interface {
	// Balance returns the amount held by the address. A missing wallet
	// has a zero balance.
	Balance(timelock.ReadOnlyKVStore, timelock.Address) (uint64, error)
	// MoveCoins moves the given amount from src to dest. If src
	// doesn't exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error
	// CoinMint adds the given amount to the destination wallet. Fails if
	// it overflows the wallet.
	CoinMint(db timelock.KVStore, dest timelock.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a basic controller implementation
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

func (c BaseController) Balance(db timelock.ReadOnlyKVStore, addr timelock.Address) (uint64, error) {
	w, err := c.load(db, addr)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c BaseController) MoveCoins(db timelock.KVStore, src, dest timelock.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if dest.IsZero() {
		return errors.Wrap(errors.ErrInput, "destination is the null address")
	}

	sender := newWallet()
	switch err := c.bucket.One(db, src, sender); {
	case errors.ErrNotFound.Is(err):
		return errors.Wrapf(errors.ErrEmpty, "empty account %s", src)
	case err != nil:
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}

	// moving to self is a no-op once the balance is checked
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := recipient.Add(amount); err != nil {
		return err
	}

	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return err
	}
	_, err = c.bucket.Put(db, dest, recipient)
	return err
}

func (c BaseController) CoinMint(db timelock.KVStore, dest timelock.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	w, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if err := w.Add(amount); err != nil {
		return err
	}
	_, err = c.bucket.Put(db, dest, w)
	return err
}

// load returns the stored wallet or an empty one.
func (c BaseController) load(db timelock.ReadOnlyKVStore, addr timelock.Address) (*Wallet, error) {
	w := newWallet()
	switch err := c.bucket.One(db, addr, w); {
	case err == nil:
		return w, nil
	case errors.ErrNotFound.Is(err):
		return newWallet(), nil
	default:
		return nil, err
	}
}

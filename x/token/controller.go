package token

import (
	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// Controller gives access to the token ledger. All amounts are expressed in
// the smallest unit of the token.
type Controller interface {
	// Create registers a new token and mints the whole initial supply to
	// the issuer. The address of the new token is returned.
	Create(db timelock.KVStore, issuer timelock.Address, name, symbol string, supply uint64) (timelock.Address, error)

	// Token returns the description of a token or ErrNotFound.
	Token(db timelock.ReadOnlyKVStore, token timelock.Address) (*Token, error)

	BalanceOf(db timelock.ReadOnlyKVStore, token, holder timelock.Address) (uint64, error)
	Allowance(db timelock.ReadOnlyKVStore, token, owner, spender timelock.Address) (uint64, error)

	// Approve sets the amount that the spender can move on behalf of the
	// owner. Any previous allowance is replaced.
	Approve(db timelock.KVStore, token, owner, spender timelock.Address, amount uint64) error

	// Transfer moves the amount of the token between two holders.
	Transfer(db timelock.KVStore, token, from, to timelock.Address, amount uint64) error

	// TransferFrom moves the amount on behalf of the owner, decreasing
	// the allowance granted to the spender.
	TransferFrom(db timelock.KVStore, token, spender, from, to timelock.Address, amount uint64) error

	// Mint increases both the supply of the token and the balance of the
	// recipient.
	Mint(db timelock.KVStore, token, to timelock.Address, amount uint64) error
}

// BaseController is the ledger kept in the application store.
type BaseController struct {
	tokens     orm.ModelBucket
	balances   orm.ModelBucket
	allowances orm.ModelBucket
	seq        orm.Sequence
}

var _ Controller = BaseController{}

// NewController returns a controller using the default buckets.
func NewController() BaseController {
	return BaseController{
		tokens:     NewBucket(),
		balances:   newBalanceBucket(),
		allowances: newAllowanceBucket(),
		seq:        orm.NewSequence(BucketName, "id"),
	}
}

func (c BaseController) Create(db timelock.KVStore, issuer timelock.Address, name, symbol string, supply uint64) (timelock.Address, error) {
	id, err := c.seq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "token sequence")
	}
	addr := Address(id)
	t := &Token{
		Metadata: &timelock.Metadata{Schema: 1},
		Name:     name,
		Symbol:   symbol,
		Issuer:   issuer,
	}
	if _, err := c.tokens.Put(db, addr, t); err != nil {
		return nil, errors.Wrap(err, "save token")
	}
	if supply > 0 {
		if err := c.Mint(db, addr, issuer, supply); err != nil {
			return nil, err
		}
	}
	return addr, nil
}

func (c BaseController) Token(db timelock.ReadOnlyKVStore, token timelock.Address) (*Token, error) {
	var t Token
	if err := c.tokens.One(db, token, &t); err != nil {
		return nil, errors.Wrapf(err, "token %s", token)
	}
	return &t, nil
}

func (c BaseController) BalanceOf(db timelock.ReadOnlyKVStore, token, holder timelock.Address) (uint64, error) {
	if _, err := c.Token(db, token); err != nil {
		return 0, err
	}
	return c.amount(db, c.balances, balanceKey(token, holder))
}

func (c BaseController) Allowance(db timelock.ReadOnlyKVStore, token, owner, spender timelock.Address) (uint64, error) {
	if _, err := c.Token(db, token); err != nil {
		return 0, err
	}
	return c.amount(db, c.allowances, allowanceKey(token, owner, spender))
}

func (c BaseController) Approve(db timelock.KVStore, token, owner, spender timelock.Address, amount uint64) error {
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	if spender.IsZero() {
		return errors.Wrap(errors.ErrInput, "spender is the null address")
	}
	key := allowanceKey(token, owner, spender)
	if amount == 0 {
		switch err := c.allowances.Delete(db, key); {
		case err == nil, errors.ErrNotFound.Is(err):
			return nil
		default:
			return err
		}
	}
	_, err := c.allowances.Put(db, key, newHolding(amount))
	return err
}

func (c BaseController) Transfer(db timelock.KVStore, token, from, to timelock.Address, amount uint64) error {
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	return c.move(db, token, from, to, amount)
}

func (c BaseController) TransferFrom(db timelock.KVStore, token, spender, from, to timelock.Address, amount uint64) error {
	if _, err := c.Token(db, token); err != nil {
		return err
	}
	key := allowanceKey(token, from, spender)
	allowed, err := c.amount(db, c.allowances, key)
	if err != nil {
		return err
	}
	if allowed < amount {
		return errors.Wrapf(ErrAllowance, "allowed %d, required %d", allowed, amount)
	}
	if err := c.move(db, token, from, to, amount); err != nil {
		return err
	}
	return c.Approve(db, token, from, spender, allowed-amount)
}

func (c BaseController) Mint(db timelock.KVStore, token, to timelock.Address, amount uint64) error {
	t, err := c.Token(db, token)
	if err != nil {
		return err
	}
	if to.IsZero() {
		return errors.Wrap(errors.ErrInput, "recipient is the null address")
	}
	supply := t.Supply + amount
	if supply < t.Supply {
		return errors.Wrap(errors.ErrOverflow, "token supply")
	}
	t.Supply = supply
	if _, err := c.tokens.Put(db, token, t); err != nil {
		return err
	}

	// The supply bounds every balance, so no overflow can happen here.
	key := balanceKey(token, to)
	bal, err := c.amount(db, c.balances, key)
	if err != nil {
		return err
	}
	_, err = c.balances.Put(db, key, newHolding(bal+amount))
	return err
}

func (c BaseController) move(db timelock.KVStore, token, from, to timelock.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if to.IsZero() {
		return errors.Wrap(errors.ErrInput, "recipient is the null address")
	}

	fromKey := balanceKey(token, from)
	fromBal, err := c.amount(db, c.balances, fromKey)
	if err != nil {
		return err
	}
	if fromBal < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", fromBal, amount)
	}
	if from.Equals(to) {
		return nil
	}
	toKey := balanceKey(token, to)
	toBal, err := c.amount(db, c.balances, toKey)
	if err != nil {
		return err
	}

	if _, err := c.balances.Put(db, fromKey, newHolding(fromBal-amount)); err != nil {
		return err
	}
	_, err = c.balances.Put(db, toKey, newHolding(toBal+amount))
	return err
}

// amount returns the stored amount or zero if nothing is stored.
func (c BaseController) amount(db timelock.ReadOnlyKVStore, b orm.ModelBucket, key []byte) (uint64, error) {
	var h Holding
	switch err := b.One(db, key, &h); {
	case err == nil:
		return h.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

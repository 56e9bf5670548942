package vesting

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/timelocktest/assert"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/token"
)

var meta = &timelock.Metadata{Schema: 1}

type registry map[string]timelock.Handler

func (r registry) Handle(m timelock.Msg, h timelock.Handler) {
	r[m.Path()] = h
}

// env is a chain with an owner holding native coins and tokens, a
// beneficiary and a stranger.
type env struct {
	t      testing.TB
	db     timelock.CacheableKVStore
	now    time.Time
	auth   *timelocktest.CtxAuth
	cash   cash.BaseController
	tokens token.BaseController
	routes registry

	owner       timelock.Condition
	beneficiary timelock.Condition
	stranger    timelock.Condition
	token       timelock.Address
}

func newEnv(t testing.TB) *env {
	e := &env{
		t:           t,
		db:          store.MemStore(),
		now:         time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		auth:        &timelocktest.CtxAuth{Key: "auth"},
		cash:        cash.NewController(),
		tokens:      token.NewController(),
		routes:      make(registry),
		owner:       timelocktest.NewCondition(),
		beneficiary: timelocktest.NewCondition(),
		stranger:    timelocktest.NewCondition(),
	}
	RegisterRoutes(e.routes, e.auth, e.cash, e.tokens)

	assert.Nil(t, e.cash.CoinMint(e.db, e.owner.Address(), 5000))
	tok, err := e.tokens.Create(e.db, e.owner.Address(), "Gold", "GLD", 1000)
	assert.Nil(t, err)
	e.token = tok
	return e
}

func (e *env) ctx(signer timelock.Condition) timelock.Context {
	ctx := timelock.WithBlockTime(context.Background(), e.now)
	if signer == nil {
		return ctx
	}
	return e.auth.SetConditions(ctx, signer)
}

func (e *env) unix(d time.Duration) timelock.UnixTime {
	return timelock.AsUnixTime(e.now.Add(d))
}

// deliver runs the message through Check on a throw away cache and then
// through Deliver. A message rejected by Check must be rejected by Deliver
// as well.
func (e *env) deliver(signer timelock.Condition, msg timelock.Msg) ([]byte, error) {
	e.t.Helper()
	h, ok := e.routes[msg.Path()]
	if !ok {
		e.t.Fatalf("no handler for %q", msg.Path())
	}
	tx := &timelocktest.Tx{Msg: msg}

	cache := e.db.CacheWrap()
	_, checkErr := h.Check(e.ctx(signer), cache, tx)
	cache.Discard()

	res, err := h.Deliver(e.ctx(signer), e.db, tx)
	if checkErr != nil && err == nil {
		e.t.Fatalf("check returned %v, deliver returned %v", checkErr, err)
	}
	if err != nil {
		return nil, err
	}
	return res.Data, nil
}

func (e *env) create() []byte {
	e.t.Helper()
	id, err := e.deliver(e.owner, &CreateMsg{Metadata: meta, Beneficiary: e.beneficiary.Address()})
	assert.Nil(e.t, err)
	return id
}

func (e *env) escrow(id []byte) *Escrow {
	e.t.Helper()
	var esc Escrow
	assert.Nil(e.t, NewBucket().One(e.db, id, &esc))
	return &esc
}

func (e *env) native(addr timelock.Address) uint64 {
	e.t.Helper()
	bal, err := e.cash.Balance(e.db, addr)
	assert.Nil(e.t, err)
	return bal
}

func (e *env) tokenBalance(addr timelock.Address) uint64 {
	e.t.Helper()
	bal, err := e.tokens.BalanceOf(e.db, e.token, addr)
	assert.Nil(e.t, err)
	return bal
}

func (e *env) approve(spender timelock.Address, amount uint64) {
	e.t.Helper()
	assert.Nil(e.t, e.tokens.Approve(e.db, e.token, e.owner.Address(), spender, amount))
}

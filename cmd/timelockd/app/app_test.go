package app

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/app"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/timelocktest"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/vesting"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "test-chain-1"

// testNode drives the ABCI application one block at a time.
type testNode struct {
	t      *testing.T
	app    app.BaseApp
	height int64
	now    time.Time
	seqs   map[string]int64
}

func newTestNode(t *testing.T, genesis string) *testNode {
	t.Helper()
	stack, err := Stack(prometheus.NewRegistry())
	require.NoError(t, err)
	application, err := Application("timelockd-test", stack, TxDecoder, "", true)
	require.NoError(t, err)

	application.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		AppStateBytes: []byte(genesis),
	})
	return &testNode{
		t:    t,
		app:  application,
		now:  time.Date(2019, 6, 1, 10, 0, 0, 0, time.UTC),
		seqs: make(map[string]int64),
	}
}

// block runs all given transactions in a single block, committed with the
// given time step. Results of DeliverTx are returned in order.
func (n *testNode) block(step time.Duration, txs ...[]byte) []abci.ResponseDeliverTx {
	n.height++
	n.now = n.now.Add(step)
	n.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{Height: n.height, Time: n.now, ChainID: chainID},
	})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = n.app.DeliverTx(tx)
	}
	n.app.EndBlock(abci.RequestEndBlock{Height: n.height})
	n.app.Commit()
	return res
}

// sign builds a transaction carrying msg, signed by key with its next
// sequence.
func (n *testNode) sign(key *crypto.PrivateKey, msg timelock.Msg) []byte {
	n.t.Helper()
	tx := &Tx{}
	require.NoError(n.t, tx.SetMsg(msg))
	seqKey := key.PublicKey().Address().String()
	sig, err := sigs.SignTx(key, tx, chainID, n.seqs[seqKey])
	require.NoError(n.t, err)
	n.seqs[seqKey]++
	tx.Signatures = []*sigs.StdSignature{sig}
	return timelock.MustMarshal(tx)
}

func (n *testNode) balance(addr timelock.Address) uint64 {
	n.t.Helper()
	res := n.app.Query(abci.RequestQuery{Path: "/wallets", Data: addr})
	require.Equal(n.t, errors.SuccessABCICode, res.Code, res.Log)
	var w cash.Wallet
	require.NoError(n.t, app.UnmarshalOneResult(res.Value, &w))
	return w.Balance
}

func (n *testNode) escrow(id []byte) *vesting.Escrow {
	n.t.Helper()
	res := n.app.Query(abci.RequestQuery{Path: "/escrows", Data: id})
	require.Equal(n.t, errors.SuccessABCICode, res.Code, res.Log)
	var e vesting.Escrow
	require.NoError(n.t, app.UnmarshalOneResult(res.Value, &e))
	return &e
}

func TestNativeVestingLifecycle(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519()
	beneficiary := crypto.GenPrivKeyEd25519()
	ownerAddr := owner.PublicKey().Address()
	benefAddr := beneficiary.PublicKey().Address()

	genesis := fmt.Sprintf(`{"cash": [{"address": "%s", "balance": 1000}]}`, ownerAddr)
	n := newTestNode(t, genesis)

	res := n.block(time.Second, n.sign(owner, &vesting.CreateMsg{
		Metadata:    &timelock.Metadata{Schema: 1},
		Beneficiary: benefAddr,
	}))
	require.Equal(t, errors.SuccessABCICode, res[0].Code, res[0].Log)
	escrowID := res[0].Data

	unlock := timelock.AsUnixTime(n.now.Add(time.Hour))
	res = n.block(time.Second, n.sign(owner, &vesting.FundNativeMsg{
		Metadata:   &timelock.Metadata{Schema: 1},
		EscrowId:   escrowID,
		UnlockTime: unlock,
		Amount:     400,
	}))
	require.Equal(t, errors.SuccessABCICode, res[0].Code, res[0].Log)
	assert.EqualValues(t, 600, n.balance(ownerAddr))

	e := n.escrow(escrowID)
	assert.True(t, e.Funded)
	assert.EqualValues(t, 400, e.Amount)
	assert.Equal(t, unlock, e.UnlockTime)
	assert.EqualValues(t, 400, n.balance(e.Address))

	withdraw := &vesting.WithdrawNativeMsg{
		Metadata: &timelock.Metadata{Schema: 1},
		EscrowId: escrowID,
	}

	// too early, nothing moves
	res = n.block(time.Minute, n.sign(beneficiary, withdraw))
	assert.Equal(t, vesting.ErrTooEarly.ABCICode(), res[0].Code, res[0].Log)
	assert.EqualValues(t, 0, n.balance(benefAddr))

	// the failed transaction still used the nonce
	res = n.block(time.Hour, n.sign(beneficiary, withdraw))
	require.Equal(t, errors.SuccessABCICode, res[0].Code, res[0].Log)
	assert.EqualValues(t, 400, n.balance(benefAddr))
	assert.EqualValues(t, 0, n.balance(e.Address))
	assert.True(t, n.escrow(escrowID).Withdrawn)

	// withdrawal is one-shot
	res = n.block(time.Second, n.sign(beneficiary, withdraw))
	assert.Equal(t, vesting.ErrAlreadyWithdrawn.ABCICode(), res[0].Code, res[0].Log)
}

func TestUnsignedTransactionRejected(t *testing.T) {
	n := newTestNode(t, `{}`)
	tx := &Tx{}
	require.NoError(t, tx.SetMsg(&vesting.CreateMsg{
		Metadata:    &timelock.Metadata{Schema: 1},
		Beneficiary: crypto.GenPrivKeyEd25519().PublicKey().Address(),
	}))
	res := n.block(time.Second, timelock.MustMarshal(tx))
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[0].Code, res[0].Log)

	check := n.app.CheckTx([]byte("not a transaction"))
	assert.NotEqual(t, errors.SuccessABCICode, check.Code)
}

func TestTxGetMsg(t *testing.T) {
	var empty Tx
	_, err := empty.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	send := &cash.SendMsg{Amount: 1}
	tx := Tx{CashSendMsg: send}
	msg, err := tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, send, msg)

	tx.VestingCreateMsg = &vesting.CreateMsg{}
	_, err = tx.GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	// SetMsg replaces whatever was set before
	require.NoError(t, tx.SetMsg(&vesting.WithdrawTokenMsg{}))
	msg, err = tx.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, "vesting/withdraw_token", msg.Path())

	assert.Error(t, tx.SetMsg(&timelocktest.Msg{RoutePath: "test/unknown"}))
}

func TestSignBytesIgnoreSignatures(t *testing.T) {
	tx := &Tx{CashSendMsg: &cash.SendMsg{Amount: 5}}
	before, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(crypto.GenPrivKeyEd25519(), tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}

	after, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGenInitOptions(t *testing.T) {
	addr := crypto.GenPrivKeyEd25519().PublicKey().Address()
	raw, err := GenInitOptions([]string{fmt.Sprintf("%X", []byte(addr))})
	require.NoError(t, err)

	var opts timelock.Options
	require.NoError(t, json.Unmarshal(raw, &opts))
	var accts []cash.GenesisAccount
	require.NoError(t, opts.ReadOptions("cash", &accts))
	require.Len(t, accts, 1)
	assert.Equal(t, addr, accts[0].Address)
	assert.EqualValues(t, initialBalance, accts[0].Balance)

	_, err = GenInitOptions([]string{"zzz"})
	assert.Error(t, err)
	_, err = GenInitOptions([]string{"abcd"})
	assert.Error(t, err)
}

func TestExamplesEncode(t *testing.T) {
	for _, ex := range Examples() {
		_, err := timelock.Marshal(ex.Obj)
		assert.NoError(t, err, ex.Filename)
		_, err = json.Marshal(ex.Obj)
		assert.NoError(t, err, ex.Filename)
	}
}

func TestQueryRouterPaths(t *testing.T) {
	want := []string{
		"/auth",
		"/escrows",
		"/escrows/beneficiary",
		"/escrows/owner",
		"/token_balances",
		"/tokens",
		"/tokens/issuer",
		"/wallets",
	}
	assert.Equal(t, want, QueryRouter().Paths())
}

package app

import (
	"encoding/hex"
	"strings"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/commands"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/x/cash"
	"github.com/iov-one/timelock/x/sigs"
	"github.com/iov-one/timelock/x/token"
	"github.com/iov-one/timelock/x/vesting"
)

// we fix the private keys here for deterministic output with the same encoding
// these are not secure at all, but the only point is to check the format,
// which is easier when everything is reproduceable.
var (
	owner       = makePrivKey("1234567890")
	beneficiary = makePrivKey("F00BA411").PublicKey().Address()
)

// makePrivKey repeats the string as long as needed to get 64 digits, then
// parses it as hex. It uses this repeated string as a "random" seed
// for the private key.
func makePrivKey(seed string) *crypto.PrivateKey {
	rep := 64/len(seed) + 1
	in := strings.Repeat(seed, rep)[:64]
	bin, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return crypto.PrivKeyEd25519FromSeed(bin[:32])
}

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	meta := &timelock.Metadata{Schema: 1}
	escrowID := []byte{0, 0, 0, 0, 0, 0, 0, 1}
	tokenAddr := token.Address([]byte{0, 0, 0, 0, 0, 0, 0, 1})

	wallet := &cash.Wallet{Metadata: meta, Balance: 50000}

	escrow := vesting.NewEscrow(escrowID, owner.PublicKey().Address(), beneficiary)
	escrow.Asset = vesting.NativeAsset()
	escrow.Amount = 400
	escrow.UnlockTime = 1577836800
	escrow.Funded = true

	fund := &vesting.FundTokenMsg{
		Metadata:   meta,
		EscrowId:   escrowID,
		UnlockTime: 1577836800,
		Token:      tokenAddr,
		Amount:     1000,
	}

	tx := &Tx{VestingFundTokenMsg: fund}
	sig, err := sigs.SignTx(owner, tx, "test-chain-1", 0)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "wallet", Obj: wallet},
		{Filename: "escrow", Obj: escrow},
		{Filename: "fund_token_msg", Obj: fund},
		{Filename: "withdraw_native_msg", Obj: &vesting.WithdrawNativeMsg{Metadata: meta, EscrowId: escrowID}},
		{Filename: "create_msg", Obj: &vesting.CreateMsg{Metadata: meta, Beneficiary: beneficiary}},
		{Filename: "signed_tx", Obj: tx},
	}
}

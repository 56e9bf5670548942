package commands

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"

	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
)

// DefaultKeyPath is the slip-0010 derivation path used when none is given.
const DefaultKeyPath = "m/44'/234'/0'"

// KeygenCmd derives an ed25519 key from a hex encoded seed and prints the
// private key, the public key and the address.
//
//   keygen -seed <hex> [-path m/44'/234'/0'] [-hrp tl]
func KeygenCmd(out io.Writer, args []string) error {
	var seed, path, hrp string
	fl := flag.NewFlagSet("keygen", flag.ContinueOnError)
	fl.StringVar(&seed, "seed", "", "hex encoded bip39 seed")
	fl.StringVar(&path, "path", DefaultKeyPath, "derivation path")
	fl.StringVar(&hrp, "hrp", "tl", "human readable part of the bech32 address")
	if err := fl.Parse(args); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}

	raw, err := hex.DecodeString(seed)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "seed: %s", err)
	}
	if len(raw) < 16 {
		return errors.Wrap(errors.ErrInput, "seed must be at least 16 bytes")
	}
	key, err := crypto.DerivePrivKeyEd25519(raw, path)
	if err != nil {
		return err
	}

	addr := key.PublicKey().Address()
	b32, err := addr.Bech32(hrp)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "bech32: %s", err)
	}
	fmt.Fprintf(out, "path:    %s\n", path)
	fmt.Fprintf(out, "private: %X\n", key.Ed25519)
	fmt.Fprintf(out, "public:  %X\n", key.PublicKey().Ed25519)
	fmt.Fprintf(out, "address: %s\n", addr)
	fmt.Fprintf(out, "bech32:  %s\n", b32)
	return nil
}

package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/crypto"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/orm"
)

// SignCodeV1 opens every signed payload. A new signing scheme must use a
// new prefix so that old signatures never validate under it.
var SignCodeV1 = []byte{'t', 'l', 0, 1}

// VerifyTxSignatures validates every signature of tx and advances the
// sequence of each signing key. The returned conditions keep the order of
// the signatures. A single bad signature fails the whole transaction.
func VerifyTxSignatures(db timelock.KVStore, tx SignedTx, chainID string) ([]timelock.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	bucket := NewBucket()
	var conds []timelock.Condition
	for i, sig := range tx.GetSignatures() {
		cond, err := verifySignature(db, bucket, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		conds = append(conds, cond)
	}
	if conds == nil {
		conds = []timelock.Condition{}
	}
	return conds, nil
}

func verifySignature(db timelock.KVStore, bucket orm.ModelBucket, sig *StdSignature, payload []byte, chainID string) (timelock.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	user, err := getOrCreate(db, bucket, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if _, err := bucket.Put(db, user.Pubkey.Address(), user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is signed for a transaction:
//
//	SignCodeV1 | len(chainID) as one byte | chainID | seq as uint64 BE | payload
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(ErrInvalidSequence, "negative")
	}
	if !timelock.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))

	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	h.Write(seqBytes[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// SignTx signs tx for chainID with the given sequence of the signer.
func SignTx(signer crypto.Signer, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	raw, err := signer.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: signer.PublicKey(), Signature: raw, Sequence: seq}, nil
}

// NextSequence is the sequence pubkey has to sign its next transaction with.
func NextSequence(db timelock.ReadOnlyKVStore, pubkey *crypto.PublicKey) (int64, error) {
	user, err := getOrCreate(db, NewBucket(), pubkey)
	if err != nil {
		return 0, err
	}
	return user.Sequence, nil
}

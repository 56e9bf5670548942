package utils

import (
	"github.com/iov-one/timelock"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key under which the executed message path is
// published, for example action=vesting/withdraw_native.
const ActionKey = "action"

// ActionTagger marks every successfully delivered transaction with the path
// of its message so that subscribers can filter vesting operations.
type ActionTagger struct{}

var _ timelock.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Checker) (*timelock.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver resolves the message before calling the handler, so a malformed
// transaction fails without any state being touched.
func (ActionTagger) Deliver(ctx timelock.Context, db timelock.KVStore, tx timelock.Tx, next timelock.Deliverer) (*timelock.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.Tags = append(res.Tags, actionTag(msg.Path()))
	return res, nil
}

func actionTag(path string) common.KVPair {
	return common.KVPair{Key: []byte(ActionKey), Value: []byte(path)}
}

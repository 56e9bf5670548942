package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/store"
	"github.com/iov-one/timelock/timelocktest"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()
	ctx := context.Background()
	s := store.MemStore()

	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	var buf bytes.Buffer
	ctx = timelock.WithLogger(ctx, log.NewTMLogger(log.NewSyncWriter(&buf)))
	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
	assert.Contains(t, buf.String(), "panic recovered")

	buf.Reset()
	_, err = r.Deliver(ctx, s, nil, &timelocktest.Handler{})
	assert.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestActionTagger(t *testing.T) {
	ctx := context.Background()
	db := store.MemStore()
	tx := &timelocktest.Tx{Msg: &timelocktest.Msg{RoutePath: "vesting/create"}}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte("vesting/create")}

	res, err := NewActionTagger().Deliver(ctx, db, tx, &timelocktest.Handler{})
	require.NoError(t, err)
	assert.Equal(t, []common.KVPair{tag}, res.Tags)

	prev := common.KVPair{Key: []byte("other"), Value: []byte("x")}
	h := &timelocktest.Handler{DeliverResult: timelock.DeliverResult{Tags: []common.KVPair{prev}}}
	res, err = NewActionTagger().Deliver(ctx, db, tx, h)
	require.NoError(t, err)
	assert.Equal(t, []common.KVPair{prev, tag}, res.Tags)

	_, err = NewActionTagger().Deliver(ctx, db, tx, &timelocktest.Handler{DeliverErr: errors.ErrState})
	assert.True(t, errors.ErrState.Is(err))

	_, err = NewActionTagger().Deliver(ctx, db, &timelocktest.Tx{Err: errors.ErrInput}, &timelocktest.Handler{})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewTMLogger(log.NewSyncWriter(&buf))
	ctx := timelock.WithLogger(context.Background(), logger)
	db := store.MemStore()
	tx := &timelocktest.Tx{Msg: &timelocktest.Msg{RoutePath: "cash/send"}}

	_, err := NewLogging().Deliver(ctx, db, tx, &timelocktest.Handler{DeliverResult: timelock.DeliverResult{Log: "sent"}})
	require.NoError(t, err)
	out := buf.String()
	assert.True(t, strings.Contains(out, "sent"), out)
	assert.True(t, strings.Contains(out, "path=cash/send"), out)

	buf.Reset()
	_, err = NewLogging().Check(ctx, db, tx, &timelocktest.Handler{CheckErr: errors.ErrUnauthorized})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	out = buf.String()
	assert.True(t, strings.Contains(out, "unauthorized"), out)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	ctx := context.Background()
	db := store.MemStore()
	send := &timelocktest.Tx{Msg: &timelocktest.Msg{RoutePath: "cash/send"}}

	_, err = m.Deliver(ctx, db, send, &timelocktest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, send, &timelocktest.Handler{})
	require.NoError(t, err)
	_, err = m.Deliver(ctx, db, send, &timelocktest.Handler{DeliverErr: errors.ErrAmount})
	assert.Error(t, err)
	_, err = m.Check(ctx, db, send, &timelocktest.Handler{})
	require.NoError(t, err)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.total.WithLabelValues("deliver", "cash/send", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("deliver", "cash/send", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("check", "cash/send", "success")))

	// Collectors can be registered only once.
	_, err = NewMetrics(reg)
	assert.True(t, errors.ErrHuman.Is(err))
}

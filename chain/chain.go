// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/buffer"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/state"
	"github.com/starsfinance/nftcollection/storage"
	"github.com/starsfinance/nftcollection/tstate"
	"github.com/starsfinance/nftcollection/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

const changedSizeEstimate = 16

// Chain delivers messages to accounts one at a time. Every message is a
// [Transaction] against its destination only; messages a transaction sends
// are queued and delivered in order once it completes.
//
// All changes made by one [Chain.Send] are flushed to the database together
// when the queue drains.
type Chain struct {
	log      logging.Logger
	config   Config
	registry *Registry
	db       state.Database
	metrics  *chainMetrics

	l      sync.Mutex
	ts     *tstate.TState
	lt     atomic.Uint64
	recent utils.BoundedBuffer[*Transaction]
}

func New(
	log logging.Logger,
	cfg Config,
	registry *Registry,
	db state.Database,
	r prometheus.Registerer,
) (*Chain, error) {
	metrics, err := newMetrics(r)
	if err != nil {
		return nil, err
	}
	recent, err := utils.NewBoundedBuffer[*Transaction](cfg.RecentTransactions, nil)
	if err != nil {
		return nil, err
	}
	if _, ok := registry.Lookup(WalletCode); !ok {
		if err := registry.Register(WalletCode, wallet{}); err != nil {
			return nil, err
		}
	}
	c := &Chain{
		log:      log,
		config:   cfg,
		registry: registry,
		db:       db,
		metrics:  metrics,
		ts:       tstate.New(changedSizeEstimate),
		recent:   recent,
	}
	lt, err := storage.GetLogicalTime(context.Background(), state.Reader{DB: db})
	if err != nil {
		return nil, err
	}
	c.lt.Store(lt)
	return c, nil
}

func (c *Chain) Registry() *Registry {
	return c.registry
}

func (c *Chain) Config() Config {
	return c.config
}

// LT returns the logical time of the latest transaction.
func (c *Chain) LT() uint64 {
	return c.lt.Load()
}

// Recent returns the latest transactions, oldest first.
func (c *Chain) Recent() []*Transaction {
	c.l.Lock()
	defer c.l.Unlock()

	return c.recent.Items()
}

// Send debits [msg.Value] from [msg.Source] and delivers [msg] along with
// every message it causes. It returns the resulting transactions in
// execution order.
//
// An error means nothing was applied; aborted transactions are not errors.
func (c *Chain) Send(ctx context.Context, msg *Message) ([]*Transaction, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	c.l.Lock()
	defer c.l.Unlock()

	txs, err := c.send(ctx, msg)
	if err != nil {
		c.discard()
		return nil, err
	}
	if err := c.flush(ctx); err != nil {
		c.discard()
		return nil, err
	}
	for _, tx := range txs {
		c.recent.Insert(tx)
	}
	return txs, nil
}

// Deploy sends [value] and [body] together with [init] to the address
// [init] derives.
func (c *Chain) Deploy(
	ctx context.Context,
	from codec.Address,
	init *StateInit,
	value uint64,
	body *codec.Cell,
) (codec.Address, []*Transaction, error) {
	addr, err := ContractAddress(c.config.Workchain, init)
	if err != nil {
		return codec.NoneAddress, nil, err
	}
	txs, err := c.Send(ctx, &Message{
		Source:      from,
		Destination: addr,
		Value:       value,
		Body:        body,
		StateInit:   init,
	})
	return addr, txs, err
}

// Treasury returns the wallet [name], creating it if needed, after adding
// [amount] to its balance.
func (c *Chain) Treasury(ctx context.Context, name string, amount uint64) (codec.Address, error) {
	c.l.Lock()
	defer c.l.Unlock()

	addr := TreasuryAddress(c.config.Workchain, name)
	account, _, err := storage.GetAccount(ctx, c.reader(), addr)
	if err != nil {
		return codec.NoneAddress, err
	}
	account.Balance, err = smath.Add(account.Balance, amount)
	if err != nil {
		return codec.NoneAddress, fmt.Errorf("%w: treasury %s", storage.ErrInvalidBalance, name)
	}
	if account.Code == nil {
		account.Code = WalletCode
		account.Data = codec.EmptyCell()
	}
	v, err := storage.MarshalAccount(account)
	if err != nil {
		return codec.NoneAddress, err
	}
	if err := c.ts.Insert(ctx, storage.AccountKey(addr), v); err != nil {
		return codec.NoneAddress, err
	}
	if err := c.flush(ctx); err != nil {
		c.discard()
		return codec.NoneAddress, err
	}
	c.log.Debug("funded treasury",
		zap.String("name", name),
		zap.Stringer("address", addr),
		zap.Uint64("balance", account.Balance),
	)
	return addr, nil
}

// Account returns the account at [addr]; missing accounts are empty.
func (c *Chain) Account(ctx context.Context, addr codec.Address) (*storage.Account, bool, error) {
	c.l.Lock()
	defer c.l.Unlock()

	return storage.GetAccount(ctx, c.reader(), addr)
}

func (c *Chain) Balance(ctx context.Context, addr codec.Address) (uint64, error) {
	c.l.Lock()
	defer c.l.Unlock()

	return storage.GetBalance(ctx, c.reader(), addr)
}

// RunGetMethod runs a read-only method of the contract at [addr].
func (c *Chain) RunGetMethod(ctx context.Context, addr codec.Address, method string, args Stack) (Stack, error) {
	c.l.Lock()
	account, _, err := storage.GetAccount(ctx, c.reader(), addr)
	c.l.Unlock()
	if err != nil {
		return nil, err
	}
	if !account.Active() {
		return nil, fmt.Errorf("%w: %s", ErrInactiveAccount, addr)
	}
	contract, ok := c.registry.Lookup(account.Code)
	if !ok {
		return nil, NewExitError(ExitCodeMissingCode, ErrMissingCode)
	}
	return contract.Get(ctx, &GetContext{
		Self:    addr,
		Code:    account.Code,
		Data:    account.Data,
		Balance: account.Balance,
	}, method, args)
}

func (c *Chain) send(ctx context.Context, msg *Message) ([]*Transaction, error) {
	if err := c.debit(ctx, msg.Source, msg.Value); err != nil {
		return nil, err
	}

	queue := buffer.NewUnboundedDeque[*Message](c.config.MaxMessagesPerSend)
	queue.PushRight(msg)
	var txs []*Transaction
	for queue.Len() > 0 {
		if len(txs) >= c.config.MaxMessagesPerSend {
			return nil, fmt.Errorf("%w: %d", ErrMessageLimit, c.config.MaxMessagesPerSend)
		}
		m, _ := queue.PopLeft()
		tx, err := c.execute(ctx, m)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
		for _, out := range tx.OutMessages {
			queue.PushRight(out)
		}
	}
	return txs, nil
}

// debit takes the value of an externally submitted message from its source.
func (c *Chain) debit(ctx context.Context, from codec.Address, value uint64) error {
	key := storage.AccountKey(from)
	view, err := c.newView(ctx, key)
	if err != nil {
		return err
	}
	if _, err := storage.SubBalance(ctx, view, from, value); err != nil {
		if errors.Is(err, storage.ErrInvalidBalance) {
			return fmt.Errorf("%w: %s cannot send %s", ErrInsufficientFunds, from, utils.FormatBalance(bigUint(value)))
		}
		return err
	}
	view.Commit()
	return nil
}

func (c *Chain) newView(ctx context.Context, key []byte) (*tstate.TStateView, error) {
	stored := make(map[string][]byte, 1)
	v, err := c.db.Get(key)
	switch {
	case err == nil:
		stored[string(key)] = v
	case !errors.Is(err, database.ErrNotFound):
		return nil, err
	}
	return c.ts.NewView(state.NewDefaultScope(state.ForAccount(key), stored)), nil
}

// execute delivers [m] to its destination.
func (c *Chain) execute(ctx context.Context, m *Message) (*Transaction, error) {
	start := time.Now()
	defer func() {
		c.metrics.executeLatency.Observe(float64(time.Since(start)))
	}()
	c.metrics.messagesProcessed.Inc()

	dst := m.Destination
	view, err := c.newView(ctx, storage.AccountKey(dst))
	if err != nil {
		return nil, err
	}
	account, exists, err := storage.GetAccount(ctx, view, dst)
	if err != nil {
		return nil, err
	}
	tx := &Transaction{
		LT:        c.lt.Inc(),
		Account:   dst,
		InMessage: m,
	}
	bounceable := m.Bounce && !m.Bounced

	credited, err := smath.Add(account.Balance, m.Value)
	if err != nil {
		return nil, fmt.Errorf("%w: crediting %s", storage.ErrInvalidBalance, dst)
	}

	if !account.Active() && !c.canDeploy(dst, m.StateInit) {
		// Nothing to run. Bounceable value goes back, the rest is kept.
		if bounceable {
			return c.abort(ctx, view, tx, ExitCodeSuccess, ErrInactiveAccount, m)
		}
		if exists || m.Value > 0 {
			account.Balance = credited
			account.LastLT = tx.LT
			if err := storage.SetAccount(ctx, view, dst, account); err != nil {
				return nil, err
			}
		}
		view.Commit()
		tx.Success = true
		c.logTransaction(tx)
		return tx, nil
	}

	// Credit phase survives a failed compute unless the value bounces.
	account.Balance = credited
	account.LastLT = tx.LT
	if err := storage.SetAccount(ctx, view, dst, account); err != nil {
		return nil, err
	}
	creditPoint := view.OpIndex()

	deploying := !account.Active()
	if deploying {
		account.Code = m.StateInit.Code
		account.Data = m.StateInit.Data
	}

	contract, ok := c.registry.Lookup(account.Code)
	if !ok {
		return c.fail(ctx, view, tx, creditPoint, ErrMissingCode)
	}
	cctx := &Context{
		Self:    dst,
		Code:    account.Code,
		Data:    account.Data,
		Balance: account.Balance,
		Message: m,
		LT:      tx.LT,
		Log:     c.log,
	}
	if err := contract.Receive(ctx, cctx); err != nil {
		return c.fail(ctx, view, tx, creditPoint, err)
	}

	// Action phase
	var spent uint64
	for _, out := range cctx.Outbound() {
		spent, err = smath.Add(spent, out.Value)
		if err != nil {
			return c.fail(ctx, view, tx, creditPoint, ErrInsufficientBalance)
		}
	}
	remaining, err := smath.Sub(account.Balance, spent)
	if err != nil {
		return c.fail(ctx, view, tx, creditPoint, fmt.Errorf(
			"%w: balance %d, outbound %d",
			ErrInsufficientBalance,
			account.Balance,
			spent,
		))
	}
	account.Balance = remaining
	account.Data = cctx.Data
	if err := storage.SetAccount(ctx, view, dst, account); err != nil {
		return nil, err
	}
	view.Commit()

	tx.OutMessages = cctx.Outbound()
	tx.Success = true
	tx.Deploy = deploying
	if deploying {
		c.metrics.deployments.Inc()
	}
	c.logTransaction(tx)
	return tx, nil
}

// canDeploy reports whether [init] initializes the account at [dst].
func (c *Chain) canDeploy(dst codec.Address, init *StateInit) bool {
	if init == nil || init.Code == nil {
		return false
	}
	addr, err := ContractAddress(dst.Workchain, init)
	return err == nil && addr == dst
}

// fail classifies a compute or action phase error. Errors without an exit
// code are not contract failures and stop the whole send.
func (c *Chain) fail(
	ctx context.Context,
	view *tstate.TStateView,
	tx *Transaction,
	creditPoint int,
	err error,
) (*Transaction, error) {
	code, ok := ExitCodeOf(err)
	if !ok {
		return nil, err
	}
	m := tx.InMessage
	if m.Bounce && !m.Bounced {
		return c.abort(ctx, view, tx, code, err, m)
	}
	view.Rollback(ctx, creditPoint)
	view.Commit()
	c.finishAbort(tx, code, err)
	return tx, nil
}

// abort reverts everything, including the credit, and returns the inbound
// value to its sender.
func (c *Chain) abort(
	ctx context.Context,
	view *tstate.TStateView,
	tx *Transaction,
	code int32,
	err error,
	m *Message,
) (*Transaction, error) {
	view.Rollback(ctx, 0)
	view.Commit()
	bounce, berr := bounceOf(m, m.Value)
	if berr != nil {
		return nil, berr
	}
	tx.OutMessages = []*Message{bounce}
	c.metrics.bounces.Inc()
	c.finishAbort(tx, code, err)
	return tx, nil
}

func (c *Chain) finishAbort(tx *Transaction, code int32, err error) {
	tx.Aborted = true
	tx.ExitCode = code
	tx.Err = err
	c.metrics.recordAbort(code)
	c.logTransaction(tx)
}

func (c *Chain) logTransaction(tx *Transaction) {
	c.log.Debug("executed transaction",
		zap.Uint64("lt", tx.LT),
		zap.Stringer("account", tx.Account),
		zap.Stringer("message", tx.InMessage),
		zap.Bool("deploy", tx.Deploy),
		zap.Bool("success", tx.Success),
		zap.Int32("exitCode", tx.ExitCode),
		zap.Int("outMessages", len(tx.OutMessages)),
		zap.Error(tx.Err),
	)
}

func (c *Chain) flush(ctx context.Context) error {
	if err := c.ts.Insert(ctx, storage.LogicalTimeKey(), database.PackUInt64(c.lt.Load())); err != nil {
		return err
	}
	changes := c.ts.PendingChanges()
	if err := c.ts.Flush(ctx, c.db); err != nil {
		return err
	}
	c.metrics.stateChanges.Add(float64(changes))
	return nil
}

// discard drops every unflushed change and restores the logical time.
func (c *Chain) discard() {
	c.ts = tstate.New(changedSizeEstimate)
	lt, err := storage.GetLogicalTime(context.Background(), state.Reader{DB: c.db})
	if err != nil {
		c.log.Warn("unable to restore logical time", zap.Error(err))
		return
	}
	c.lt.Store(lt)
}

// reader serves committed and pending state.
func (c *Chain) reader() state.Immutable {
	return &chainReader{ts: c.ts, db: c.db}
}

type chainReader struct {
	ts *tstate.TState
	db database.KeyValueReader
}

func (r *chainReader) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	return r.ts.GetValue(ctx, r.db, key)
}

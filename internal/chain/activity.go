package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ericogr/sphere-quiz/internal/dedupe"
	"github.com/ericogr/sphere-quiz/internal/engine"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const (
	// ~3s blocks
	blocksPerWeek = 7 * 24 * 60 * 60 / 3
	// searchWindow bounds how far back the last transaction is looked for.
	searchWindow = 4 * blocksPerWeek
)

// WalletActivity gathers balance, the gas price paid on the latest
// transaction, weekly sent-transaction count and recency for address. A wallet that never sent a transaction yields
// nil so callers fall back to the default party.
func (c *Client) WalletActivity(ctx context.Context, address string) (*engine.WalletActivity, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	addr := common.HexToAddress(address)
	v, err, _ := dedupe.WalletReads.Do(strings.ToLower(addr.Hex()), func() (interface{}, error) {
		return c.walletActivity(ctx, addr)
	})
	if err != nil {
		return nil, err
	}
	return v.(*engine.WalletActivity), nil
}

func (c *Client) walletActivity(ctx context.Context, addr common.Address) (*engine.WalletActivity, error) {
	nonce, err := c.backend.NonceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	if nonce == 0 {
		return nil, nil
	}
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("block number: %w", err)
	}
	balance, err := c.backend.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("balance: %w", err)
	}
	weekAgo := uint64(0)
	if head > blocksPerWeek {
		weekAgo = head - blocksPerWeek
	}
	nonceWeekAgo, err := c.backend.NonceAt(ctx, addr, new(big.Int).SetUint64(weekAgo))
	if err != nil {
		return nil, fmt.Errorf("nonce at %d: %w", weekAgo, err)
	}
	lastBlock, found, err := c.lastTxBlock(ctx, addr, head, nonce)
	if err != nil {
		return nil, err
	}
	since := uint64(searchWindow)
	var gasWei *big.Int
	if found {
		since = head - lastBlock
		if gasWei, err = c.txGasPrice(ctx, addr, lastBlock, nonce-1); err != nil {
			return nil, err
		}
	}
	if gasWei == nil {
		// last transaction not located: fall back to the network price
		if gasWei, err = c.backend.SuggestGasPrice(ctx); err != nil {
			return nil, fmt.Errorf("gas price: %w", err)
		}
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(gasWei), big.NewFloat(1e9)).Float64()

	return &engine.WalletActivity{
		BalanceWei:        balance,
		LastGasPriceGwei:  gwei,
		TxCountLastWeek:   int(nonce - nonceWeekAgo),
		BlocksSinceLastTx: since,
	}, nil
}

// lastTxBlock binary-searches the first block at which the account nonce
// reached its current value, which is the block holding the latest
// transaction. found is false when that block is older than searchWindow.
func (c *Client) lastTxBlock(ctx context.Context, addr common.Address, head, nonce uint64) (uint64, bool, error) {
	lo := uint64(0)
	if head > searchWindow {
		lo = head - searchWindow
	}
	n, err := c.backend.NonceAt(ctx, addr, new(big.Int).SetUint64(lo))
	if err != nil {
		return 0, false, fmt.Errorf("nonce at %d: %w", lo, err)
	}
	if n >= nonce {
		return 0, false, nil
	}
	hi := head
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		n, err := c.backend.NonceAt(ctx, addr, new(big.Int).SetUint64(mid))
		if err != nil {
			return 0, false, fmt.Errorf("nonce at %d: %w", mid, err)
		}
		if n >= nonce {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true, nil
}

// txGasPrice returns the price per gas addr paid for its transaction with
// the given nonce in block number, or nil when the block does not hold it.
func (c *Client) txGasPrice(ctx context.Context, addr common.Address, number, nonce uint64) (*big.Int, error) {
	block, err := c.backend.BlockByNumber(ctx, new(big.Int).SetUint64(number))
	if err != nil {
		return nil, fmt.Errorf("block %d: %w", number, err)
	}
	for _, tx := range block.Transactions() {
		if tx.Nonce() != nonce {
			continue
		}
		from, err := types.Sender(types.LatestSignerForChainID(tx.ChainId()), tx)
		if err != nil || from != addr {
			continue
		}
		return effectiveGasPrice(tx, block.BaseFee()), nil
	}
	return nil, nil
}

// effectiveGasPrice is base fee plus the tip actually paid; before London
// it is the transaction's gas price.
func effectiveGasPrice(tx *types.Transaction, baseFee *big.Int) *big.Int {
	if baseFee == nil {
		return tx.GasPrice()
	}
	tip, err := tx.EffectiveGasTip(baseFee)
	if err != nil {
		return tx.GasPrice()
	}
	return new(big.Int).Add(baseFee, tip)
}

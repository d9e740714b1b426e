// Package chain reads battle inputs from Ethereum-compatible contracts:
// the boss's attack parameters, the boss HP, and the wallet activity used
// to build a player's party.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/ericogr/sphere-quiz/internal/dedupe"
	"github.com/ericogr/sphere-quiz/internal/engine"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrInvalidAddress   = errors.New("invalid contract or wallet address")
	ErrUnexpectedOutput = errors.New("unexpected contract output")
	ErrNotConfigured    = errors.New("contract address not configured")
)

// Backend is the subset of ethclient.Client the reader needs.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	NonceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	BlockByNumber(ctx context.Context, number *big.Int) (*types.Block, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
}

// Client reads the BossStats and SphereQuiz NFT contracts.
type Client struct {
	backend   Backend
	bossStats common.Address
	nft       common.Address
	statsABI  abi.ABI
	nftABI    abi.ABI
	close     func()
}

// Dial connects to rpcURL. Either contract address may be empty, in which
// case the matching reads fail with ErrNotConfigured.
func Dial(ctx context.Context, rpcURL, bossStatsAddr, nftAddr string) (*Client, error) {
	ec, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	c, err := NewClient(ec, bossStatsAddr, nftAddr)
	if err != nil {
		ec.Close()
		return nil, err
	}
	c.close = ec.Close
	return c, nil
}

// NewClient wraps an existing backend.
func NewClient(backend Backend, bossStatsAddr, nftAddr string) (*Client, error) {
	c := &Client{backend: backend}
	var err error
	if c.bossStats, err = parseOptionalAddress(bossStatsAddr); err != nil {
		return nil, err
	}
	if c.nft, err = parseOptionalAddress(nftAddr); err != nil {
		return nil, err
	}
	if c.statsABI, err = abi.JSON(strings.NewReader(bossStatsABI)); err != nil {
		return nil, fmt.Errorf("parse boss stats abi: %w", err)
	}
	if c.nftABI, err = abi.JSON(strings.NewReader(sphereQuizNFTABI)); err != nil {
		return nil, fmt.Errorf("parse nft abi: %w", err)
	}
	return c, nil
}

func parseOptionalAddress(s string) (common.Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	return common.HexToAddress(s), nil
}

// Close releases the RPC connection when the client was dialled.
func (c *Client) Close() {
	if c.close != nil {
		c.close()
	}
}

func (c *Client) call(ctx context.Context, contract common.Address, parsed abi.ABI, method string) ([]interface{}, error) {
	if contract == (common.Address{}) {
		return nil, fmt.Errorf("%s: %w", method, ErrNotConfigured)
	}
	key := contract.Hex() + ":" + method
	v, err, _ := dedupe.ContractReads.Do(key, func() (interface{}, error) {
		data, err := parsed.Pack(method)
		if err != nil {
			return nil, err
		}
		out, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		return parsed.Unpack(method, out)
	})
	if err != nil {
		return nil, err
	}
	return v.([]interface{}), nil
}

// FetchAttackParameters implements engine.AttackParameterProvider.
func (c *Client) FetchAttackParameters(ctx context.Context) (engine.AttackParameters, error) {
	vals, err := c.call(ctx, c.bossStats, c.statsABI, methodAttackParameters)
	if err != nil {
		return engine.AttackParameters{}, err
	}
	return DecodeAttackParameters(vals)
}

// DecodeAttackParameters converts the raw contract tuple. Base power and
// the overall multiplier are stored as hundredths; volatility is whole.
func DecodeAttackParameters(vals []interface{}) (engine.AttackParameters, error) {
	if len(vals) != 3 {
		return engine.AttackParameters{}, fmt.Errorf("%w: got %d values, want 3", ErrUnexpectedOutput, len(vals))
	}
	nums := make([]float64, 3)
	for i, v := range vals {
		b, ok := v.(*big.Int)
		if !ok || b == nil {
			return engine.AttackParameters{}, fmt.Errorf("%w: value %d is %T", ErrUnexpectedOutput, i, v)
		}
		nums[i], _ = new(big.Float).SetInt(b).Float64()
	}
	return engine.AttackParameters{
		BaseAttackPower:        nums[0] / 100,
		AdjustedVolatility:     nums[1],
		OverallAttackParameter: nums[2] / 100,
	}, nil
}

// BossHP reads the boss's starting HP from the NFT contract.
func (c *Client) BossHP(ctx context.Context) (int, error) {
	vals, err := c.call(ctx, c.nft, c.nftABI, methodBossHP)
	if err != nil {
		return 0, err
	}
	if len(vals) != 1 {
		return 0, fmt.Errorf("%w: got %d values, want 1", ErrUnexpectedOutput, len(vals))
	}
	b, ok := vals[0].(*big.Int)
	if !ok || b == nil {
		return 0, fmt.Errorf("%w: bossHP is %T", ErrUnexpectedOutput, vals[0])
	}
	if !b.IsInt64() || b.Int64() > math.MaxInt32 || b.Sign() <= 0 {
		return 0, fmt.Errorf("%w: bossHP %s out of range", ErrUnexpectedOutput, b.String())
	}
	return int(b.Int64()), nil
}

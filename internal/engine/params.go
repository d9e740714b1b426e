package engine

import (
	"context"
	"errors"

	"github.com/ericogr/sphere-quiz/internal/logging"
)

// AttackParameters drive the enemy's damage roll.
type AttackParameters struct {
	BaseAttackPower        float64 `json:"base_attack_power"`
	AdjustedVolatility     float64 `json:"adjusted_volatility"`
	OverallAttackParameter float64 `json:"overall_attack_parameter"`
}

// DefaultAttackParameters is used whenever the provider fails.
var DefaultAttackParameters = AttackParameters{
	BaseAttackPower:        20,
	AdjustedVolatility:     25,
	OverallAttackParameter: 0.8,
}

var ErrNoProvider = errors.New("no attack parameter provider")

// AttackParameterProvider fetches the current enemy parameters, typically
// from a contract.
type AttackParameterProvider interface {
	FetchAttackParameters(ctx context.Context) (AttackParameters, error)
}

// AttackParameterFunc adapts a function to AttackParameterProvider.
type AttackParameterFunc func(ctx context.Context) (AttackParameters, error)

func (f AttackParameterFunc) FetchAttackParameters(ctx context.Context) (AttackParameters, error) {
	return f(ctx)
}

// StaticAttackParameters always returns the same values.
type StaticAttackParameters AttackParameters

func (s StaticAttackParameters) FetchAttackParameters(context.Context) (AttackParameters, error) {
	return AttackParameters(s), nil
}

// fetchAttackParameters never fails: errors and timeouts fall back to
// DefaultAttackParameters.
func (s *BattleState) fetchAttackParameters(ctx context.Context, p AttackParameterProvider) AttackParameters {
	if p == nil {
		logging.Warn("attack parameters unavailable; using defaults", logging.Fields{"error": ErrNoProvider.Error()})
		return DefaultAttackParameters
	}
	timeout := s.ParamTimeout
	if timeout <= 0 {
		timeout = DefaultParamTimeout
	}
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		params AttackParameters
		err    error
	}
	ch := make(chan result, 1)
	go func() {
		params, err := p.FetchAttackParameters(cctx)
		ch <- result{params, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			logging.Error("failed to fetch attack parameters; using defaults", r.err, nil)
			return DefaultAttackParameters
		}
		return r.params
	case <-cctx.Done():
		logging.Error("attack parameter fetch timed out; using defaults", cctx.Err(), logging.Fields{"timeout": timeout.String()})
		return DefaultAttackParameters
	}
}

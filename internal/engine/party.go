package engine

import (
	"math"
	"math/big"

	"github.com/ericogr/sphere-quiz/internal/game"
)

// Balance tiers in wei.
var (
	lowBalanceWei    = new(big.Int).Mul(big.NewInt(5), big.NewInt(1e16)) // 0.05 ETH
	mediumBalanceWei = new(big.Int).Mul(big.NewInt(1), big.NewInt(1e17)) // 0.1 ETH
)

// blocksPerHalfDay assumes ~3s blocks.
const blocksPerHalfDay = 12500

// WalletActivity is the on-chain history used to derive party stats.
type WalletActivity struct {
	BalanceWei *big.Int
	// LastGasPriceGwei is what the wallet paid per gas on its latest
	// transaction.
	LastGasPriceGwei float64
	TxCountLastWeek  int
	// BlocksSinceLastTx is the current block minus the block of the
	// latest transaction.
	BlocksSinceLastTx uint64
}

type hpStat struct{ hp, max int }

// DefaultParty is the roster for a wallet with no transactions.
func DefaultParty() game.Party {
	return buildParty(
		map[game.Character]hpStat{game.Rojo: {80, 101}, game.Blue: {60, 93}, game.Midori: {100, 123}},
		map[game.Character]int{game.Rojo: 15, game.Blue: 5, game.Midori: 10},
	)
}

// PartyFromActivity derives HP from the balance tier and attack from gas
// price (Rojo), weekly transaction count (Blue) and block recency (Midori).
// A nil activity yields DefaultParty.
func PartyFromActivity(a *WalletActivity) game.Party {
	if a == nil {
		return DefaultParty()
	}
	bal := a.BalanceWei
	if bal == nil {
		bal = new(big.Int)
	}
	var hp map[game.Character]hpStat
	switch {
	case bal.Cmp(lowBalanceWei) < 0:
		hp = map[game.Character]hpStat{game.Rojo: {50, 101}, game.Blue: {30, 93}, game.Midori: {70, 123}}
	case bal.Cmp(mediumBalanceWei) < 0:
		hp = map[game.Character]hpStat{game.Rojo: {90, 121}, game.Blue: {70, 113}, game.Midori: {80, 133}}
	default:
		hp = map[game.Character]hpStat{game.Rojo: {140, 140}, game.Blue: {120, 120}, game.Midori: {150, 150}}
	}

	halfDays := int(a.BlocksSinceLastTx / blocksPerHalfDay)
	atk := map[game.Character]int{
		game.Rojo:   clamp(int(math.Floor(a.LastGasPriceGwei))*40, 15, 90),
		game.Blue:   clamp(a.TxCountLastWeek*3, 10, 80),
		game.Midori: max(5, 75-halfDays*5),
	}
	return buildParty(hp, atk)
}

func buildParty(hp map[game.Character]hpStat, atk map[game.Character]int) game.Party {
	p := make(game.Party, len(game.Characters))
	for _, c := range game.Characters {
		p[c] = &game.PartyMember{Character: c, HP: hp[c].hp, MaxHP: hp[c].max, Atk: atk[c]}
	}
	return p
}

func clamp(v, lo, hi int) int {
	return max(min(v, hi), lo)
}

package ranking

// Tier is a named band of point totals.
type Tier string

const (
	TierBronze   Tier = "Bronze"
	TierSilver   Tier = "Silver"
	TierGold     Tier = "Gold"
	TierPlatinum Tier = "Platinum"
)

// Tier thresholds, inclusive on the lower end.
const (
	SilverMin   = 40
	GoldMin     = 70
	PlatinumMin = 100
)

// TierFor maps a point total to its tier.
func TierFor(points int) Tier {
	switch {
	case points >= PlatinumMin:
		return TierPlatinum
	case points >= GoldMin:
		return TierGold
	case points >= SilverMin:
		return TierSilver
	default:
		return TierBronze
	}
}

const (
	// Rank-gap bands for the win bonus / loss penalty.
	upsetGap = 30 // gap at or above this counts as an upset
	closeGap = 10 // gap at or below this counts as evenly matched

	// TiePoints is what both players receive for an exact tie. Ties bypass
	// Delta entirely; the ledger applies this flat award itself.
	TiePoints = 2
)

// Delta returns the winner's bonus and the loser's penalty (always <= 0) for
// a decisive result, given both players' current points and the margin of
// victory. The caller clamps the loser's resulting total at zero.
//
// The middle gap band carries the harshest penalty (-4), not the largest gap.
// That asymmetry is part of the house rules: a big gap means an upset, and
// the underdog loser isn't punished for it.
func Delta(winnerPoints, loserPoints, scoreDiff int) (winBonus, losePenalty int) {
	gap := winnerPoints - loserPoints
	if gap < 0 {
		gap = -gap
	}

	switch {
	case gap >= upsetGap:
		winBonus, losePenalty = 7, -3
	case gap <= closeGap:
		winBonus, losePenalty = 5, -3
	default:
		winBonus, losePenalty = 6, -4
	}

	// A one-point win is worth less and costs the loser less.
	if scoreDiff == 1 {
		winBonus--
		losePenalty++
	}

	return winBonus, losePenalty
}

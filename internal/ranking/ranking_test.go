package ranking

import "testing"

func TestTierFor(t *testing.T) {
	cases := []struct {
		points int
		want   Tier
	}{
		{0, TierBronze},
		{39, TierBronze},
		{40, TierSilver},
		{69, TierSilver},
		{70, TierGold},
		{99, TierGold},
		{100, TierPlatinum},
		{250, TierPlatinum},
	}

	for _, tc := range cases {
		if got := TierFor(tc.points); got != tc.want {
			t.Errorf("TierFor(%d) = %s, want %s", tc.points, got, tc.want)
		}
	}
}

func TestTierForIsPure(t *testing.T) {
	if TierFor(55) != TierFor(55) {
		t.Fatal("TierFor must be deterministic")
	}
}

func TestDelta(t *testing.T) {
	cases := []struct {
		name                      string
		winnerPoints, loserPoints int
		scoreDiff                 int
		wantBonus, wantPenalty    int
	}{
		{"big gap rewards the upset", 100, 50, 5, 7, -3},
		{"big gap, winner is the underdog", 50, 100, 5, 7, -3},
		{"tight gap", 50, 45, 5, 5, -3},
		{"gap exactly at close boundary", 50, 40, 4, 5, -3},
		{"mid gap is the harshest band", 60, 45, 5, 6, -4},
		{"gap exactly at upset boundary", 60, 30, 2, 7, -3},
		{"equal points", 0, 0, 2, 5, -3},
		{"narrow win, tight gap", 50, 45, 1, 4, -2},
		{"narrow win, mid gap", 60, 45, 1, 5, -3},
		{"narrow win, big gap", 90, 10, 1, 6, -2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bonus, penalty := Delta(tc.winnerPoints, tc.loserPoints, tc.scoreDiff)
			if bonus != tc.wantBonus || penalty != tc.wantPenalty {
				t.Fatalf("Delta(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.winnerPoints, tc.loserPoints, tc.scoreDiff,
					bonus, penalty, tc.wantBonus, tc.wantPenalty)
			}
		})
	}
}

func TestDeltaPenaltyNeverPositive(t *testing.T) {
	for gap := 0; gap <= 60; gap += 5 {
		for diff := 1; diff <= 5; diff++ {
			_, penalty := Delta(gap, 0, diff)
			if penalty > 0 {
				t.Fatalf("Delta(%d, 0, %d) penalty = %d, want <= 0", gap, diff, penalty)
			}
		}
	}
}

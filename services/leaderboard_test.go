package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompositeScoreOrdersByExperienceFirst(t *testing.T) {
	now := time.Now().Unix()

	// One more experience point always outranks any timestamp advantage.
	require.Greater(t, compositeScore(101, now), compositeScore(100, now-3600))

	// The tie-break component stays strictly inside the experience point.
	s := compositeScore(100, now)
	require.Greater(t, s, 100.0)
	require.Less(t, s, 101.0)
}

func TestCompositeScoreTieBreakFavorsEarlier(t *testing.T) {
	// Among equal experience, the member who got there first sorts higher.
	early := compositeScore(500, 1_700_000_000)
	late := compositeScore(500, 1_700_000_060)
	require.Greater(t, early, late)
}

func TestAssignRanksSharesAndSkips(t *testing.T) {
	entries := []Entry{
		{Experience: 300},
		{Experience: 300},
		{Experience: 200},
		{Experience: 200},
		{Experience: 200},
		{Experience: 100},
	}
	assignRanks(entries, 0, 1)

	ranks := make([]int, len(entries))
	for i, e := range entries {
		ranks[i] = e.Rank
	}
	require.Equal(t, []int{1, 1, 3, 3, 3, 6}, ranks)
}

func TestAssignRanksNoTies(t *testing.T) {
	entries := []Entry{{Experience: 80}, {Experience: 70}, {Experience: 60}}
	assignRanks(entries, 0, 1)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, 3, entries[2].Rank)
}

func TestAssignRanksAcrossPageBoundary(t *testing.T) {
	// Full ladder: 300, 200, 200, 200, 100. The second page starts at
	// offset 2, inside the 200 tie block whose shared rank is 2.
	entries := []Entry{
		{Experience: 200},
		{Experience: 200},
		{Experience: 100},
	}
	assignRanks(entries, 2, 2)

	require.Equal(t, 2, entries[0].Rank)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, 5, entries[2].Rank, "rank after the block skips to its end position")
}

func TestAssignRanksLaterPageWithoutBoundaryTie(t *testing.T) {
	// Offset 3 with no tie reaching back: the first row simply ranks 4th.
	entries := []Entry{{Experience: 80}, {Experience: 70}}
	assignRanks(entries, 3, 4)
	require.Equal(t, 4, entries[0].Rank)
	require.Equal(t, 5, entries[1].Rank)
}

func TestAssignRanksEmpty(t *testing.T) {
	assignRanks(nil, 0, 1)
}

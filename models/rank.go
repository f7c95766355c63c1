package models

// RankTier maps a rank name to the minimum experience required for it.
type RankTier struct {
	Name          string `json:"name"`
	MinExperience int    `json:"min_experience"`
	Icon          string `json:"icon"`
}

// RankTable is the authoritative club ladder, ascending by threshold.
// The first threshold must be 0 so every experience value maps to a tier.
var RankTable = []RankTier{
	{Name: "Rookie", MinExperience: 0, Icon: "/ranks/rookie.png"},
	{Name: "Contender", MinExperience: 100, Icon: "/ranks/contender.png"},
	{Name: "Gladiator", MinExperience: 250, Icon: "/ranks/gladiator.png"},
	{Name: "Vanguard", MinExperience: 500, Icon: "/ranks/vanguard.png"},
	{Name: "Errorless Legend", MinExperience: 1000, Icon: "/ranks/errorless-legend.png"},
}

// RankProgress is the derived rank view cached on User.
type RankProgress struct {
	Rank              string `json:"rank"`
	RankIcon          string `json:"rank_icon"`
	Progress          int    `json:"progress_to_next_rank"`
	CurrentRankPoints int    `json:"current_rank_points"`
	NextRankPoints    int    `json:"next_rank_points"`
}

// RankIndex returns the ladder position for an experience value: the highest
// tier whose threshold is <= experience.
func RankIndex(experience int) int {
	idx := 0
	for i, tier := range RankTable {
		if experience >= tier.MinExperience {
			idx = i
		}
	}
	return idx
}

// RankIndexOf returns the ladder position of a rank name, or -1 if the name
// is not in the table.
func RankIndexOf(name string) int {
	for i, tier := range RankTable {
		if tier.Name == name {
			return i
		}
	}
	return -1
}

// RankProgressFor derives the rank and progress bounds for an experience
// value. Progress is the floored percentage between the current and next
// thresholds, clamped to [0,100]; at the top tier it is pinned to 100 and
// both bounds collapse to the tier threshold.
func RankProgressFor(experience int) RankProgress {
	if experience < 0 {
		experience = 0
	}

	i := RankIndex(experience)
	tier := RankTable[i]

	if i == len(RankTable)-1 {
		return RankProgress{
			Rank:              tier.Name,
			RankIcon:          tier.Icon,
			Progress:          100,
			CurrentRankPoints: tier.MinExperience,
			NextRankPoints:    tier.MinExperience,
		}
	}

	next := RankTable[i+1]
	progress := (experience - tier.MinExperience) * 100 / (next.MinExperience - tier.MinExperience)
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	return RankProgress{
		Rank:              tier.Name,
		RankIcon:          tier.Icon,
		Progress:          progress,
		CurrentRankPoints: tier.MinExperience,
		NextRankPoints:    next.MinExperience,
	}
}

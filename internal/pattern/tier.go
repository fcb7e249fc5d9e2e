package pattern

// Tier is the precedence class of a rule source. Higher tiers win over lower
// ones; within a tier the rule closest to the target path wins.
type Tier uint8

const (
	// TierGlobal is the user's global git ignore file (core.excludesFile).
	TierGlobal Tier = iota
	// TierGitExclude is the repository's info/exclude file.
	TierGitExclude
	// TierGitIgnore is a .gitignore file.
	TierGitIgnore
	// TierIgnore is a .ignore file.
	TierIgnore
	// TierCustom is a file with a caller-chosen ignore file name.
	TierCustom
	// TierExplicit is patterns and ignore files handed in by the caller.
	TierExplicit
	// TierOverride is the override glob list.
	TierOverride
)

// TierCount is the number of tiers, usable as an array length.
const TierCount = int(TierOverride) + 1

var tierNames = [TierCount]string{
	TierGlobal:     "global",
	TierGitExclude: "git-exclude",
	TierGitIgnore:  "gitignore",
	TierIgnore:     "ignore",
	TierCustom:     "custom",
	TierExplicit:   "explicit",
	TierOverride:   "override",
}

func (t Tier) String() string {
	if int(t) < TierCount {
		return tierNames[t]
	}
	return "unknown"
}

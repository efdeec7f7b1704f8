package mdsplit

import "github.com/dgallion1/mdsplit/mdtree"

// RuleMode selects how a construct kind responds to size pressure.
type RuleMode int

const (
	// RuleDefault applies the normal size-governed behavior for the kind.
	RuleDefault RuleMode = iota

	// RuleNeverSplit emits the construct whole, even over budget.
	RuleNeverSplit

	// RuleAllowSplit subjects the construct to normal size-based splitting,
	// lifting any default protection it carries.
	RuleAllowSplit

	// RuleSizeSplit splits against Threshold instead of the general limit.
	RuleSizeSplit
)

// Rule is the per-construct splitting policy.
type Rule struct {
	Mode      RuleMode
	Threshold int // content size limit for RuleSizeSplit
}

// RuleSet maps construct kinds to rules. Absent kinds use default behavior.
type RuleSet map[mdtree.Kind]Rule

// DefaultRules returns the stock policy: links and images are never split.
func DefaultRules() RuleSet {
	return RuleSet{
		mdtree.KindLink:  {Mode: RuleNeverSplit},
		mdtree.KindImage: {Mode: RuleNeverSplit},
	}
}

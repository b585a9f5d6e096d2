package splitbill

import (
	"fmt"
	"slices"
)

// Tab identifies a sub-account within a split session.
type Tab string

// Rest is the implicit remainder tab. It always exists and holds whatever
// has not been assigned to a lettered tab.
const Rest Tab = "Rest"

const (
	// MaxLetteredTabs is how many operator-created tabs a session allows.
	MaxLetteredTabs = 3

	// MaxSubaccounts is the hard cap on sub-accounts, lettered tabs plus Rest.
	MaxSubaccounts = MaxLetteredTabs + 1
)

// IsRest reports whether t is the remainder tab.
func (t Tab) IsRest() bool {
	return t == Rest
}

func (t Tab) String() string {
	return string(t)
}

// nextLabel returns the first unused letter A..Z, or a synthetic
// "Extra<n>" label once the alphabet is exhausted.
func nextLabel(existing []Tab) Tab {
	for c := 'A'; c <= 'Z'; c++ {
		label := Tab(string(c))
		if !slices.Contains(existing, label) {
			return label
		}
	}
	return Tab(fmt.Sprintf("Extra%d", len(existing)))
}

// insertBeforeRest places tab immediately before Rest, or at the end when
// Rest is missing.
func insertBeforeRest(tabs []Tab, tab Tab) []Tab {
	i := slices.Index(tabs, Rest)
	if i < 0 {
		return append(tabs, tab)
	}
	return slices.Insert(tabs, i, tab)
}

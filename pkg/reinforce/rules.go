package reinforce

import "strings"

// ItemRules classifies item names by keyword. Keywords are data so the lists can
// be extended from configuration.
type ItemRules struct {
	PrimaryWeapons  []string `mapstructure:"primary_weapons" yaml:"primary_weapons"`
	AlwaysReinforce []string `mapstructure:"always_reinforce" yaml:"always_reinforce"`
}

// DefaultItemRules returns the stock keyword lists.
func DefaultItemRules() ItemRules {
	return ItemRules{
		PrimaryWeapons:  []string{"검", "몽둥이"},
		AlwaysReinforce: []string{"단검"},
	}
}

// IsPrimaryWeapon reports whether name is a standard weapon-class item.
func (r ItemRules) IsPrimaryWeapon(name string) bool {
	return containsKeyword(name, r.PrimaryWeapons)
}

// IsAlwaysReinforce reports whether name is on the never-sell list.
func (r ItemRules) IsAlwaysReinforce(name string) bool {
	return containsKeyword(name, r.AlwaysReinforce)
}

func containsKeyword(name string, keywords []string) bool {
	flat := squash(name)
	if flat == "" {
		return false
	}
	for _, kw := range keywords {
		kw = squash(kw)
		if kw != "" && strings.Contains(flat, kw) {
			return true
		}
	}
	return false
}

func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

package reinforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemRules(t *testing.T) {
	r := DefaultItemRules()

	assert.True(t, r.IsPrimaryWeapon("전설의 검"))
	assert.True(t, r.IsPrimaryWeapon("불꽃 몽 둥이"))
	assert.False(t, r.IsPrimaryWeapon("평범한지팡이"))

	assert.True(t, r.IsAlwaysReinforce("녹슨 단 검"))
	assert.False(t, r.IsAlwaysReinforce("전설의 검"))

	for _, blank := range []string{"", "   "} {
		assert.False(t, r.IsPrimaryWeapon(blank))
		assert.False(t, r.IsAlwaysReinforce(blank))
	}
}

func TestItemRulesAreData(t *testing.T) {
	r := ItemRules{AlwaysReinforce: []string{"지팡이", " "}}
	assert.True(t, r.IsAlwaysReinforce("평범한지팡이"))
	assert.False(t, r.IsAlwaysReinforce("전설의 검"))
	assert.False(t, r.IsPrimaryWeapon("전설의 검"))
}

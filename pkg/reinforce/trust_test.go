package reinforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reinforcebot/models"
)

func TestTrustGate(t *testing.T) {
	g := NewTrustGate(0)
	require.Equal(t, DefaultMinConfidence, g.MinConfidence)

	cases := []struct {
		name    string
		obs     models.Observation
		verdict Verdict
	}{
		{"threshold is inclusive", models.Observation{Text: "레벨이 유지되었습니다", Confidence: 50.0}, Trusted},
		{"just below threshold", models.Observation{Text: "레벨이 유지되었습니다", Confidence: 49.99}, LowConfidence},
		{"low confidence wins over content", models.Observation{Text: "획득 검: [+7] 전설의 검", Confidence: 40}, LowConfidence},
		{"destroy needs no fields", models.Observation{Text: "검이 파괴되었습니다", Confidence: 70}, Trusted},
		{"success with fields", models.Observation{Text: "획득 검: [+7] 전설의 검", Confidence: 70}, Trusted},
		{"success without fields", models.Observation{Text: "획득 +7", Confidence: 70}, Unparsed},
		{"unknown text", models.Observation{Text: "대화방에 입장했습니다", Confidence: 95}, Unclassified},
		{"gold shortage banner", models.Observation{Text: "골드가 부족합니다", Confidence: 70}, Trusted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := g.Assess(tc.obs)
			assert.Equal(t, tc.verdict, a.Verdict)
			assert.Equal(t, tc.verdict == Trusted, g.IsTrustworthy(tc.obs))
		})
	}
}

func TestTrustGateCarriesFields(t *testing.T) {
	a := NewTrustGate(50).Assess(models.Observation{Text: "획득 검: [+7] 전설의 검", Confidence: 88})
	require.True(t, a.Trusted())
	assert.Equal(t, Success, a.Result)
	require.NotNil(t, a.Info)
	assert.Equal(t, 7, a.Info.Level)
}

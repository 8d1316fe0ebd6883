package reinforce

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSuccessInfo(t *testing.T) {
	cases := []struct {
		name  string
		card  string
		level int
		item  string
	}{
		{"bracketed", "획득 검: [+7] 전설의 검", 7, "전설의 검"},
		{"bare after dropped glyph", "회 득 +3 낡은지팡이", 3, "낡은지팡이"},
		{"spaced bracket", "획 득 검 : [ +15 ] 불꽃 몽둥이", 15, "불꽃 몽둥이"},
		{"repaired digits", "획득 검: [+l2] 빛나는 검", 12, "빛나는 검"},
		{"noise around", "~강화 성공!!~\n  획득 검: [+4] 녹슨 검 .", 4, "녹슨 검"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			info, err := ExtractSuccessInfo(tc.card)
			require.NoError(t, err)
			assert.Equal(t, tc.level, info.Level)
			assert.Equal(t, tc.item, info.ItemName)
		})
	}
}

func TestExtractPrefersBottomLine(t *testing.T) {
	card := "획득 검: [+2] 이전 검\n강화 성공\n획득 검: [+9] 새 검"
	info, err := ExtractSuccessInfo(card)
	require.NoError(t, err)
	assert.Equal(t, SuccessInfo{Level: 9, ItemName: "새 검"}, info)
}

func TestExtractSkipsUnparsableCandidate(t *testing.T) {
	card := "획득 검: [+4] 녹슨 검\n획득 보상 없음"
	info, err := ExtractSuccessInfo(card)
	require.NoError(t, err)
	assert.Equal(t, SuccessInfo{Level: 4, ItemName: "녹슨 검"}, info)
}

func TestExtractNotFound(t *testing.T) {
	for _, card := range []string{"", "레벨이 유지되었습니다", "획득 +3", "[+7] 전설의 검"} {
		_, err := ExtractSuccessInfo(card)
		assert.ErrorIs(t, err, ErrNoSuccessInfo, card)
	}
}

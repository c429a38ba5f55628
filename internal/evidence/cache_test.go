package evidence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/unicode/norm"

	"github.com/lucen-labs/irreview/internal/model"
)

func TestSaveAndLoad(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	ev := &model.Evidence{
		Findings: []model.Finding{{
			Slot:     model.SlotExportNews,
			Summary:  "2024년 일본 수출 계약",
			KeyFacts: []string{"계약 규모 50억원"},
			Sources:  []model.Source{{Title: "기사", URL: "https://example.com"}},
		}},
	}
	require.NoError(t, cache.Save("루센바이오", ev))

	got := cache.Load("루센바이오")
	require.NotNil(t, got)
	assert.Equal(t, ev.Findings, got.Findings)
}

func TestLoadMissing(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	assert.Nil(t, cache.Load("없는회사"))
}

func TestLoadCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "깨진회사.json"), []byte("{not json"), 0o644))
	assert.Nil(t, cache.Load("깨진회사"))
}

func TestSaveEmptyEvidence(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	require.NoError(t, err)

	// Empty results are cached too so failed searches do not repeat.
	require.NoError(t, cache.Save("빈회사", &model.Evidence{Note: "검색 실패"}))

	got := cache.Load("빈회사")
	require.NotNil(t, got)
	assert.True(t, got.Empty())
	assert.Equal(t, "검색 실패", got.Note)
}

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "루센바이오", "루센바이오"},
		{"slash", "A/B테크", "A_B테크"},
		{"windows unsafe", `주식회사 "퀀텀": 리서치?`, "주식회사 _퀀텀__ 리서치_"},
		{"space runs", "회사   이름", "회사 이름"},
		{"empty", "", "UNKNOWN"},
		{"whitespace only", "   ", "UNKNOWN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeName(tc.in))
		})
	}
}

func TestSanitizeNameNormalizesNFC(t *testing.T) {
	decomposed := norm.NFD.String("루센바이오")
	assert.Equal(t, "루센바이오", SanitizeName(decomposed))
}

func TestSanitizeNameBoundsLength(t *testing.T) {
	long := strings.Repeat("가", 300)
	out := SanitizeName(long)
	assert.Len(t, []rune(out), 120)
}

func TestDistinctEntitiesDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	require.NoError(t, err)

	require.NoError(t, cache.Save("회사A", &model.Evidence{Note: "a"}))
	require.NoError(t, cache.Save("회사B", &model.Evidence{Note: "b"}))

	assert.Equal(t, "a", cache.Load("회사A").Note)
	assert.Equal(t, "b", cache.Load("회사B").Note)
}

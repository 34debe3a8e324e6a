package visionocr

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReceipt = `マルエツ 東長崎店
2025年3月10日 18:42
牛乳 238
食パン ¥158
たまご 10個 258円
小計 654
合計 ¥706
お預り 1,000
お釣り 294`

func TestParseReceiptText_Sample(t *testing.T) {
	analysis := ParseReceiptText(sampleReceipt)

	assert.Equal(t, "マルエツ 東長崎店", analysis.StoreName)
	assert.Equal(t, "2025-03-10", analysis.Date)
	assert.True(t, analysis.TotalAmount.Equal(decimal.NewFromInt(706)),
		"expected total 706, got %s", analysis.TotalAmount)

	names := make([]string, 0, len(analysis.Items))
	for _, item := range analysis.Items {
		names = append(names, item.Name)
	}
	assert.Contains(t, names, "牛乳")
	assert.Contains(t, names, "食パン")
}

func TestParseReceiptText_DateFormats(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"slashes", "レシート\n2025/3/4\n合計 100", "2025-03-04"},
		{"kanji", "レシート\n2025年12月31日\n合計 100", "2025-12-31"},
		{"hyphens", "レシート\n2025-03-10\n合計 100", "2025-03-10"},
		{"missing", "レシート\n合計 100", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseReceiptText(tc.text).Date)
		})
	}
}

func TestParseReceiptText_TotalPrefersTotalOverSubtotal(t *testing.T) {
	analysis := ParseReceiptText("店\n小計 900\n合計 990")

	assert.True(t, analysis.TotalAmount.Equal(decimal.NewFromInt(990)))
}

func TestParseReceiptText_TotalFallsBackToLargestAmount(t *testing.T) {
	analysis := ParseReceiptText("店\n牛乳 238\n食パン 158")

	assert.True(t, analysis.TotalAmount.Equal(decimal.NewFromInt(238)))
}

func TestParseReceiptText_CommaGroupedAmount(t *testing.T) {
	analysis := ParseReceiptText("家電量販店\n掃除機 12,800\n合計 12,800")

	require.NotEmpty(t, analysis.Items)
	assert.True(t, analysis.TotalAmount.Equal(decimal.NewFromInt(12800)))
}

func TestParseReceiptText_Empty(t *testing.T) {
	analysis := ParseReceiptText("")

	assert.Empty(t, analysis.StoreName)
	assert.Empty(t, analysis.Items)
	assert.True(t, analysis.TotalAmount.IsZero())
}

func TestSuggestCategory(t *testing.T) {
	cases := []struct {
		store string
		want  string
	}{
		{"ウエルシア薬局", "日用品"},
		{"サンドラッグ", "日用品"},
		{"まいばすけっと", ""},
		{"ライフスーパー", "食費"},
		{"喫茶カフェ・ド・モカ", "外食"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, suggestCategory(tc.store), tc.store)
	}
}

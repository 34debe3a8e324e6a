package visionocr

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sasatake/kakeibo_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	// 2025/03/10, 2025-3-10, 2025年3月10日 and similar.
	datePattern = regexp.MustCompile(`(\d{4})[年/.-](\d{1,2})[月/.-](\d{1,2})`)

	// A line ending in an amount, optionally marked with a currency sign.
	itemPattern = regexp.MustCompile(`^[*＊]?\s*(.+?)[\s:：]*[¥￥]?\s*([0-9][0-9,]*)\s*円?\s*$`)

	amountPattern = regexp.MustCompile(`[¥￥]?\s*([0-9][0-9,]*)\s*円?`)
)

// totalKeywords mark the line carrying the receipt total. 合計 beats 小計
// when both appear, so it is listed first and matched in order.
var totalKeywords = []string{"合計", "total", "小計", "subtotal", "お買上げ計", "お買上計"}

// categoryHints maps store-name fragments onto expense category
// suggestions.
var categoryHints = []struct {
	keyword  string
	category string
}{
	{"薬局", "日用品"},
	{"ドラッグ", "日用品"},
	{"ホームセンター", "日用品"},
	{"レストラン", "外食"},
	{"食堂", "外食"},
	{"カフェ", "外食"},
	{"珈琲", "外食"},
	{"スーパー", "食費"},
	{"ストア", "食費"},
	{"マート", "食費"},
	{"mart", "食費"},
	{"market", "食費"},
}

// ParseReceiptText turns raw OCR output into a structured analysis. OCR of
// crumpled paper is noisy, so everything here is best effort: a field that
// cannot be recognized stays zero and the client corrects it.
func ParseReceiptText(text string) *domain.ReceiptAnalysis {
	lines := make([]string, 0, 64)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return &domain.ReceiptAnalysis{}
	}

	analysis := &domain.ReceiptAnalysis{
		StoreName: lines[0],
		Date:      findDate(lines),
	}
	analysis.SuggestedCategory = suggestCategory(analysis.StoreName)
	analysis.TotalAmount = findTotal(lines)

	for _, line := range lines {
		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		amount, err := parseAmount(m[2])
		if err != nil {
			continue
		}
		analysis.Items = append(analysis.Items, domain.ReceiptItem{Name: name, Amount: amount})
	}
	return analysis
}

func findDate(lines []string) string {
	for _, line := range lines {
		if m := datePattern.FindStringSubmatch(line); m != nil {
			return fmt.Sprintf("%s-%s-%s", m[1], pad(m[2]), pad(m[3]))
		}
	}
	return ""
}

func pad(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// findTotal returns the largest amount on the first keyword-marked line
// group; when no line is keyword-marked the largest amount anywhere is the
// best guess.
func findTotal(lines []string) decimal.Decimal {
	for _, keyword := range totalKeywords {
		best := decimal.Zero
		for _, line := range lines {
			if !strings.Contains(strings.ToLower(line), keyword) {
				continue
			}
			if amount, ok := largestAmount(line); ok && amount.GreaterThan(best) {
				best = amount
			}
		}
		if best.IsPositive() {
			return best
		}
	}

	best := decimal.Zero
	for _, line := range lines {
		if amount, ok := largestAmount(line); ok && amount.GreaterThan(best) {
			best = amount
		}
	}
	return best
}

func largestAmount(line string) (decimal.Decimal, bool) {
	best := decimal.Zero
	found := false
	for _, m := range amountPattern.FindAllStringSubmatch(line, -1) {
		amount, err := parseAmount(m[1])
		if err != nil {
			continue
		}
		if amount.GreaterThan(best) {
			best = amount
			found = true
		}
	}
	return best, found
}

func parseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
}

func suggestCategory(storeName string) string {
	lower := strings.ToLower(storeName)
	for _, hint := range categoryHints {
		if strings.Contains(lower, hint.keyword) {
			return hint.category
		}
	}
	return ""
}

package importer

import "strings"

// SheetType is the detected kind of a statement sheet.
type SheetType string

const (
	SheetOverseas SheetType = "overseas"
	SheetDomestic SheetType = "domestic"
	SheetSummary  SheetType = "summary"
	SheetUnknown  SheetType = "unknown"
)

// 삼성카드 명세서 시트를 구분하는 키워드
const (
	labelOverseas    = "해외"
	labelLumpSum     = "일시불"
	labelInstallment = "할부"
	labelSummary     = "요약"
	labelBillSummary = "청구요약"
)

const (
	classifyScanRows    = 10
	installmentScanRows = 5
)

// rowText joins the non-blank cells of a row into one searchable blob.
func rowText(row []string) string {
	var parts []string
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			parts = append(parts, cell)
		}
	}
	return strings.Join(parts, " ")
}

// Classify tags a sheet as overseas, domestic, summary or unknown. The sheet
// name is checked first; when it carries no marker, the first rows are
// scanned for issuer keywords. First match wins.
func Classify(sheetName string, rows [][]string) SheetType {
	if strings.Contains(sheetName, labelOverseas) {
		return SheetOverseas
	}
	if strings.Contains(sheetName, labelLumpSum) || strings.Contains(sheetName, labelInstallment) {
		return SheetDomestic
	}
	if strings.Contains(sheetName, labelBillSummary) || strings.Contains(sheetName, labelSummary) {
		return SheetSummary
	}

	for i := 0; i < classifyScanRows && i < len(rows); i++ {
		text := rowText(rows[i])
		switch {
		case strings.Contains(text, "해외이용") || strings.Contains(text, "해외매출"):
			return SheetOverseas
		case strings.Contains(text, "국내이용") || strings.Contains(text, "국내매출") ||
			strings.Contains(text, labelLumpSum):
			return SheetDomestic
		case strings.Contains(text, labelBillSummary) || strings.Contains(text, "결제예정"):
			return SheetSummary
		}
	}
	return SheetUnknown
}

// IsInstallmentSheet reports whether the first rows carry the 할부 marker.
// A sheet already classified domestic by name still needs this to pick the
// right amount column (principal vs usage amount).
func IsInstallmentSheet(rows [][]string) bool {
	for i := 0; i < installmentScanRows && i < len(rows); i++ {
		if strings.Contains(rowText(rows[i]), labelInstallment) {
			return true
		}
	}
	return false
}

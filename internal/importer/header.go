package importer

import "strings"

const headerScanRows = 20

// Header keywords per sheet variant. A row containing any of them within the
// first headerScanRows rows is taken as the header row.
var (
	domesticHeaderKeywords = []string{"이용일", "가맹점", "이용금액", "원금"}
	overseasHeaderKeywords = []string{"이용일", "가맹점", "접수일"}
)

// FindHeaderRow returns the index of the first row whose concatenated text
// contains any of the keywords, or -1 when no such row exists in the scan
// window.
func FindHeaderRow(rows [][]string, keywords []string) int {
	for i := 0; i < headerScanRows && i < len(rows); i++ {
		text := rowText(rows[i])
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return i
			}
		}
	}
	return -1
}

// field is a canonical transaction field a header column can map to.
type field string

const (
	fieldDate         field = "date"
	fieldReceiptDate  field = "receipt_date"
	fieldMerchant     field = "merchant"
	fieldBusinessType field = "business_type"
	fieldCountry      field = "country"
	fieldLocalAmount  field = "local_amount"
	fieldCurrency     field = "currency"
	fieldUsdAmount    field = "usd_amount"
	fieldExchangeRate field = "exchange_rate"
	fieldKrwAmount    field = "krw_amount"
	fieldFee          field = "fee"
	fieldBilledAmount field = "billed_amount"
	fieldPrincipal    field = "principal"
	fieldAmount       field = "amount"
	fieldInstallment  field = "installment"
)

// colRule binds a header-label predicate to a canonical field. Rules are
// evaluated top to bottom for each cell; the first matching rule claims the
// cell, and a field mapped by an earlier column is never overwritten.
type colRule struct {
	field field
	match func(label string) bool
}

func contains(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(s, sub) }
}

func containsAll(subs ...string) func(string) bool {
	return func(s string) bool {
		for _, sub := range subs {
			if !strings.Contains(s, sub) {
				return false
			}
		}
		return true
	}
}

func anyOf(preds ...func(string) bool) func(string) bool {
	return func(s string) bool {
		for _, p := range preds {
			if p(s) {
				return true
			}
		}
		return false
	}
}

func exact(label string) func(string) bool {
	return func(s string) bool { return s == label }
}

func containsUpper(sub string) func(string) bool {
	return func(s string) bool { return strings.Contains(strings.ToUpper(s), sub) }
}

var domesticColumnRules = []colRule{
	{fieldDate, contains("이용일")},
	{fieldMerchant, contains("가맹점")},
	{fieldBusinessType, contains("업종")},
	{fieldPrincipal, exact("원금")}, // '할부원금' 같은 복합 레이블과 충돌 방지
	{fieldAmount, contains("이용금액")},
	{fieldInstallment, containsAll("할부", "개월")},
}

var overseasColumnRules = []colRule{
	{fieldDate, contains("이용일")},
	{fieldReceiptDate, contains("접수일")},
	{fieldMerchant, contains("가맹점")},
	{fieldBusinessType, contains("업종")},
	{fieldCountry, contains("국가")},
	{fieldLocalAmount, containsAll("현지", "금액")},
	{fieldCurrency, anyOf(contains("화폐"), containsUpper("USD"))},
	{fieldUsdAmount, anyOf(contains("접수금액"), contains("US$"))},
	{fieldExchangeRate, contains("환율")},
	{fieldKrwAmount, contains("원화")},
	{fieldFee, contains("수수료")},
	{fieldBilledAmount, contains("청구")},
}

// buildColumnMap walks the header cells left to right and maps canonical
// fields to column indexes using the given rule table.
func buildColumnMap(headerRow []string, rules []colRule) map[field]int {
	colMap := make(map[field]int)
	for idx, cell := range headerRow {
		label := strings.TrimSpace(cell)
		if label == "" {
			continue
		}
		for _, r := range rules {
			if !r.match(label) {
				continue
			}
			if _, mapped := colMap[r.field]; !mapped {
				colMap[r.field] = idx
			}
			break
		}
	}
	return colMap
}

// cellAt returns the raw cell for a mapped field, or nil when the field is
// unmapped or the row is too short.
func cellAt(row []string, colMap map[field]int, f field) any {
	idx, ok := colMap[f]
	if !ok || idx >= len(row) {
		return nil
	}
	return row[idx]
}

// cellString is cellAt for text fields, trimmed.
func cellString(row []string, colMap map[field]int, f field) string {
	idx, ok := colMap[f]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

package importer

import (
	"errors"
	"strings"

	"github.com/chltlgns/household-ledger/internal/models"
)

// ErrHeaderNotFound is returned when no header row exists within the scan
// window. The orchestrator skips the sheet and keeps going.
var ErrHeaderNotFound = errors.New("header row not found")

// CategoryLookup resolves a default category for a merchant name from the
// stored merchant rules (longest matching pattern wins). Returns nil when no
// rule matches; the transaction is then left for manual classification.
type CategoryLookup interface {
	CategoryIDForMerchant(merchant string) *uint
}

// parseDomesticSheet converts the data rows of a 국내이용 (일시불/할부)
// sheet. Installment sheets bill the principal column; lump-sum sheets bill
// the usage-amount column. Rows with an unparseable date, an empty merchant
// or a zero amount are dropped; negative amounts (취소/환불) are kept.
func parseDomesticSheet(rows [][]string, sheetName string, lookup CategoryLookup) ([]models.Transaction, error) {
	installment := IsInstallmentSheet(rows) || strings.Contains(sheetName, labelInstallment)

	headerRow := FindHeaderRow(rows, domesticHeaderKeywords)
	if headerRow < 0 {
		return nil, ErrHeaderNotFound
	}
	colMap := buildColumnMap(rows[headerRow], domesticColumnRules)

	var txs []models.Transaction
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		date := ParseDate(cellAt(row, colMap, fieldDate))
		if date == "" {
			continue // 빈 행 또는 합계 행
		}

		var rawAmount any
		if idx, ok := colMap[fieldPrincipal]; installment && ok && idx < len(row) {
			rawAmount = row[idx]
		} else if idx, ok := colMap[fieldAmount]; ok && idx < len(row) {
			rawAmount = row[idx]
		}
		amount := int64(CleanAmount(rawAmount))

		merchant := cellString(row, colMap, fieldMerchant)
		if merchant == "" || amount == 0 {
			continue
		}

		tx := models.Transaction{
			Date:         date,
			Merchant:     merchant,
			BusinessType: optionalString(row, colMap, fieldBusinessType),
			Currency:     "KRW",
			KrwAmount:    amount,
			BilledAmount: amount,
			IsOverseas:   false,
			CategoryID:   lookup.CategoryIDForMerchant(merchant),
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// parseOverseasSheet converts the data rows of a 해외이용 sheet. The billed
// amount is always the 원화 (won-converted) column, not the issuer's own
// 청구금액 figure. Only strictly positive amounts are kept.
func parseOverseasSheet(rows [][]string, lookup CategoryLookup) ([]models.Transaction, error) {
	headerRow := FindHeaderRow(rows, overseasHeaderKeywords)
	if headerRow < 0 {
		return nil, ErrHeaderNotFound
	}
	colMap := buildColumnMap(rows[headerRow], overseasColumnRules)

	var txs []models.Transaction
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]

		date := ParseDate(cellAt(row, colMap, fieldDate))
		if date == "" {
			continue
		}

		merchant := cellString(row, colMap, fieldMerchant)
		krw := int64(CleanAmount(cellAt(row, colMap, fieldKrwAmount)))
		if merchant == "" || krw <= 0 {
			continue
		}

		currency := cellString(row, colMap, fieldCurrency)
		if currency == "" {
			currency = "USD"
		}

		tx := models.Transaction{
			Date:         date,
			ReceiptDate:  optionalDate(row, colMap, fieldReceiptDate),
			Merchant:     merchant,
			BusinessType: optionalString(row, colMap, fieldBusinessType),
			Country:      optionalString(row, colMap, fieldCountry),
			LocalAmount:  optionalAmount(row, colMap, fieldLocalAmount),
			Currency:     currency,
			UsdAmount:    optionalAmount(row, colMap, fieldUsdAmount),
			ExchangeRate: optionalAmount(row, colMap, fieldExchangeRate),
			KrwAmount:    krw,
			Fee:          int64(CleanAmount(cellAt(row, colMap, fieldFee))),
			BilledAmount: krw,
			IsOverseas:   true,
			CategoryID:   lookup.CategoryIDForMerchant(merchant),
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func optionalString(row []string, colMap map[field]int, f field) *string {
	s := cellString(row, colMap, f)
	if s == "" {
		return nil
	}
	return &s
}

func optionalAmount(row []string, colMap map[field]int, f field) *float64 {
	if _, ok := colMap[f]; !ok {
		return nil
	}
	v := CleanAmount(cellAt(row, colMap, f))
	return &v
}

func optionalDate(row []string, colMap map[field]int, f field) *string {
	d := ParseDate(cellAt(row, colMap, f))
	if d == "" {
		return nil
	}
	return &d
}

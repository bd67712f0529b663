package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/chltlgns/household-ledger/internal/models"
	"github.com/chltlgns/household-ledger/internal/store"

	"github.com/charmbracelet/log"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ErrUnsupportedFormat is returned for file extensions other than
// .xlsx/.xls/.csv, before any store mutation.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Importer parses statement files and replaces the touched months in the
// store. One import runs synchronously within the calling request.
type Importer struct {
	db  *gorm.DB
	log *log.Logger
}

func New(db *gorm.DB, logger *log.Logger) *Importer {
	return &Importer{db: db, log: logger}
}

// ruleLookup adapts the merchant-rule store query to CategoryLookup.
type ruleLookup struct {
	db     *gorm.DB
	userID uint
}

func (l ruleLookup) CategoryIDForMerchant(merchant string) *uint {
	cat, err := store.CategoryForMerchant(l.db, l.userID, merchant)
	if err != nil || cat == nil {
		return nil
	}
	id := cat.ID
	return &id
}

// ImportFile parses a statement file and persists its transactions,
// deleting every (year, month) the file covers before inserting. Reimporting
// a corrected file for the same month is therefore idempotent. Returns the
// number of rows actually persisted.
func (imp *Importer) ImportFile(userID uint, path string) (int, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("open statement: %w", err)
	}
	lookup := ruleLookup{db: imp.db, userID: userID}

	var (
		txs []models.Transaction
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		txs, err = imp.parseXLSXFile(path, lookup)
	case ".xls":
		txs, err = imp.parseXLSFile(path, lookup)
	case ".csv":
		txs, err = imp.parseCSVFile(path, lookup)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return 0, err
	}

	return imp.replaceMonths(userID, txs)
}

// parseWorkbookSheet classifies one workbook sheet and parses it when it is
// a domestic sheet. Overseas, summary and unknown sheets are skipped with a
// diagnostic; a missing header row skips the sheet without failing the
// import.
func (imp *Importer) parseWorkbookSheet(name string, rows [][]string, lookup CategoryLookup) []models.Transaction {
	sheetType := Classify(name, rows)
	switch sheetType {
	case SheetDomestic:
		txs, err := parseDomesticSheet(rows, name, lookup)
		if err != nil {
			imp.log.Warn("skipping sheet", "sheet", name, "reason", err)
			return nil
		}
		imp.log.Info("parsed domestic sheet", "sheet", name, "rows", len(txs))
		return txs
	case SheetOverseas:
		// 해외결제 시트는 워크북 import에서 제외
		imp.log.Info("skipping overseas sheet", "sheet", name)
		return nil
	default:
		imp.log.Info("skipping sheet", "sheet", name, "type", sheetType)
		return nil
	}
}

func (imp *Importer) parseXLSXFile(path string, lookup CategoryLookup) ([]models.Transaction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	var all []models.Transaction
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			imp.log.Warn("skipping unreadable sheet", "sheet", name, "err", err)
			continue
		}
		all = append(all, imp.parseWorkbookSheet(name, rows, lookup)...)
	}
	return all, nil
}

func (imp *Importer) parseXLSFile(path string, lookup CategoryLookup) ([]models.Transaction, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	var all []models.Transaction
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		all = append(all, imp.parseWorkbookSheet(sheet.Name, xlsSheetRows(sheet), lookup)...)
	}
	return all, nil
}

// xlsSheetRows flattens a legacy-xls sheet into positional string rows so
// the same heuristics run over every input format.
func xlsSheetRows(sheet *xls.WorkSheet) [][]string {
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheet.Row(r)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol()+1)
		for c := 0; c <= row.LastCol(); c++ {
			if c < row.FirstCol() {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, row.Col(c))
		}
		rows = append(rows, cells)
	}
	return rows
}

// parseCSVFile treats the CSV as a single sheet. Unlike the workbook path,
// an overseas-classified CSV is parsed with the overseas converter.
func (imp *Importer) parseCSVFile(path string, lookup CategoryLookup) ([]models.Transaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var (
		txs      []models.Transaction
		parseErr error
	)
	switch sheetType := Classify("", records); sheetType {
	case SheetOverseas:
		txs, parseErr = parseOverseasSheet(records, lookup)
	case SheetDomestic:
		txs, parseErr = parseDomesticSheet(records, "", lookup)
	default:
		imp.log.Info("csv not recognized as a statement sheet", "type", sheetType)
		return nil, nil
	}
	if parseErr != nil {
		imp.log.Warn("skipping csv", "reason", parseErr)
		return nil, nil
	}
	return txs, nil
}

// replaceMonths partitions the parsed transactions by YYYYMM and, for each
// month in one database transaction, deletes the user's existing rows for
// that month and inserts the new ones. Row-level insert failures are logged
// and skipped; the returned count covers successful inserts only.
func (imp *Importer) replaceMonths(userID uint, txs []models.Transaction) (int, error) {
	byMonth := make(map[string][]models.Transaction)
	for i := range txs {
		txs[i].UserID = userID
		if len(txs[i].Date) < 6 {
			continue
		}
		key := txs[i].Date[:6]
		byMonth[key] = append(byMonth[key], txs[i])
	}

	months := make([]string, 0, len(byMonth))
	for m := range byMonth {
		months = append(months, m)
	}
	sort.Strings(months)

	inserted := 0
	for _, month := range months {
		rows := byMonth[month]
		year, _ := strconv.Atoi(month[:4])
		mon, _ := strconv.Atoi(month[4:6])

		monthInserted := 0
		err := imp.db.Transaction(func(tx *gorm.DB) error {
			deleted, err := store.DeleteMonth(tx, userID, year, mon)
			if err != nil {
				return err
			}
			if deleted > 0 {
				imp.log.Info("replacing month", "month", month, "deleted", deleted)
			}
			for i := range rows {
				if err := tx.Create(&rows[i]).Error; err != nil {
					imp.log.Warn("row insert failed",
						"month", month, "merchant", rows[i].Merchant, "err", err)
					continue
				}
				monthInserted++
			}
			return nil
		})
		if err != nil {
			return inserted, fmt.Errorf("replace month %s: %w", month, err)
		}
		inserted += monthInserted
	}

	imp.log.Info("import finished", "inserted", inserted)
	return inserted, nil
}

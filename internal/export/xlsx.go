package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"spendpal/internal/store"
)

const (
	RequestsSheet     = "Requests"
	TransactionsSheet = "Transactions"
	dateLayout        = "2006-01-02"
	timeLayout        = "2006-01-02 15:04"
	defaultSheet      = "Sheet1"
)

var (
	requestHeaders     = []string{"ID", "Date", "Description", "Category", "Amount", "Status", "Submitted By", "Approvers", "Approved By", "Rejected By", "Notes"}
	transactionHeaders = []string{"ID", "Time", "Type", "Description", "Amount", "Fee", "Net"}
)

// WriteXLSX writes the requests and wallet transactions of snap as a workbook.
func WriteXLSX(w io.Writer, snap store.State) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRequests(f, snap); err != nil {
		return err
	}
	if err := writeTransactions(f, snap); err != nil {
		return err
	}
	if err := f.DeleteSheet(defaultSheet); err != nil {
		return fmt.Errorf("failed to remove default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(RequestsSheet)
	if err != nil {
		return fmt.Errorf("failed to activate sheet: %w", err)
	}
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRequests(f *excelize.File, snap store.State) error {
	if _, err := f.NewSheet(RequestsSheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", RequestsSheet, err)
	}
	rows := make([][]any, 0, len(snap.Requests))
	for _, r := range snap.Requests {
		rows = append(rows, []any{
			r.ID,
			r.Date.Format(dateLayout),
			r.Description,
			r.Category,
			r.Amount.InexactFloat64(),
			string(r.Status),
			r.SubmittedBy,
			strings.Join(r.Approvers, ", "),
			strings.Join(r.ApprovedBy, ", "),
			r.RejectedBy,
			r.Notes,
		})
	}
	if err := writeTable(f, RequestsSheet, requestHeaders, rows); err != nil {
		return err
	}
	return setWidths(f, RequestsSheet, map[string]float64{"A": 38, "B": 12, "C": 30, "D": 18, "E": 12, "H": 24, "I": 24, "K": 30})
}

func writeTransactions(f *excelize.File, snap store.State) error {
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", TransactionsSheet, err)
	}
	rows := make([][]any, 0, len(snap.Transactions))
	for _, t := range snap.Transactions {
		rows = append(rows, []any{
			t.ID,
			t.Timestamp.Format(timeLayout),
			t.Type,
			t.Description,
			t.Amount.InexactFloat64(),
			t.Fee.InexactFloat64(),
			t.Net().InexactFloat64(),
		})
	}
	if err := writeTable(f, TransactionsSheet, transactionHeaders, rows); err != nil {
		return err
	}
	return setWidths(f, TransactionsSheet, map[string]float64{"A": 38, "B": 18, "D": 30})
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}

func setWidths(f *excelize.File, sheet string, widths map[string]float64) error {
	for col, width := range widths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", col, err)
		}
	}
	return nil
}

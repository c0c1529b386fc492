// Package export renders entity lists as downloadable CSV or Excel files.
// Exports are generated synchronously and streamed straight to the caller;
// nothing is written to disk.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/salesbridge/salesbridge/pkg/activities"
	"github.com/salesbridge/salesbridge/pkg/companies"
	"github.com/salesbridge/salesbridge/pkg/contacts"
	"github.com/salesbridge/salesbridge/pkg/deals"
	"github.com/salesbridge/salesbridge/pkg/listview"
	"github.com/salesbridge/salesbridge/pkg/quotes"
)

// Format of a generated export
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// table is a fully materialized export: a sheet name, a header row, and the
// data rows
type table struct {
	name    string
	headers []string
	rows    [][]any
}

// Service builds exports from the entity services
type Service struct {
	contacts   *contacts.Service
	companies  *companies.Service
	deals      *deals.Service
	activities *activities.Service
	quotes     *quotes.Service
}

// NewService creates a new export service
func NewService(
	contactsSvc *contacts.Service,
	companiesSvc *companies.Service,
	dealsSvc *deals.Service,
	activitiesSvc *activities.Service,
	quotesSvc *quotes.Service,
) *Service {
	return &Service{
		contacts:   contactsSvc,
		companies:  companiesSvc,
		deals:      dealsSvc,
		activities: activitiesSvc,
		quotes:     quotesSvc,
	}
}

// Export writes the named entity's list to w in the given format and returns
// the suggested filename. A non-empty search narrows the rows with the same
// filter the list views use.
func (s *Service) Export(ctx context.Context, entity, format, search string, w io.Writer) (string, error) {
	tbl, err := s.buildTable(ctx, entity, search)
	if err != nil {
		return "", err
	}

	timestamp := time.Now().Format("20060102-150405")

	switch format {
	case FormatCSV:
		if err := writeCSV(w, tbl); err != nil {
			return "", fmt.Errorf("failed to write csv: %w", err)
		}
		return fmt.Sprintf("%s-%s.csv", entity, timestamp), nil
	case FormatExcel:
		if err := writeExcel(w, tbl); err != nil {
			return "", fmt.Errorf("failed to write excel: %w", err)
		}
		return fmt.Sprintf("%s-%s.xlsx", entity, timestamp), nil
	default:
		return "", fmt.Errorf("invalid format %q: must be csv or excel", format)
	}
}

func (s *Service) buildTable(ctx context.Context, entity, search string) (table, error) {
	switch entity {
	case "contacts":
		list, err := s.contacts.GetAll(ctx)
		if err != nil {
			return table{}, err
		}
		list = listview.Filter(list, search, contacts.Schema.Search)
		tbl := table{
			name:    "Contacts",
			headers: []string{"ID", "Name", "Email", "Phone", "Company", "Last Contact", "Notes", "Created", "Updated"},
		}
		for _, c := range list {
			tbl.rows = append(tbl.rows, []any{
				c.ID, c.Name, c.Email, c.Phone, c.Company,
				c.LastContactDate, c.Notes, c.CreatedAt, c.UpdatedAt,
			})
		}
		return tbl, nil

	case "companies":
		list, err := s.companies.GetAll(ctx)
		if err != nil {
			return table{}, err
		}
		list = listview.Filter(list, search, companies.Schema.Search)
		tbl := table{
			name:    "Companies",
			headers: []string{"ID", "Name", "Industry", "Address", "Contacts", "Total Deal Value", "Last Activity", "Created", "Updated"},
		}
		for _, c := range list {
			tbl.rows = append(tbl.rows, []any{
				c.ID, c.Name, c.Industry, c.Address, c.ContactCount,
				c.TotalDealValue, c.LastActivityDate, c.CreatedAt, c.UpdatedAt,
			})
		}
		return tbl, nil

	case "deals":
		list, err := s.deals.GetAll(ctx)
		if err != nil {
			return table{}, err
		}
		list = listview.Filter(list, search, deals.Schema.Search)
		tbl := table{
			name:    "Deals",
			headers: []string{"ID", "Title", "Contact", "Company", "Value", "Probability", "Stage", "Status", "Expected Close", "Created", "Updated"},
		}
		for _, d := range list {
			tbl.rows = append(tbl.rows, []any{
				d.ID, d.Title, d.ContactName, d.Company, d.Value, d.Probability,
				d.Stage, d.Status, d.ExpectedCloseDate, d.CreatedAt, d.UpdatedAt,
			})
		}
		return tbl, nil

	case "activities":
		list, err := s.activities.GetAll(ctx)
		if err != nil {
			return table{}, err
		}
		list = listview.Filter(list, search, activities.Schema.Search)
		tbl := table{
			name:    "Activities",
			headers: []string{"ID", "Title", "Type", "Status", "Priority", "Due", "Completed", "Contact", "Deal", "Assigned To", "Outcome", "Created"},
		}
		for _, a := range list {
			tbl.rows = append(tbl.rows, []any{
				a.ID, a.Title, a.Type, a.Status, a.Priority, a.DueDate,
				a.CompletedAt, a.ContactName, a.DealTitle, a.AssignedTo,
				a.Outcome, a.CreatedAt,
			})
		}
		return tbl, nil

	case "quotes":
		list, err := s.quotes.GetAll(ctx)
		if err != nil {
			return table{}, err
		}
		list = listview.Filter(list, search, quotes.Schema.Search)
		tbl := table{
			name:    "Quotes",
			headers: []string{"ID", "Name", "Quote Number", "Deal", "Quote Date", "Valid Until", "Amount", "Status", "Created", "Updated"},
		}
		for _, q := range list {
			tbl.rows = append(tbl.rows, []any{
				q.ID, q.Name, q.QuoteNumber, q.DealName, q.QuoteDate,
				q.ValidUntilDate, q.Amount, q.Status, q.CreatedAt, q.UpdatedAt,
			})
		}
		return tbl, nil

	default:
		return table{}, fmt.Errorf("unknown export entity %q", entity)
	}
}

func writeCSV(w io.Writer, tbl table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(tbl.headers); err != nil {
		return err
	}

	record := make([]string, len(tbl.headers))
	for _, row := range tbl.rows {
		for i, value := range row {
			record[i] = cellString(value)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func writeExcel(w io.Writer, tbl table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := tbl.name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	for i, header := range tbl.headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(tbl.headers))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return err
	}

	for r, row := range tbl.rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func cellString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

package dataprocessing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// columnMap maps a column name to its index in the header
type columnMap map[string]int

// mapColumns indexes header and fails when a required column is missing.
func mapColumns(table *RawTable, required []string) (columnMap, error) {
	columns := make(columnMap, len(table.Header))
	for i, name := range table.Header {
		if _, dup := columns[name]; !dup {
			columns[name] = i
		}
	}
	for _, name := range required {
		if _, ok := columns[name]; !ok {
			return nil, apperrors.NewParsingError(fmt.Sprintf("missing required column %q", name), nil).
				WithContext("path", table.Path)
		}
	}
	return columns, nil
}

// rowParser reads typed cells out of one raw row. The first failure is kept
// in err and later reads become no-ops, so a row is checked once at the end.
type rowParser struct {
	table   *RawTable
	columns columnMap
	row     []string
	line    int
	layout  string
	err     error
}

func (p *rowParser) reset(i int) {
	p.row = p.table.Rows[i]
	p.line = p.table.Line[i]
	p.err = nil
}

func (p *rowParser) cell(column string) string {
	idx, ok := p.columns[column]
	if !ok || idx >= len(p.row) {
		return ""
	}
	return strings.TrimSpace(p.row[idx])
}

func (p *rowParser) fail(column, value string, cause error) {
	if p.err != nil {
		return
	}
	p.err = apperrors.NewParsingError(
		fmt.Sprintf("invalid value %q in column %s at line %d", value, column, p.line), cause).
		WithContext("path", p.table.Path).
		WithContext("line", p.line).
		WithContext("column", column)
}

func (p *rowParser) str(column string) string {
	return p.cell(column)
}

func (p *rowParser) optionalString(column string) *string {
	v := p.cell(column)
	if v == "" {
		return nil
	}
	return &v
}

func (p *rowParser) float(column string) float64 {
	v := p.cell(column)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		p.fail(column, v, err)
		return 0
	}
	return f
}

// optionalFloat reads an empty cell, "NaN" or "nan" as null
func (p *rowParser) optionalFloat(column string) *float64 {
	v := p.cell(column)
	if v == "" || strings.EqualFold(v, "nan") {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(column, v, err)
		return nil
	}
	return &f
}

// integer also accepts integral floats such as "2.0"
func (p *rowParser) integer(column string) int {
	v := p.cell(column)
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		p.fail(column, v, err)
		return 0
	}
	return int(f)
}

// date parses the configured layout, falling back to an Excel date serial
// for workbooks read with raw cell values.
func (p *rowParser) date(column string) time.Time {
	v := p.cell(column)
	if t, err := time.Parse(p.layout, v); err == nil {
		return t
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
	}
	p.fail(column, v, fmt.Errorf("expected date layout %s", p.layout))
	return time.Time{}
}

func newRowParser(table *RawTable, required []string, layout string) (*rowParser, error) {
	columns, err := mapColumns(table, required)
	if err != nil {
		return nil, err
	}
	return &rowParser{table: table, columns: columns, layout: layout}, nil
}

// ParseTransactions converts raw rows into transactions. Dates use layout.
func ParseTransactions(table *RawTable, layout string) ([]domain.Transaction, error) {
	p, err := newRowParser(table, domain.TransactionColumns, layout)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Transaction, len(table.Rows))
	for i := range table.Rows {
		p.reset(i)
		out[i] = domain.Transaction{
			Date:           p.date("t_dat"),
			CustomerID:     p.str("customer_id"),
			ArticleID:      p.str("article_id"),
			Price:          p.float("price"),
			SalesChannelID: p.integer("sales_channel_id"),
		}
		if p.err != nil {
			return nil, p.err
		}
	}
	return out, nil
}

// ParseCustomers converts raw rows into customers. Empty cells become nil.
func ParseCustomers(table *RawTable) ([]domain.Customer, error) {
	p, err := newRowParser(table, domain.CustomerColumns, "")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Customer, len(table.Rows))
	for i := range table.Rows {
		p.reset(i)
		out[i] = domain.Customer{
			CustomerID:           p.str("customer_id"),
			Age:                  p.optionalFloat("age"),
			FN:                   p.optionalFloat("FN"),
			Active:               p.optionalFloat("Active"),
			FashionNewsFrequency: p.optionalString("fashion_news_frequency"),
			ClubMemberStatus:     p.optionalString("club_member_status"),
		}
		if p.err != nil {
			return nil, p.err
		}
	}
	return out, nil
}

// ParseArticles converts raw rows into articles
func ParseArticles(table *RawTable) ([]domain.Article, error) {
	p, err := newRowParser(table, domain.ArticleColumns, "")
	if err != nil {
		return nil, err
	}

	out := make([]domain.Article, len(table.Rows))
	for i := range table.Rows {
		p.reset(i)
		out[i] = domain.Article{
			ArticleID:               p.str("article_id"),
			ProductTypeName:         p.str("product_type_name"),
			ColourGroupName:         p.str("colour_group_name"),
			GraphicalAppearanceName: p.str("graphical_appearance_name"),
		}
	}
	return out, nil
}

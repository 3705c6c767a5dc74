package dataprocessing

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/meganhong98/demand-forecasting/internal/errors"
	"github.com/meganhong98/demand-forecasting/pkg/contracts/domain"
)

// Validator checks parsed rows against the validate tags of the domain types
// and the uniqueness of table keys.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a row validator
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) rows(table string, n int, row func(int) interface{}, lines []int) error {
	for i := 0; i < n; i++ {
		if err := v.validate.Struct(row(i)); err != nil {
			line := i + 2
			if i < len(lines) {
				line = lines[i]
			}
			return apperrors.NewValidationError(
				fmt.Sprintf("invalid %s row at line %d", table, line), err).
				WithContext("table", table).
				WithContext("line", line)
		}
	}
	return nil
}

func uniqueKeys(table string, n int, key func(int) string) error {
	seen := make(map[string]int, n)
	for i := 0; i < n; i++ {
		k := key(i)
		if first, dup := seen[k]; dup {
			return apperrors.NewValidationError(
				fmt.Sprintf("duplicate %s key %q in rows %d and %d", table, k, first+1, i+1), nil).
				WithContext("table", table).
				WithContext("key", k)
		}
		seen[k] = i
	}
	return nil
}

// Transactions validates every transaction row
func (v *Validator) Transactions(txs []domain.Transaction, lines []int) error {
	return v.rows(domain.TableTransactions, len(txs), func(i int) interface{} { return &txs[i] }, lines)
}

// Customers validates every customer row and the uniqueness of customer_id
func (v *Validator) Customers(customers []domain.Customer, lines []int) error {
	if err := v.rows(domain.TableCustomers, len(customers), func(i int) interface{} { return &customers[i] }, lines); err != nil {
		return err
	}
	return uniqueKeys(domain.TableCustomers, len(customers), func(i int) string { return customers[i].CustomerID })
}

// Articles validates every article row and the uniqueness of article_id
func (v *Validator) Articles(articles []domain.Article, lines []int) error {
	if err := v.rows(domain.TableArticles, len(articles), func(i int) interface{} { return &articles[i] }, lines); err != nil {
		return err
	}
	return uniqueKeys(domain.TableArticles, len(articles), func(i int) string { return articles[i].ArticleID })
}

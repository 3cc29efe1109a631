package service

import (
	"fmt"
	"strings"

	"github.com/honeynil/financial-monitor/internal/models"
	pkgerrors "github.com/honeynil/financial-monitor/pkg/errors"
)

var supportedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "ILS": {}, "GBP": {},
	"JPY": {}, "CHF": {}, "CAD": {}, "AUD": {},
}

// ValidateInput checks the business rules against the raw, pre-normalization
// input. Rules run in a fixed order and the first failure wins.
func ValidateInput(in *models.TransactionInput) error {
	if !in.Amount.IsPositive() {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidAmount, "Amount must be greater than zero.")
	}

	currency := strings.TrimSpace(in.Currency)
	if len(currency) != 3 {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidCurrency, "Currency must be a 3-letter ISO code.")
	}
	if _, ok := supportedCurrencies[strings.ToUpper(currency)]; !ok {
		return pkgerrors.Wrap(pkgerrors.ErrUnsupportedCurrency,
			fmt.Sprintf("Currency '%s' is not supported.", in.Currency))
	}

	if _, ok := models.ParseStatus(in.Status); !ok {
		return pkgerrors.Wrap(pkgerrors.ErrInvalidStatus,
			fmt.Sprintf("Invalid transaction status: '%s'.", in.Status))
	}

	return nil
}

package service

import "github.com/shopspring/decimal"

// RatioPrecision is the number of fractional digits kept on an investor's
// share ratio. Payouts are not corrected afterwards, so the sum of payouts
// may differ from the distributed total by up to n * 10^-6 * total.
const RatioPrecision = 6

// StoragePrecision matches the decimal(19,2) money columns.
const StoragePrecision = 2

// ShareRatio is amount / total rounded half up to RatioPrecision digits.
func ShareRatio(amount, total decimal.Decimal) decimal.Decimal {
	return amount.DivRound(total, RatioPrecision)
}

// RevenueShare is the part of revenue owed to an investment of amount out of total.
func RevenueShare(amount, total, revenue decimal.Decimal) decimal.Decimal {
	return revenue.Mul(ShareRatio(amount, total))
}

// StoredAmount is amount as the money columns persist it.
func StoredAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(StoragePrecision)
}

// ProfitShare returns the principal plus the investment's share of profit.
func ProfitShare(amount, total, profit decimal.Decimal) decimal.Decimal {
	return amount.Add(profit.Mul(ShareRatio(amount, total)))
}

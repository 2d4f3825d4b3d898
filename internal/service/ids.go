package service

import (
	"strings"

	"github.com/google/uuid"
)

const (
	InvestmentTxPrefix = "TXN_"
	PayoutTxPrefix     = "PAYOUT_"
)

func newTransactionID(prefix string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + id[:16]
}

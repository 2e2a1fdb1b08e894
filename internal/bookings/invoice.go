package bookings

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const invoiceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// generateInvoiceNumber produces references like INV-20260830-7KQ2XN.
// The uniqueness constraint on the column catches the rare collision.
func generateInvoiceNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(invoiceCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate invoice suffix: %w", err)
		}
		suffix[i] = invoiceCharset[n.Int64()]
	}
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), string(suffix)), nil
}

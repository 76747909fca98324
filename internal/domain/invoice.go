package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// Invoice numbers look like PO-000042: "PO-" followed by a zero-padded
// six digit sequence number.
var invoiceNumberPattern = regexp.MustCompile(`^PO-(\d+)$`)

// FormatInvoiceNumber renders a sequence number in the PO-NNNNNN format.
func FormatInvoiceNumber(n int) string {
	return fmt.Sprintf("PO-%06d", n)
}

// NextInvoiceNumber returns the invoice number following the last issued one.
// An empty last number starts the sequence at PO-000001.
func NextInvoiceNumber(last string) (string, error) {
	if last == "" {
		return FormatInvoiceNumber(1), nil
	}

	matches := invoiceNumberPattern.FindStringSubmatch(last)
	if matches == nil {
		return "", fmt.Errorf("malformed invoice number %q", last)
	}

	n, err := strconv.Atoi(matches[1])
	if err != nil {
		return "", fmt.Errorf("malformed invoice number %q: %w", last, err)
	}

	return FormatInvoiceNumber(n + 1), nil
}

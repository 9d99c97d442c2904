package domain

import (
	"fmt"
	"sync/atomic"
	"time"
)

var invoiceSeq uint64

// NextInvoiceNumber returns a new invoice number of the form
// FACT-<unix millis>-<sequence>. The sequence makes numbers generated in the
// same millisecond distinct within a process; the unique constraint on
// numero_factura is the backstop across processes.
func NextInvoiceNumber() string {
	seq := atomic.AddUint64(&invoiceSeq, 1)
	return fmt.Sprintf("FACT-%d-%d", time.Now().UnixMilli(), seq)
}

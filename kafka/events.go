package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductCreatedEvent is emitted by the catalog service when a product is
// registered. The inventory service consumes it to open a zero-quantity
// stock row for the new product.
type ProductCreatedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ProductID uint      `json:"producto_id"`
	Name      string    `json:"nombre"`
	CompanyID uint      `json:"empresa_id"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleCompletedEvent is emitted by the sales service after a sale transitions
// to COMPLETADA and the inventory batch has committed.
type SaleCompletedEvent struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	SaleID        uint            `json:"venta_id"`
	InvoiceNumber string          `json:"numero_factura"`
	CustomerID    uint            `json:"cliente_id"`
	Total         decimal.Decimal `json:"total"`
	Lines         []SaleLineEvent `json:"detalles"`
	Timestamp     time.Time       `json:"timestamp"`
}

// SaleLineEvent is one line of a completed sale.
type SaleLineEvent struct {
	ProductID uint `json:"producto_id"`
	Quantity  int  `json:"cantidad"`
}

// Event types
const (
	EventTypeProductCreated = "producto.creado"
	EventTypeSaleCompleted  = "venta.completada"
)

// Kafka topics
const (
	TopicProductCreated = "producto-creado"
	TopicSaleCompleted  = "venta-completada"
)

package sales

// ClientConfig holds the base URLs of the services sales calls out to.
type ClientConfig struct {
	CatalogURL   string
	InventoryURL string
}

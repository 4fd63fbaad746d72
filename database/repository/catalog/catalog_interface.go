package catalogRepo

import "maravi/models"

// CatalogRepository exposes the read-only catalog views the orchestrators
// need: items, the promotions that may discount them, and delivery providers.
type CatalogRepository interface {
	GetItem(id string) (*models.Item, error)
	ActivePromotionsFor(itemID string, kind models.ItemKind) ([]models.Promotion, error)
	GetDeliveryProvider(id string) (*models.DeliveryProvider, error)
}

package entity

// ProductDoc represents catalog data for a product in MongoDB. Store-level
// overrides shadow the default name/image for specific store views.
type ProductDoc struct {
	ProductID      string             `bson:"productId"`
	ExternalID     string             `bson:"externalId"`
	Name           string             `bson:"name"`
	Image          string             `bson:"image"`
	StoreOverrides []ProductStoreData `bson:"storeOverrides,omitempty"`
}

// ProductStoreData holds per-store catalog overrides.
type ProductStoreData struct {
	StoreID int64  `bson:"storeId"`
	Name    string `bson:"name,omitempty"`
	Image   string `bson:"image,omitempty"`
}

// ForStore returns the effective name and image for the given store view.
func (d *ProductDoc) ForStore(storeID int64) (name, image string) {
	name, image = d.Name, d.Image
	for _, o := range d.StoreOverrides {
		if o.StoreID == storeID {
			if o.Name != "" {
				name = o.Name
			}
			if o.Image != "" {
				image = o.Image
			}
			return name, image
		}
	}
	return name, image
}

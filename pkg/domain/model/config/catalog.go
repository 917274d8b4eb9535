package config

// Catalog is the complete metadata schema served by the backend
type Catalog struct {
	Schema         *FieldSchema
	ComponentTypes []ComponentType
	Groups         []MetadataGroup
	Dropdowns      []Dropdown
}

package config

import (
	"errors"
	"io/fs"
	"os"

	domainConfig "github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// SchemaFile is the TOML seed of the reference backend's metadata schema
type SchemaFile struct {
	ComponentTypes []ComponentType `toml:"component_type"`
	Groups         []Group         `toml:"group"`
	Dropdowns      []Dropdown      `toml:"dropdown"`
	Fields         []Field         `toml:"field"`
}

type ComponentType struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
}

type Group struct {
	ID     int64  `toml:"id"`
	Name   string `toml:"name"`
	Status string `toml:"status"`
}

type DropdownOption struct {
	Label string `toml:"label"`
	Value string `toml:"value"`
}

type Dropdown struct {
	ID      int64            `toml:"id"`
	Name    string           `toml:"name"`
	Code    string           `toml:"code"`
	Options []DropdownOption `toml:"option"`
}

// Field is one metadata registry entry. ComponentType, Group and Dropdown
// refer to entries by ID; zero means none.
type Field struct {
	ID            int64  `toml:"id"`
	Key           string `toml:"key"`
	Title         string `toml:"title"`
	Required      bool   `toml:"required"`
	Multiple      bool   `toml:"multiple"`
	ComponentType int64  `toml:"component_type"`
	Group         int64  `toml:"group"`
	Dropdown      int64  `toml:"dropdown"`
}

// Validate checks ids, keys and references
func (s *SchemaFile) Validate() error {
	componentTypes := make(map[int64]ComponentType)
	for i, ct := range s.ComponentTypes {
		if err := checkEntry("component_type", i, ct.ID, ct.Name, componentTypes); err != nil {
			return err
		}
		componentTypes[ct.ID] = ct
	}

	groups := make(map[int64]Group)
	for i, g := range s.Groups {
		if err := checkEntry("group", i, g.ID, g.Name, groups); err != nil {
			return err
		}
		if g.Status != "" && !types.Status(g.Status).IsValid() {
			return goerr.Wrap(ErrInvalidStatus, "invalid group",
				goerr.V(IDKey, g.ID), goerr.V("status", g.Status))
		}
		groups[g.ID] = g
	}

	dropdowns := make(map[int64]Dropdown)
	for i, d := range s.Dropdowns {
		if err := checkEntry("dropdown", i, d.ID, d.Name, dropdowns); err != nil {
			return err
		}
		if len(d.Options) == 0 {
			return goerr.Wrap(ErrMissingOptions, "invalid dropdown", goerr.V(IDKey, d.ID))
		}
		dropdowns[d.ID] = d
	}

	fieldIDs := make(map[int64]bool)
	fieldKeys := make(map[string]bool)
	for i, f := range s.Fields {
		if f.ID <= 0 {
			return goerr.Wrap(ErrInvalidID, "invalid field",
				goerr.V(IndexKey, i), goerr.V(IDKey, f.ID))
		}
		if fieldIDs[f.ID] {
			return goerr.Wrap(ErrDuplicateID, "invalid field",
				goerr.V(KindKey, "field"), goerr.V(IDKey, f.ID))
		}
		fieldIDs[f.ID] = true

		if err := types.MetadataKey(f.Key).Validate(); err != nil {
			return goerr.Wrap(err, "invalid field key", goerr.V(IDKey, f.ID))
		}
		if fieldKeys[f.Key] {
			return goerr.Wrap(ErrDuplicateFieldKey, "invalid field",
				goerr.V(IDKey, f.ID), goerr.V(FieldKeyKey, f.Key))
		}
		fieldKeys[f.Key] = true

		if f.Title == "" {
			return goerr.Wrap(ErrMissingName, "field title is required", goerr.V(IDKey, f.ID))
		}

		var ct ComponentType
		if f.ComponentType != 0 {
			var ok bool
			if ct, ok = componentTypes[f.ComponentType]; !ok {
				return goerr.Wrap(ErrUnknownReference, "invalid field",
					goerr.V(IDKey, f.ID), goerr.V(KindKey, "component_type"), goerr.V(RefKey, f.ComponentType))
			}
		}
		if f.Group != 0 {
			if _, ok := groups[f.Group]; !ok {
				return goerr.Wrap(ErrUnknownReference, "invalid field",
					goerr.V(IDKey, f.ID), goerr.V(KindKey, "group"), goerr.V(RefKey, f.Group))
			}
		}
		if f.Dropdown != 0 {
			if _, ok := dropdowns[f.Dropdown]; !ok {
				return goerr.Wrap(ErrUnknownReference, "invalid field",
					goerr.V(IDKey, f.ID), goerr.V(KindKey, "dropdown"), goerr.V(RefKey, f.Dropdown))
			}
		} else if types.IsDropdownComponent(ct.Name) {
			return goerr.Wrap(ErrMissingDropdown, "invalid field",
				goerr.V(IDKey, f.ID), goerr.V(FieldKeyKey, f.Key))
		}
	}

	return nil
}

func checkEntry[T any](kind string, index int, id int64, name string, seen map[int64]T) error {
	if id <= 0 {
		return goerr.Wrap(ErrInvalidID, "invalid "+kind,
			goerr.V(IndexKey, index), goerr.V(IDKey, id))
	}
	if _, ok := seen[id]; ok {
		return goerr.Wrap(ErrDuplicateID, "invalid "+kind,
			goerr.V(KindKey, kind), goerr.V(IDKey, id))
	}
	if name == "" {
		return goerr.Wrap(ErrMissingName, "invalid "+kind, goerr.V(IDKey, id))
	}
	return nil
}

// LoadSchemaFile reads and validates a schema file
func LoadSchemaFile(path string) (*SchemaFile, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "schema file not found", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read schema file", goerr.V(ConfigPathKey, path))
	}

	var schema SchemaFile
	if err := toml.Unmarshal(data, &schema); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML schema",
			goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := schema.Validate(); err != nil {
		return nil, goerr.Wrap(err, "schema validation failed", goerr.V(ConfigPathKey, path))
	}

	return &schema, nil
}

// ToCatalog converts the file into the domain catalog. Fields keep file
// order.
func (s *SchemaFile) ToCatalog() *domainConfig.Catalog {
	catalog := &domainConfig.Catalog{
		ComponentTypes: make([]domainConfig.ComponentType, len(s.ComponentTypes)),
		Groups:         make([]domainConfig.MetadataGroup, len(s.Groups)),
		Dropdowns:      make([]domainConfig.Dropdown, len(s.Dropdowns)),
	}

	componentTypes := make(map[int64]domainConfig.ComponentType)
	for i, ct := range s.ComponentTypes {
		catalog.ComponentTypes[i] = domainConfig.ComponentType{ID: types.ComponentTypeID(ct.ID), Name: ct.Name}
		componentTypes[ct.ID] = catalog.ComponentTypes[i]
	}

	groups := make(map[int64]domainConfig.MetadataGroup)
	for i, g := range s.Groups {
		status := types.Status(g.Status)
		if status == "" {
			status = types.StatusActive
		}
		catalog.Groups[i] = domainConfig.MetadataGroup{ID: types.GroupID(g.ID), Name: g.Name, Status: status}
		groups[g.ID] = catalog.Groups[i]
	}

	for i, d := range s.Dropdowns {
		options := make([]domainConfig.DropdownOption, len(d.Options))
		for j, o := range d.Options {
			options[j] = domainConfig.DropdownOption{Label: o.Label, Value: o.Value}
		}
		catalog.Dropdowns[i] = domainConfig.Dropdown{ID: types.DropdownID(d.ID), Name: d.Name, Code: d.Code, Options: options}
	}

	defs := make([]domainConfig.FieldDefinition, len(s.Fields))
	for i, f := range s.Fields {
		def := domainConfig.FieldDefinition{
			ID:       types.FieldID(f.ID),
			Key:      types.MetadataKey(f.Key),
			Title:    f.Title,
			Required: f.Required,
			Multiple: f.Multiple,
		}
		if ct, ok := componentTypes[f.ComponentType]; ok {
			def.ComponentType = &ct
		}
		if g, ok := groups[f.Group]; ok {
			def.Group = &g
		}
		if f.Dropdown != 0 {
			id := types.DropdownID(f.Dropdown)
			def.DropdownID = &id
		}
		defs[i] = def
	}
	catalog.Schema = domainConfig.NewFieldSchema(defs)

	return catalog
}

// Schema holds the CLI flag for the schema file
type Schema struct {
	path string
}

func (x *Schema) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "schema",
			Usage:       "Path to the metadata schema TOML file",
			Category:    "Schema",
			Sources:     cli.EnvVars("METAFORM_SCHEMA"),
			Destination: &x.path,
		},
	}
}

// Path returns the configured schema path
func (x *Schema) Path() string {
	return x.path
}

// Configure loads the schema file. Without a path an empty catalog is
// served.
func (x *Schema) Configure() (*domainConfig.Catalog, error) {
	if x.path == "" {
		return &domainConfig.Catalog{Schema: domainConfig.NewFieldSchema(nil)}, nil
	}
	schema, err := LoadSchemaFile(x.path)
	if err != nil {
		return nil, err
	}
	return schema.ToCatalog(), nil
}

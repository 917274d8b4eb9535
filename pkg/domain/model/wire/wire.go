// Package wire defines the JSON documents exchanged with the DMS backend
// and their conversion to domain types.
package wire

import (
	"time"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
)

type ComponentType struct {
	ID   int64  `json:"component_type_id"`
	Name string `json:"name"`
}

type MetadataGroup struct {
	ID     int64  `json:"metadata_group_id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type FieldDefinition struct {
	ID            int64          `json:"metadata_registry_id"`
	Title         string         `json:"title"`
	Key           string         `json:"key"`
	IsRequired    bool           `json:"isrequired"`
	IsMultiple    bool           `json:"ismultiple"`
	ComponentType *ComponentType `json:"componentType,omitempty"`
	DropdownID    *int64         `json:"dropdown_id,omitempty"`
	MetadataGroup *MetadataGroup `json:"metadataGroup,omitempty"`
}

type DropdownOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Dropdown struct {
	ID      int64            `json:"dropdown_id"`
	Name    string           `json:"name"`
	Code    string           `json:"code"`
	Options []DropdownOption `json:"options"`
}

type ValueEntry struct {
	FieldID int64  `json:"metadata_registry_id"`
	Value   string `json:"value"`
}

type SubmitRequest struct {
	Items    []ValueEntry `json:"items"`
	FileName string       `json:"file_name,omitempty"`
	ItemID   *int64       `json:"item_id,omitempty"`
	BatchID  *int64       `json:"batch_id,omitempty"`
}

type SubmitResponse struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

type FieldValue struct {
	ItemID  int64  `json:"item_id"`
	FieldID int64  `json:"metadata_registry_id"`
	Value   string `json:"value"`
}

type Item struct {
	ID        int64             `json:"item_id"`
	Name      string            `json:"name"`
	BatchID   int64             `json:"batch_id,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
	Metadata  map[string]string `json:"metadata"`
}

type Batch struct {
	ID           int64      `json:"batch_id"`
	Current      bool       `json:"is_current"`
	Committed    bool       `json:"is_committed"`
	DeliveryDate string     `json:"batch_delivery_date,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CommittedAt  *time.Time `json:"committedAt,omitempty"`
}

type BatchItems struct {
	Batch *Batch `json:"batch"`
	Items []Item `json:"items"`
}

type CommitRequest struct {
	DeliveryDate string `json:"batch_delivery_date"`
	BatchID      *int64 `json:"batch_id,omitempty"`
}

// ErrorResponse is the body of a non-2xx backend response
type ErrorResponse struct {
	Error string `json:"error"`
}

const storageLayout = "2006-01-02"

func FromFieldDefinition(d config.FieldDefinition) FieldDefinition {
	w := FieldDefinition{
		ID:         int64(d.ID),
		Title:      d.Title,
		Key:        d.Key.String(),
		IsRequired: d.Required,
		IsMultiple: d.Multiple,
	}
	if d.ComponentType != nil {
		ct := FromComponentType(*d.ComponentType)
		w.ComponentType = &ct
	}
	if d.DropdownID != nil {
		id := int64(*d.DropdownID)
		w.DropdownID = &id
	}
	if d.Group != nil {
		g := FromMetadataGroup(*d.Group)
		w.MetadataGroup = &g
	}
	return w
}

func (w FieldDefinition) ToModel() config.FieldDefinition {
	d := config.FieldDefinition{
		ID:       types.FieldID(w.ID),
		Key:      types.MetadataKey(w.Key),
		Title:    w.Title,
		Required: w.IsRequired,
		Multiple: w.IsMultiple,
	}
	if w.ComponentType != nil {
		ct := w.ComponentType.ToModel()
		d.ComponentType = &ct
	}
	if w.DropdownID != nil {
		id := types.DropdownID(*w.DropdownID)
		d.DropdownID = &id
	}
	if w.MetadataGroup != nil {
		g := w.MetadataGroup.ToModel()
		d.Group = &g
	}
	return d
}

func FromComponentType(c config.ComponentType) ComponentType {
	return ComponentType{ID: int64(c.ID), Name: c.Name}
}

func (w ComponentType) ToModel() config.ComponentType {
	return config.ComponentType{ID: types.ComponentTypeID(w.ID), Name: w.Name}
}

func FromMetadataGroup(g config.MetadataGroup) MetadataGroup {
	return MetadataGroup{ID: int64(g.ID), Name: g.Name, Status: string(g.Status)}
}

func (w MetadataGroup) ToModel() config.MetadataGroup {
	return config.MetadataGroup{ID: types.GroupID(w.ID), Name: w.Name, Status: types.Status(w.Status)}
}

func FromDropdown(d config.Dropdown) Dropdown {
	w := Dropdown{ID: int64(d.ID), Name: d.Name, Code: d.Code, Options: make([]DropdownOption, 0, len(d.Options))}
	for _, o := range d.Options {
		w.Options = append(w.Options, DropdownOption{Label: o.Label, Value: o.Value})
	}
	return w
}

func (w Dropdown) ToModel() config.Dropdown {
	d := config.Dropdown{ID: types.DropdownID(w.ID), Name: w.Name, Code: w.Code}
	for _, o := range w.Options {
		d.Options = append(d.Options, config.DropdownOption{Label: o.Label, Value: o.Value})
	}
	return d
}

func FromSubmission(sub *model.Submission) SubmitRequest {
	req := SubmitRequest{
		Items:    make([]ValueEntry, 0, len(sub.Items)),
		FileName: sub.FileName,
	}
	for _, e := range sub.Items {
		req.Items = append(req.Items, ValueEntry{FieldID: int64(e.FieldID), Value: e.Value})
	}
	if sub.ItemID != nil {
		id := int64(*sub.ItemID)
		req.ItemID = &id
	}
	if !sub.Batch.IsCurrent() {
		id := int64(sub.Batch.ID)
		req.BatchID = &id
	}
	return req
}

func (w SubmitRequest) ToModel() *model.Submission {
	sub := &model.Submission{
		Items:    make([]model.SubmissionEntry, 0, len(w.Items)),
		FileName: w.FileName,
	}
	for _, e := range w.Items {
		sub.Items = append(sub.Items, model.SubmissionEntry{FieldID: types.FieldID(e.FieldID), Value: e.Value})
	}
	if w.ItemID != nil {
		id := types.ItemID(*w.ItemID)
		sub.ItemID = &id
	}
	if w.BatchID != nil {
		sub.Batch = model.BatchRefOf(types.BatchID(*w.BatchID))
	}
	return sub
}

func FromFieldValue(v model.FieldValue) FieldValue {
	return FieldValue{ItemID: int64(v.ItemID), FieldID: int64(v.FieldID), Value: v.Value}
}

func (w FieldValue) ToModel() model.FieldValue {
	return model.FieldValue{ItemID: types.ItemID(w.ItemID), FieldID: types.FieldID(w.FieldID), Value: w.Value}
}

func FromItem(item *model.Item) Item {
	return Item{
		ID:        int64(item.ID),
		Name:      item.Name,
		BatchID:   int64(item.BatchID),
		CreatedAt: item.CreatedAt,
		Metadata:  item.Metadata,
	}
}

func (w Item) ToModel() *model.Item {
	return &model.Item{
		ID:        types.ItemID(w.ID),
		Name:      w.Name,
		BatchID:   types.BatchID(w.BatchID),
		CreatedAt: w.CreatedAt,
		Metadata:  w.Metadata,
	}
}

func FromBatch(b *model.Batch) *Batch {
	if b == nil {
		return nil
	}
	w := &Batch{
		ID:          int64(b.ID),
		Current:     b.Current,
		Committed:   b.Committed,
		CreatedAt:   b.CreatedAt,
		CommittedAt: b.CommittedAt,
	}
	if b.DeliveryDate != nil {
		w.DeliveryDate = b.DeliveryDate.Format(storageLayout)
	}
	return w
}

// ToModel converts the batch. An unparsable delivery date is dropped.
func (w *Batch) ToModel() *model.Batch {
	if w == nil {
		return nil
	}
	b := &model.Batch{
		ID:          types.BatchID(w.ID),
		Current:     w.Current,
		Committed:   w.Committed,
		CreatedAt:   w.CreatedAt,
		CommittedAt: w.CommittedAt,
	}
	if t, err := time.Parse(storageLayout, w.DeliveryDate); err == nil {
		b.DeliveryDate = &t
	}
	return b
}

func FromBatchItems(bi *model.BatchItems) BatchItems {
	w := BatchItems{Batch: FromBatch(bi.Batch), Items: make([]Item, 0, len(bi.Items))}
	for _, item := range bi.Items {
		w.Items = append(w.Items, FromItem(item))
	}
	return w
}

func (w BatchItems) ToModel() *model.BatchItems {
	bi := &model.BatchItems{Batch: w.Batch.ToModel(), Items: make([]*model.Item, 0, len(w.Items))}
	for _, item := range w.Items {
		bi.Items = append(bi.Items, item.ToModel())
	}
	return bi
}

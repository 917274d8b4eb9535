package usecase

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/dmsconsole/metaform/pkg/domain/interfaces"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/model/form"
	"github.com/dmsconsole/metaform/pkg/domain/model/table"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/utils/errutil"
	"github.com/dmsconsole/metaform/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Notification messages shown by the console
const (
	MsgLoadFieldsFailed         = "Something went wrong while loading metadata list"
	MsgLoadComponentTypesFailed = "Something went wrong while loading component types"
	MsgLoadGroupsFailed         = "Something went wrong while loading metadata groups"
	MsgLoadDropdownsFailed      = "Something went wrong while loading Dropdown list"
	MsgLoadItemsFailed          = "Something went wrong while loading items"
	MsgLoadValuesFailed         = "Something went wrong while loading metadata values"
	MsgRequiredFields           = "Please fill all required fields"
	MsgSubmitted                = "Metadata submitted successfully"
	MsgUpdated                  = "Metadata updated successfully"
	MsgSubmitFailed             = "Failed to submit metadata"
	MsgSubmitPending            = "A submission is already in progress"
	MsgDeleted                  = "Item deleted successfully"
	MsgDeleteFailed             = "Failed to delete item"
	MsgDeliveryDateRequired     = "Please select a delivery date"
	MsgCommitted                = "Batch committed successfully"
	MsgCommitFailed             = "Failed to commit batch"
)

// EditState is the edit lifecycle of the console form
type EditState int

const (
	EditIdle EditState = iota
	EditLoading
	EditEditing
)

func (s EditState) String() string {
	switch s {
	case EditIdle:
		return "idle"
	case EditLoading:
		return "loading"
	case EditEditing:
		return "editing"
	}
	return "unknown"
}

// Confirmer asks the user to confirm a destructive action
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(ctx context.Context, prompt string) bool

// Confirm implements Confirmer
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}

// AlwaysConfirm accepts every prompt. Callers that already asked the user
// (e.g. a --yes flag) pass it to Delete.
var AlwaysConfirm Confirmer = ConfirmFunc(func(ctx context.Context, prompt string) bool {
	return true
})

// TableView is what a generic table renderer needs
type TableView struct {
	Columns []table.Column
	Rows    []table.Row
	Actions []table.Action
}

// FileCreationUseCase drives the metadata form, the item table and batch
// commit against a DMS backend. It is safe for concurrent use; no lock is
// held across backend calls.
type FileCreationUseCase struct {
	backend          interfaces.Backend
	notifier         interfaces.Notifier
	tableKeys        []string
	fileNameTemplate []string
	batch            model.BatchRef

	mu             sync.Mutex
	schema         *config.FieldSchema
	componentTypes []config.ComponentType
	groups         []config.MetadataGroup
	choices        []config.DropdownChoice
	form           *form.Form
	columns        []table.Column
	items          *model.BatchItems
	rows           []table.Row
	state          EditState
	editing        *types.ItemID
	submitting     bool
	deliveryDate   string
}

// FileCreationOption configures FileCreationUseCase
type FileCreationOption func(*FileCreationUseCase)

// WithTableKeys sets the metadata keys shown as table columns
func WithTableKeys(keys []string) FileCreationOption {
	return func(uc *FileCreationUseCase) {
		uc.tableKeys = slices.Clone(keys)
	}
}

// WithFileNameTemplate sets the metadata keys joined into new item names
func WithFileNameTemplate(keys []string) FileCreationOption {
	return func(uc *FileCreationUseCase) {
		uc.fileNameTemplate = slices.Clone(keys)
	}
}

// WithBatch selects the batch items are listed from and created in
func WithBatch(ref model.BatchRef) FileCreationOption {
	return func(uc *FileCreationUseCase) {
		uc.batch = ref
	}
}

func NewFileCreationUseCase(backend interfaces.Backend, notifier interfaces.Notifier, opts ...FileCreationOption) *FileCreationUseCase {
	uc := &FileCreationUseCase{
		backend:  backend,
		notifier: notifier,
		batch:    model.CurrentBatch,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *FileCreationUseCase) notify(ctx context.Context, n model.Notification) {
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, n)
	}
}

// fail logs err and sends msg as an error notification
func (uc *FileCreationUseCase) fail(ctx context.Context, err error, msg string) {
	_ = errutil.Handle(ctx, err, msg)
	uc.notify(ctx, model.Failure(msg))
}

// Load fetches the schema, component types, groups and dropdowns
// concurrently, builds the form and lists the items. Each failed fetch
// sends its own notification; only a failed field fetch aborts.
func (uc *FileCreationUseCase) Load(ctx context.Context) error {
	var (
		fields         []config.FieldDefinition
		componentTypes []config.ComponentType
		groups         []config.MetadataGroup
		dropdowns      []config.Dropdown
		eg             errgroup.Group
	)

	eg.Go(func() error {
		v, err := uc.backend.Schema().ListFields(ctx)
		if err != nil {
			uc.fail(ctx, err, MsgLoadFieldsFailed)
			return goerr.Wrap(err, "failed to load fields")
		}
		fields = v
		return nil
	})
	eg.Go(func() error {
		v, err := uc.backend.Schema().ListComponentTypes(ctx)
		if err != nil {
			uc.fail(ctx, err, MsgLoadComponentTypesFailed)
			return nil
		}
		componentTypes = v
		return nil
	})
	eg.Go(func() error {
		v, err := uc.backend.Schema().ListGroups(ctx)
		if err != nil {
			uc.fail(ctx, err, MsgLoadGroupsFailed)
			return nil
		}
		groups = v
		return nil
	})
	eg.Go(func() error {
		v, err := uc.backend.Dropdowns().ListDropdowns(ctx)
		if err != nil {
			uc.fail(ctx, err, MsgLoadDropdownsFailed)
			return nil
		}
		dropdowns = v
		return nil
	})

	if err := eg.Wait(); err != nil {
		return err
	}

	if err := uc.applySchema(ctx, fields, componentTypes, groups, dropdowns); err != nil {
		uc.fail(ctx, err, MsgLoadFieldsFailed)
		return err
	}

	return uc.Refresh(ctx)
}

func (uc *FileCreationUseCase) applySchema(ctx context.Context, fields []config.FieldDefinition, componentTypes []config.ComponentType, groups []config.MetadataGroup, dropdowns []config.Dropdown) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.form == nil {
		f, err := form.Build(fields)
		if err != nil {
			return goerr.Wrap(err, "failed to build form")
		}
		uc.form = f
	} else if err := uc.form.Rebuild(fields); err != nil {
		return goerr.Wrap(err, "failed to rebuild form")
	}

	uc.schema = config.NewFieldSchema(fields)
	uc.componentTypes = componentTypes
	uc.groups = groups
	uc.choices = config.NewDropdownChoices(dropdowns)

	columns, dropped := table.Columns(uc.schema, uc.tableKeys)
	if len(dropped) > 0 {
		logging.From(ctx).Warn("table keys have no field definition", "keys", dropped)
	}
	uc.columns = columns
	if uc.items != nil {
		uc.rows = table.Rows(uc.items.Items, uc.columnKeys())
	}

	return nil
}

func (uc *FileCreationUseCase) columnKeys() []string {
	keys := make([]string, 0, len(uc.columns))
	for _, c := range uc.columns {
		keys = append(keys, c.Key)
	}
	return keys
}

// Refresh lists the items of the configured batch and re-projects the
// table rows
func (uc *FileCreationUseCase) Refresh(ctx context.Context) error {
	items, err := uc.backend.Items().ListItems(ctx, uc.batch)
	if err != nil {
		uc.fail(ctx, err, MsgLoadItemsFailed)
		return goerr.Wrap(err, "failed to list items", goerr.V(BatchIDKey, uc.batch.String()))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.items = items
	uc.rows = table.Rows(items.Items, uc.columnKeys())
	return nil
}

// Form returns the live form. Callers must not use it concurrently with
// the mutating methods of the use case.
func (uc *FileCreationUseCase) Form() *form.Form {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.form
}

// Schema returns the loaded field schema
func (uc *FileCreationUseCase) Schema() *config.FieldSchema {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.schema
}

// ComponentTypes returns the loaded component types
func (uc *FileCreationUseCase) ComponentTypes() []config.ComponentType {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return slices.Clone(uc.componentTypes)
}

// Sections returns the field definitions grouped for presentation
func (uc *FileCreationUseCase) Sections() []config.Section {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.schema.Sections()
}

// Choices returns the dropdown options of a dropdown-typed field
func (uc *FileCreationUseCase) Choices(fieldID types.FieldID) []config.DropdownOption {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	def, ok := uc.schema.ByID(fieldID)
	if !ok {
		return nil
	}
	return slices.Clone(config.OptionsFor(uc.choices, def))
}

// Table returns columns, rows and row actions of the current listing
func (uc *FileCreationUseCase) Table() TableView {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return TableView{
		Columns: slices.Clone(uc.columns),
		Rows:    slices.Clone(uc.rows),
		Actions: table.DefaultActions(),
	}
}

// Batch returns the batch of the last listing, nil before the first one
func (uc *FileCreationUseCase) Batch() *model.Batch {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.items == nil || uc.items.Batch == nil {
		return nil
	}
	b := *uc.items.Batch
	return &b
}

// Items returns the items of the last listing
func (uc *FileCreationUseCase) Items() []*model.Item {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.items == nil {
		return nil
	}
	return slices.Clone(uc.items.Items)
}

// State returns the edit lifecycle state and the item being edited
func (uc *FileCreationUseCase) State() (EditState, *types.ItemID) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.editing == nil {
		return uc.state, nil
	}
	id := *uc.editing
	return uc.state, &id
}

// Input writes raw user input into a slot. Date fields are formatted as
// DD-MM-YYYY while typing; other fields take raw as is.
func (uc *FileCreationUseCase) Input(ctx context.Context, fieldID types.FieldID, index int, raw string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.form == nil {
		return goerr.Wrap(ErrNotLoaded, "cannot input value")
	}

	def, ok := uc.schema.ByID(fieldID)
	if !ok {
		return goerr.Wrap(form.ErrUnknownField, "cannot input value", goerr.V(FieldIDKey, fieldID))
	}

	if def.IsDate() {
		_, err := uc.form.FormatDateInput(fieldID, index, raw)
		return err
	}
	return uc.form.SetValue(fieldID, index, &raw)
}

// AddValue appends an empty slot to a repeated field
func (uc *FileCreationUseCase) AddValue(fieldID types.FieldID) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.form == nil {
		return 0, goerr.Wrap(ErrNotLoaded, "cannot add value")
	}
	return uc.form.AddSlot(fieldID)
}

// RemoveValue removes a slot of a repeated field unless it is the last one
func (uc *FileCreationUseCase) RemoveValue(fieldID types.FieldID, index int) (bool, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.form == nil {
		return false, goerr.Wrap(ErrNotLoaded, "cannot remove value")
	}
	return uc.form.RemoveSlot(fieldID, index)
}

// Submit validates the form and creates or updates an item. An invalid
// form is rejected without a backend call. A second Submit while one is
// pending is rejected with ErrSubmitInProgress.
func (uc *FileCreationUseCase) Submit(ctx context.Context) (*model.SubmitResult, error) {
	uc.mu.Lock()
	if uc.form == nil {
		uc.mu.Unlock()
		return nil, goerr.Wrap(ErrNotLoaded, "cannot submit")
	}
	if uc.submitting {
		uc.mu.Unlock()
		uc.notify(ctx, model.Warning(MsgSubmitPending))
		return nil, goerr.Wrap(ErrSubmitInProgress, "cannot submit")
	}

	sub, err := uc.form.Assemble(uc.fileNameTemplate, uc.editing)
	if err != nil {
		uc.mu.Unlock()
		uc.notify(ctx, model.Failure(MsgRequiredFields))
		return nil, err
	}
	sub.Batch = uc.batch
	uc.submitting = true
	uc.mu.Unlock()

	result, err := uc.backend.Items().SubmitValues(ctx, sub)

	uc.mu.Lock()
	uc.submitting = false
	uc.state = EditIdle
	uc.editing = nil
	if err == nil {
		uc.form.Reset()
	}
	uc.mu.Unlock()

	if err != nil {
		uc.fail(ctx, err, MsgSubmitFailed)
		return nil, goerr.Wrap(err, "failed to submit metadata")
	}

	if sub.IsUpdate() {
		uc.notify(ctx, model.Success(MsgUpdated))
	} else {
		uc.notify(ctx, model.Success(MsgSubmitted))
	}

	// the listing is refreshed from the backend; a failure is already notified
	_ = uc.Refresh(ctx)

	return result, nil
}

// Edit loads the stored values of an item into the form
func (uc *FileCreationUseCase) Edit(ctx context.Context, itemID types.ItemID) error {
	uc.mu.Lock()
	if uc.form == nil {
		uc.mu.Unlock()
		return goerr.Wrap(ErrNotLoaded, "cannot edit")
	}
	uc.state = EditLoading
	uc.editing = nil
	uc.mu.Unlock()

	values, err := uc.backend.Items().ListFieldValues(ctx, itemID)

	if err != nil {
		uc.mu.Lock()
		uc.state = EditIdle
		uc.mu.Unlock()
		uc.fail(ctx, err, MsgLoadValuesFailed)
		return goerr.Wrap(err, "failed to load field values", goerr.V(ItemIDKey, itemID))
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.form.Populate(ctx, values)
	uc.editing = &itemID
	uc.state = EditEditing
	return nil
}

// Cancel leaves the edit and resets the form
func (uc *FileCreationUseCase) Cancel() {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.state = EditIdle
	uc.editing = nil
	if uc.form != nil {
		uc.form.Reset()
	}
}

// Delete removes an item after confirmation. It returns false when the
// user declined. A nil confirmer is rejected with ErrConfirmerRequired.
func (uc *FileCreationUseCase) Delete(ctx context.Context, itemID types.ItemID, confirmer Confirmer) (bool, error) {
	if confirmer == nil {
		return false, goerr.Wrap(ErrConfirmerRequired, "cannot delete item", goerr.V(ItemIDKey, itemID))
	}
	if !confirmer.Confirm(ctx, "Delete item "+itemID.String()+"?") {
		return false, nil
	}

	if err := uc.backend.Items().DeleteItem(ctx, itemID); err != nil {
		uc.fail(ctx, err, MsgDeleteFailed)
		return false, goerr.Wrap(err, "failed to delete item", goerr.V(ItemIDKey, itemID))
	}

	uc.mu.Lock()
	if uc.editing != nil && *uc.editing == itemID {
		uc.state = EditIdle
		uc.editing = nil
		uc.form.Reset()
	}
	uc.mu.Unlock()

	uc.notify(ctx, model.Success(MsgDeleted))
	_ = uc.Refresh(ctx)
	return true, nil
}

// SelectDeliveryDate formats raw like a date field. A complete valid date
// becomes the selected delivery date; a partial one clears the selection.
func (uc *FileCreationUseCase) SelectDeliveryDate(raw string) (string, error) {
	display, digits := form.FormatDateDigits(raw)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	uc.deliveryDate = ""
	if len(digits) < 8 {
		return display, nil
	}
	if !form.IsValidDateDigits(digits) {
		return display, goerr.Wrap(ErrInvalidDeliveryDate, "cannot select delivery date",
			goerr.V("delivery_date", display))
	}
	uc.deliveryDate = display
	return display, nil
}

// DeliveryDate returns the selected delivery date (DD-MM-YYYY) or ""
func (uc *FileCreationUseCase) DeliveryDate() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.deliveryDate
}

// CommitBatch closes the batch with the selected delivery date. Without a
// selected date it notifies once and returns ErrDeliveryDateRequired
// without a backend call.
func (uc *FileCreationUseCase) CommitBatch(ctx context.Context) (*model.Batch, error) {
	uc.mu.Lock()
	date := uc.deliveryDate
	uc.mu.Unlock()

	if date == "" {
		uc.notify(ctx, model.Failure(MsgDeliveryDateRequired))
		return nil, goerr.Wrap(ErrDeliveryDateRequired, "cannot commit batch")
	}

	storage, err := form.ConvertDate(date, types.DisplayDateLayout, types.StorageDateLayout)
	if err != nil {
		uc.notify(ctx, model.Failure(MsgDeliveryDateRequired))
		return nil, goerr.Wrap(ErrInvalidDeliveryDate, err.Error())
	}

	batch, err := uc.backend.Batches().CommitBatch(ctx, uc.batch, storage)
	if err != nil {
		uc.fail(ctx, err, MsgCommitFailed)
		return nil, goerr.Wrap(err, "failed to commit batch")
	}

	uc.mu.Lock()
	if uc.deliveryDate == date {
		uc.deliveryDate = ""
	}
	uc.mu.Unlock()

	uc.notify(ctx, model.Success(MsgCommitted))
	_ = uc.Refresh(ctx)

	return batch, nil
}

// IsValidationError reports whether err is a local validation failure
// that never reached the backend
func IsValidationError(err error) bool {
	return errors.Is(err, form.ErrRequiredFieldsMissing) ||
		errors.Is(err, ErrDeliveryDateRequired) ||
		errors.Is(err, ErrInvalidDeliveryDate)
}

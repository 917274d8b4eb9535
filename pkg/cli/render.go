package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/model/form"
	"github.com/dmsconsole/metaform/pkg/domain/model/table"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/fatih/color"
)

var (
	headerColor = color.New(color.Bold, color.Underline)
	titleColor  = color.New(color.FgCyan, color.Bold)
	mutedColor  = color.New(color.FgHiBlack)
	markColor   = color.New(color.FgRed)
)

const createdLayout = "02-01-2006 15:04"

func renderBatch(w io.Writer, b *model.Batch) {
	if b == nil {
		return
	}
	state := "open"
	switch {
	case b.Committed && b.DeliveryDate != nil:
		state = "committed, delivery " + b.DeliveryDate.Format("02-01-2006")
	case b.Committed:
		state = "committed"
	case b.Current:
		state = "current"
	}
	_, _ = fmt.Fprintf(w, "%s %s\n", titleColor.Sprintf("Batch %d", b.ID), mutedColor.Sprintf("(%s)", state))
}

// renderTable prints the item listing. Date columns are shown DD-MM-YYYY.
func renderTable(w io.Writer, view usecase.TableView) {
	if len(view.Rows) == 0 {
		_, _ = fmt.Fprintln(w, mutedColor.Sprint("No items"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := []string{"ID", "NAME"}
	for _, c := range view.Columns {
		header = append(header, c.Label)
	}
	header = append(header, "CREATED")
	_, _ = fmt.Fprintln(tw, headerColor.Sprint(strings.Join(header, "\t")))

	for _, row := range view.Rows {
		cells := []string{row.ItemID.String(), row.Name}
		for _, c := range view.Columns {
			cells = append(cells, cellText(c, row.Value(c.Key)))
		}
		created := ""
		if !row.CreatedAt.IsZero() {
			created = row.CreatedAt.Local().Format(createdLayout)
		}
		cells = append(cells, created)
		_, _ = fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	_ = tw.Flush()
}

func cellText(c table.Column, v string) string {
	if c.Type != table.ColumnDate || v == types.NotAvailable {
		return v
	}
	if display, err := form.ConvertDate(v, types.StorageDateLayout, types.DisplayDateLayout); err == nil {
		return display
	}
	return v
}

// renderSchema prints the sections of the form with their fields and
// dropdown options
func renderSchema(w io.Writer, uc *usecase.FileCreationUseCase) {
	for _, section := range uc.Sections() {
		name := "Other"
		if section.Group != nil {
			name = section.Group.Name
		}
		_, _ = fmt.Fprintln(w, titleColor.Sprint(name))

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, def := range section.Fields {
			_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				def.Key, def.Title+requiredMark(def), componentLabel(def), mutedColor.Sprintf("#%d", def.ID))
			for _, o := range uc.Choices(def.ID) {
				_, _ = fmt.Fprintf(tw, "  \t  %s\t%s\t\n", mutedColor.Sprint("- "+o.Label), o.Value)
			}
		}
		_ = tw.Flush()
	}
}

func requiredMark(def config.FieldDefinition) string {
	if def.Required {
		return markColor.Sprint(" *")
	}
	return ""
}

func componentLabel(def config.FieldDefinition) string {
	label := def.ComponentName()
	if label == "" {
		label = types.ComponentText
	}
	if def.Multiple {
		label += " (multiple)"
	}
	return label
}

// renderForm prints the live values of every field that has one
func renderForm(w io.Writer, f *form.Form) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, field := range f.Fields() {
		var values []string
		for _, s := range field.Live() {
			if !s.IsEmpty() {
				values = append(values, s.Text())
			}
		}
		if len(values) == 0 {
			continue
		}
		def := field.Definition()
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", def.Key, strings.Join(values, ", "))
	}
	_ = tw.Flush()
}

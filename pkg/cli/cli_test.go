package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmsconsole/metaform/pkg/cli"
	cliconfig "github.com/dmsconsole/metaform/pkg/cli/config"
	httpctrl "github.com/dmsconsole/metaform/pkg/controller/http"
	"github.com/dmsconsole/metaform/pkg/domain/model"
	"github.com/dmsconsole/metaform/pkg/domain/model/config"
	"github.com/dmsconsole/metaform/pkg/domain/types"
	"github.com/dmsconsole/metaform/pkg/repository/memory"
	"github.com/dmsconsole/metaform/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/gt"
)

func init() {
	color.NoColor = true
}

func testCatalog() *config.Catalog {
	dropdownType := &config.ComponentType{ID: 3, Name: "dropdown"}
	dateType := &config.ComponentType{ID: 2, Name: "date"}
	courts := types.DropdownID(10)

	return &config.Catalog{
		Schema: config.NewFieldSchema([]config.FieldDefinition{
			{ID: 1, Key: "dc.caseTitle", Title: "Case Title", Required: true},
			{ID: 2, Key: "dc.caseYear", Title: "Case Year", Required: true},
			{ID: 5, Key: "dc.hearingDate", Title: "Hearing Date", ComponentType: dateType},
			{ID: 7, Key: "dc.party", Title: "Party", Multiple: true},
			{ID: 9, Key: "dc.court", Title: "Court", ComponentType: dropdownType, DropdownID: &courts},
		}),
		ComponentTypes: []config.ComponentType{{ID: 1, Name: "text"}, *dateType, *dropdownType},
		Dropdowns: []config.Dropdown{
			{ID: courts, Name: "Courts", Options: []config.DropdownOption{
				{Label: "High Court", Value: "HC"},
				{Label: "Supreme Court", Value: "SC"},
			}},
		},
	}
}

type harness struct {
	t       *testing.T
	url     string
	catalog *usecase.CatalogUseCase
}

func setup(t *testing.T) *harness {
	t.Helper()
	catalog := usecase.NewCatalogUseCase(memory.New(), testCatalog(), nil)
	srv, err := httpctrl.New(catalog, httpctrl.WithBatchLister(catalog))
	gt.NoError(t, err).Required()

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return &harness{t: t, url: ts.URL, catalog: catalog}
}

// run executes the app with stdin and returns stdout and stderr
func (h *harness) run(stdin string, args ...string) (string, string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	app := cli.NewAppForTest(&stdout, &stderr, strings.NewReader(stdin))

	argv := append([]string{"metaform", "--log-level", "error"}, args...)
	err := app.Run(context.Background(), argv)
	return stdout.String(), stderr.String(), err
}

// console inserts the backend flag after the command and subcommand
func (h *harness) console(args ...string) []string {
	out := append([]string{}, args[:2]...)
	out = append(out, "--backend-url", h.url)
	return append(out, args[2:]...)
}

func (h *harness) items() []*model.Item {
	h.t.Helper()
	items, err := h.catalog.ListItems(context.Background(), model.CurrentBatch)
	gt.NoError(h.t, err).Required()
	return items.Items
}

func (h *harness) values(id types.ItemID) map[types.FieldID][]string {
	h.t.Helper()
	values, err := h.catalog.ListFieldValues(context.Background(), id)
	gt.NoError(h.t, err).Required()
	result := make(map[types.FieldID][]string)
	for _, v := range values {
		result[v.FieldID] = append(result[v.FieldID], v.Value)
	}
	return result
}

func TestParseAssignments(t *testing.T) {
	keys, values, err := cli.ParseAssignmentsForTest([]string{
		"dc.party=A",
		"dc.caseTitle=x=y",
		"dc.party=B",
		"dc.note=",
	})
	gt.NoError(t, err).Required()
	gt.A(t, keys).Length(3)
	gt.Value(t, keys[0]).Equal("dc.party")
	gt.Value(t, values["dc.party"]).Equal([]string{"A", "B"})
	gt.Value(t, values["dc.caseTitle"]).Equal([]string{"x=y"})
	gt.Value(t, values["dc.note"]).Equal([]string{""})

	_, _, err = cli.ParseAssignmentsForTest([]string{"no-separator"})
	gt.Error(t, err).Is(cli.ErrInvalidAssignment)

	_, _, err = cli.ParseAssignmentsForTest([]string{"=value"})
	gt.Error(t, err).Is(cli.ErrInvalidAssignment)
}

func TestFile_CreateAndList(t *testing.T) {
	h := setup(t)

	stdout, stderr, err := h.run("", h.console("file", "create",
		"--set", "dc.caseTitle=Smith v Jones",
		"--set", "dc.caseYear=2024",
		"--set", "dc.hearingDate=05032024",
		"--set", "dc.party=Alice, Ltd",
		"--set", "dc.party=Bob",
		"--set", "dc.court=high court",
	)...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Created item 1 (Smith v Jones_2024)")
	gt.String(t, stderr).Contains(usecase.MsgSubmitted)

	items := h.items()
	gt.A(t, items).Length(1)
	values := h.values(items[0].ID)
	gt.Value(t, values[5]).Equal([]string{"05-03-2024"})
	gt.Value(t, values[7]).Equal([]string{"Alice, Ltd", "Bob"})
	gt.Value(t, values[9]).Equal([]string{"HC"})

	stdout, _, err = h.run("", h.console("file", "list",
		"--table-key", "dc.caseTitle",
		"--table-key", "dc.hearingDate",
		"--table-key", "dc.court",
	)...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Batch 1 (current)")
	gt.String(t, stdout).Contains("Hearing Date")
	gt.String(t, stdout).Contains("Smith v Jones")
	gt.String(t, stdout).Contains("05-03-2024")
	gt.String(t, stdout).Contains("HC")
}

func TestFile_CreateRejected(t *testing.T) {
	h := setup(t)

	testCases := []struct {
		name string
		sets []string
		err  error
	}{
		{
			name: "unknown key",
			sets: []string{"dc.caseTitle=A", "dc.caseYear=2024", "dc.unknown=x"},
			err:  cli.ErrUnknownKey,
		},
		{
			name: "repeated single-valued key",
			sets: []string{"dc.caseTitle=A", "dc.caseTitle=B", "dc.caseYear=2024"},
			err:  cli.ErrSingleValued,
		},
		{
			name: "invalid dropdown option",
			sets: []string{"dc.caseTitle=A", "dc.caseYear=2024", "dc.court=Tribunal"},
			err:  cli.ErrInvalidOption,
		},
		{
			name: "invalid date",
			sets: []string{"dc.caseTitle=A", "dc.caseYear=2024", "dc.hearingDate=31-02-2024"},
			err:  cli.ErrInvalidDate,
		},
		{
			name: "partial date",
			sets: []string{"dc.caseTitle=A", "dc.caseYear=2024", "dc.hearingDate=0503"},
			err:  cli.ErrInvalidDate,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := []string{"file", "create"}
			for _, s := range tc.sets {
				args = append(args, "--set", s)
			}
			_, _, err := h.run("", h.console(args...)...)
			gt.Error(t, err).Is(tc.err)
		})
	}

	t.Run("missing required field", func(t *testing.T) {
		_, stderr, err := h.run("", h.console("file", "create", "--set", "dc.caseTitle=A")...)
		gt.Value(t, err).NotNil()
		gt.String(t, stderr).Contains(usecase.MsgRequiredFields)
	})

	gt.A(t, h.items()).Length(0)
}

func TestFile_Edit(t *testing.T) {
	h := setup(t)

	_, _, err := h.run("", h.console("file", "create",
		"--set", "dc.caseTitle=Smith v Jones",
		"--set", "dc.caseYear=2024",
		"--set", "dc.party=Alice",
		"--set", "dc.party=Bob",
		"--set", "dc.party=Carol",
	)...)
	gt.NoError(t, err).Required()

	stdout, _, err := h.run("", h.console("file", "edit",
		"--set", "dc.caseYear=2025",
		"--set", "dc.party=Dave",
		"1",
	)...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Updated item 1")

	values := h.values(1)
	gt.Value(t, values[1]).Equal([]string{"Smith v Jones"})
	gt.Value(t, values[2]).Equal([]string{"2025"})
	gt.Value(t, values[7]).Equal([]string{"Dave"})

	stdout, _, err = h.run("", h.console("file", "show", "1")...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("dc.caseYear")
	gt.String(t, stdout).Contains("2025")
	gt.String(t, stdout).Contains("Dave")

	t.Run("nothing to change", func(t *testing.T) {
		_, _, err := h.run("", h.console("file", "edit", "1")...)
		gt.Error(t, err).Is(cli.ErrNothingToChange)
	})

	t.Run("missing item id", func(t *testing.T) {
		_, _, err := h.run("", h.console("file", "edit", "--set", "dc.caseYear=2026")...)
		gt.Error(t, err).Is(cli.ErrMissingItemID)
	})

	t.Run("unknown item", func(t *testing.T) {
		_, _, err := h.run("", h.console("file", "edit", "--set", "dc.caseYear=2026", "99")...)
		gt.Value(t, err).NotNil()
	})
}

func TestFile_Delete(t *testing.T) {
	h := setup(t)

	_, _, err := h.run("", h.console("file", "create",
		"--set", "dc.caseTitle=Smith v Jones",
		"--set", "dc.caseYear=2024",
	)...)
	gt.NoError(t, err).Required()

	stdout, _, err := h.run("n\n", h.console("file", "delete", "1")...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Delete item 1? [y/N]")
	gt.String(t, stdout).Contains("Canceled")
	gt.A(t, h.items()).Length(1)

	_, stderr, err := h.run("y\n", h.console("file", "delete", "1")...)
	gt.NoError(t, err).Required()
	gt.String(t, stderr).Contains(usecase.MsgDeleted)
	gt.A(t, h.items()).Length(0)

	_, _, err = h.run("", h.console("file", "delete", "--yes", "1")...)
	gt.Value(t, err).NotNil()
}

func TestFile_Schema(t *testing.T) {
	h := setup(t)

	stdout, _, err := h.run("", h.console("file", "schema")...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("dc.caseTitle")
	gt.String(t, stdout).Contains("Case Title *")
	gt.String(t, stdout).Contains("text (multiple)")
	gt.String(t, stdout).Contains("- High Court")
}

func TestBatch_Commit(t *testing.T) {
	h := setup(t)

	_, _, err := h.run("", h.console("file", "create",
		"--set", "dc.caseTitle=Smith v Jones",
		"--set", "dc.caseYear=2024",
	)...)
	gt.NoError(t, err).Required()

	t.Run("delivery date is required", func(t *testing.T) {
		_, stderr, err := h.run("", h.console("batch", "commit")...)
		gt.Error(t, err).Is(usecase.ErrDeliveryDateRequired)
		gt.String(t, stderr).Contains(usecase.MsgDeliveryDateRequired)
	})

	t.Run("invalid delivery date", func(t *testing.T) {
		_, _, err := h.run("", h.console("batch", "commit", "--delivery-date", "30-02-2024")...)
		gt.Error(t, err).Is(usecase.ErrInvalidDeliveryDate)
	})

	stdout, _, err := h.run("", h.console("batch", "commit", "--delivery-date", "15-03-2024")...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Batch 1 (committed, delivery 15-03-2024)")

	// the next batch starts empty
	gt.A(t, h.items()).Length(0)

	stdout, _, err = h.run("", h.console("file", "list", "--batch-id", "1", "--table-key", "dc.caseTitle")...)
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("Smith v Jones")
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

const schemaTOML = `
[[component_type]]
id = 1
name = "text"

[[field]]
id = 1
key = "dc.caseTitle"
title = "Case Title"
required = true
component_type = 1

[[field]]
id = 2
key = "dc.caseYear"
title = "Case Year"
component_type = 1
`

func TestValidate(t *testing.T) {
	h := setup(t)
	schema := writeFile(t, "schema.toml", schemaTOML)

	stdout, _, err := h.run("", "validate", "--schema", schema, "--table-key", "dc.caseTitle")
	gt.NoError(t, err).Required()
	gt.String(t, stdout).Contains("OK: 2 fields")

	_, _, err = h.run("", "validate", "--schema", schema, "--table-key", "dc.unknown")
	gt.Error(t, err).Is(cliconfig.ErrUnknownTableKey)

	_, _, err = h.run("", "validate")
	gt.Value(t, err).NotNil()
}

func TestToken(t *testing.T) {
	h := setup(t)

	stdout, _, err := h.run("", "token",
		"--subject", "alice",
		"--name", "Alice",
		"--auth-signing-secret", "test-secret",
		"--ttl", "1h",
	)
	gt.NoError(t, err).Required()

	verifier, err := usecase.NewAuthUseCase([]byte("test-secret"), usecase.WithIssuer("metaform"))
	gt.NoError(t, err).Required()
	p, err := verifier.Verify(context.Background(), strings.TrimSpace(stdout))
	gt.NoError(t, err).Required()
	gt.Value(t, p.Subject).Equal("alice")

	_, _, err = h.run("", "token", "--subject", "alice")
	gt.Value(t, err).NotNil()
}

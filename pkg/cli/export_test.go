package cli

import (
	"io"

	"github.com/urfave/cli/v3"
)

func NewAppForTest(w, errW io.Writer, r io.Reader) *cli.Command {
	return newApp("test", w, errW, r)
}

// ParseAssignmentsForTest returns the parsed --set values as key to values
func ParseAssignmentsForTest(raw []string) ([]string, map[string][]string, error) {
	parsed, err := parseAssignments(raw)
	if err != nil {
		return nil, nil, err
	}
	var keys []string
	values := make(map[string][]string, len(parsed))
	for _, a := range parsed {
		keys = append(keys, a.key.String())
		values[a.key.String()] = a.values
	}
	return keys, values, nil
}

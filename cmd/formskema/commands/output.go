package commands

import (
	"fmt"
	"io"
	"slices"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	j "github.com/goccy/go-json"

	"github.com/reoring/formskema"
	"github.com/reoring/formskema/internal/logging"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func writeJSON(w io.Writer, v any) error {
	b, err := j.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// palette returns colors that are disabled unless w is a color terminal.
func palette(w io.Writer) (ok, bad, path *color.Color) {
	ok = color.New(color.FgGreen, color.Bold)
	bad = color.New(color.FgRed)
	path = color.New(color.FgCyan)
	if !logging.ColorEnabled(w) {
		for _, c := range []*color.Color{ok, bad, path} {
			c.DisableColor()
		}
	} else {
		for _, c := range []*color.Color{ok, bad, path} {
			c.EnableColor()
		}
	}
	return ok, bad, path
}

// writeReport prints messages sorted by field path.
func writeReport(w io.Writer, r *formskema.Report) error {
	ok, bad, path := palette(w)
	if r.Valid() {
		_, err := ok.Fprintln(w, "valid")
		return err
	}
	paths := make([]string, 0, len(r.Messages))
	for p := range r.Messages {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	for _, p := range paths {
		label := p
		if label == "" {
			label = "(root)"
		}
		for _, msg := range r.Messages[p] {
			if _, err := fmt.Fprintf(w, "%s: %s\n", path.Sprint(label), bad.Sprint(msg)); err != nil {
				return err
			}
		}
	}
	return nil
}

type validateOutput struct {
	Valid    bool                `json:"valid"`
	Messages map[string][]string `json:"messages,omitempty"`
	Issues   formskema.Issues    `json:"issues,omitempty"`
	Result   any                 `json:"result,omitempty"`
	Raw      any                 `json:"raw,omitempty"`
}

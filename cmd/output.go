package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"golang.org/x/term"
)

// printMarkdown renders md for the terminal, or prints it raw when stdout
// is not a terminal.
func printMarkdown(md string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Print(md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// output holds the flags shared by report commands.
type output struct {
	json bool
	path string
}

func (o *output) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&o.json, "json", false, "Print the report as JSON instead of markdown")
	f.StringVar(&o.path, "path", "", "JSONPath expression selecting a part of the JSON report (implies -json), e.g. '$.rows[0].profit'")
}

// print prints the report, either the markdown or the JSON view.
func (o *output) print(md string, view any) subcommands.ExitStatus {
	if !o.json && o.path == "" {
		printMarkdown(md)
		return subcommands.ExitSuccess
	}
	out, err := selectJSON(view, o.path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error querying report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}

// selectJSON encodes view, and applies the JSONPath expression path to it
// when not empty.
func selectJSON(view any, path string) ([]byte, error) {
	if path == "" {
		return json.MarshalIndent(view, "", "  ")
	}
	data, err := json.Marshal(view)
	if err != nil {
		return nil, err
	}
	var obj any
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	val, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return json.MarshalIndent(val, "", "  ")
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/goldesk/docs"
	"github.com/google/subcommands"
)

// --- Topic Command ---

type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the desk manual: quotes, pricing, stock, settlements" }
func (*topicCmd) Usage() string {
	topics, _ := docs.All()
	return `gds topic [-list] [<topic>...|*]

  Prints the desk manual. Without a topic, prints the overview with a summary
  of each topic. '*' prints the whole manual.

  Topics: ` + strings.Join(topics, ", ") + `
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print the topic names only, one per line")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		topics, err := docs.All()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing topics: %v\n", err)
			return subcommands.ExitFailure
		}
		for _, t := range topics {
			fmt.Println(t)
		}
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{docs.Readme}
	}
	manual, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v, see 'gds topic -list'\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(manual)
	return subcommands.ExitSuccess
}

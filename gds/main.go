// Command gds runs a gold desk from the command line.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/etnz/goldesk/cmd"
	"github.com/etnz/goldesk/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Exits when invoked by the shell for completion.
	completion(commander).Complete(commander.Name())

	flag.Parse()
	if err := cmd.Setup(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// flagValues predicts the values of flags sharing a name across commands.
var flagValues = map[string]complete.Predictor{
	"method": predict.Set{"cash", "transfer", "card"},
	"pay":    predict.Set{"cash", "transfer", "card"},
	"flow":   predict.Set{"in", "out"},
	"dir":    predict.Set{"buy", "sell"},
	"type":   predict.Set{"deposit", "withdraw"},
	"db":     predict.Set{"file", "sqlite", "postgres"},
	"home":   predict.Dirs("*"),
	"o":      predict.Files("*.xlsx"),
}

// completion returns the completion tree of the commander's commands.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
	})
	if topics, err := docs.All(); err == nil {
		root.Sub["topic"].Args = predict.Set(append(topics, "*"))
	}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	m := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch {
		case flagValues[f.Name] != nil:
			m[f.Name] = flagValues[f.Name]
		case isBool(f):
			m[f.Name] = predict.Nothing
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

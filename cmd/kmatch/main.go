package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

// main is the entry point; separated from run for testability, the way
// the teacher's poly/main.go splits run(args) out from main().
func main() {
	run(os.Args)
}

func run(args []string) {
	app := application()
	if err := app.Run(args); err != nil {
		log.Fatal(err)
	}
}

// application builds the kmatch CLI: a `match` command that streams
// reads against a loaded FM-index/kLCP pair, and an `index` command that
// builds the kLCP bitvector for a fixed k.
func application() *cli.App {
	return &cli.App{
		Name:  "kmatch",
		Usage: "a streaming k-mer matcher over an FM-index reference collection",
		Commands: []*cli.Command{
			matchCommand(),
			indexCommand(),
		},
	}
}

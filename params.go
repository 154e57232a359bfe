package main

import (
	"flag"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/qportal/e2e-tests/config"
	"github.com/qportal/e2e-tests/framework"

	"github.com/alessio/shellescape"
)

const defaultAppTimeout = time.Second * 30

type commandParams struct {
	configPath  string
	filters     framework.RegexFilters
	debug       bool
	debugAll    bool
	headless    bool
	headlessSet bool
	appTimeout  time.Duration
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.configPath, "config", config.DefaultPath, "path of the JSON configuration file")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all tests")
	fs.BoolVar(&c.headless, "headless", false, "run the browser without a window (overrides "+config.KeyHeadless+")")
	fs.DurationVar(&c.appTimeout, "app-timeout", defaultAppTimeout, "how long to wait for the application to respond")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "headless" {
			c.headlessSet = true
		}
	})
	return true
}

// applyOverrides changes the loaded configuration according to any flags that take
// precedence over it.
func (c *commandParams) applyOverrides(cfg *config.Config) {
	if c.headlessSet {
		cfg.Headless = c.headless
	}
}

// rerunCommands returns one command line per failed top-level test that runs only that test
// again with the same configuration.
func (c *commandParams) rerunCommands(program string, results framework.Results) []string {
	var commands []string
	seen := make(map[string]bool)
	for _, f := range results.Failures {
		if len(f.TestID.Path) == 0 {
			continue
		}
		name := f.TestID.Path[0]
		if seen[name] {
			continue
		}
		seen[name] = true

		var cmd commandBuilder
		cmd.add(program)
		if c.configPath != config.DefaultPath {
			cmd.add("-config", c.configPath)
		}
		if c.headlessSet {
			cmd.add(fmt.Sprintf("-headless=%t", c.headless))
		}
		cmd.add("-run", "^"+regexp.QuoteMeta(name)+"(/|$)")
		commands = append(commands, cmd.String())
	}
	return commands
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./cinegraph.toml"

const (
	modeServe = "serve"
	modeTUI   = "tui"
	modeCheck = "check"
)

type cliOptions struct {
	configPath string
	mode       string
	transport  string
	seedPath   string
	logLevel   string
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("cinegraph", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.StringVar(&opts.mode, "mode", modeServe, "Run mode: serve, tui, or check")
	fs.StringVar(&opts.transport, "transport", "", "Override server transport (stdio, sse, http); serve mode only")
	fs.StringVar(&opts.seedPath, "seed", "", "Override seed dataset path")
	fs.StringVar(&opts.logLevel, "log-level", "", "Override log level (debug, info, warn, error)")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}

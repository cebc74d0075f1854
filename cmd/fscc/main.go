// Command fscc reads and writes the configuration registers of a Commtech
// FSCC port.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Station-Manager/fscc"
)

const (
	flagDevice   = "device"
	flagAccess   = "access"
	flagConfig   = "config"
	flagLogLevel = "log-level"
	flagLogFile  = "log-file"
	flagNoProbe  = "no-probe"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fscc",
		Usage: "inspect and configure FSCC serial communications ports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagDevice,
				Aliases: []string{"d"},
				Value:   "/dev/fscc0",
				Usage:   "device node to open",
				EnvVars: []string{"FSCC_DEVICE"},
			},
			&cli.StringFlag{
				Name:  flagAccess,
				Value: "write",
				Usage: "access mode (read, write, readwrite)",
			},
			&cli.StringFlag{
				Name:  flagConfig,
				Usage: "JSON config file; flags given explicitly override it",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Value: "warn",
				Usage: "log level (trace, debug, info, warn, error, disabled)",
			},
			&cli.StringFlag{
				Name:  flagLogFile,
				Usage: "also log to this file, rotated",
			},
			&cli.BoolFlag{
				Name:  flagNoProbe,
				Usage: "skip the register probe on open",
			},
		},
		Action: func(c *cli.Context) error {
			return withPort(c, printRegisters(fscc.CCR0, fscc.CCR1, fscc.CCR2))
		},
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "print the named registers",
				ArgsUsage: "REGISTER...",
				Action: func(c *cli.Context) error {
					regs, err := parseRegisters(c.Args().Slice())
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					if len(regs) == 0 {
						regs = []fscc.Register{fscc.CCR0, fscc.CCR1, fscc.CCR2}
					}
					return withPort(c, printRegisters(regs...))
				},
			},
			{
				Name:   "dump",
				Usage:  "print every register",
				Action: func(c *cli.Context) error { return withPort(c, printRegisters()) },
			},
			{
				Name:      "set",
				Usage:     "write registers, e.g. set CCR0=0x0011201c BGR=0",
				ArgsUsage: "REGISTER=VALUE...",
				Action: func(c *cli.Context) error {
					values, err := parseAssignments(c.Args().Slice())
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					return withPort(c, func(w io.Writer, p *fscc.Port) error {
						if err := p.Registers().Apply(values); err != nil {
							return err
						}
						fmt.Fprint(w, fscc.FormatRegisters(values))
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the card's device id and revisions",
				Action: func(c *cli.Context) error {
					return withPort(c, func(w io.Writer, p *fscc.Port) error {
						v, err := p.Registers().Version()
						if err != nil {
							return err
						}
						fmt.Fprintln(w, v)
						return nil
					})
				},
			},
			{
				Name:  "list",
				Usage: "list FSCC device nodes and tty ports",
				Action: func(c *cli.Context) error {
					return listPorts(c.App.Writer, c.App.ErrWriter)
				},
			},
		},
	}
}

// portAction runs against an open port; output goes to w.
type portAction func(w io.Writer, p *fscc.Port) error

// withPort opens the configured port, runs fn and closes the port. An open
// failure prints its message and stops before any other operation.
func withPort(c *cli.Context, fn portAction) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	logger, closer, err := fscc.NewLogger(cfg.Log)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}
	defer closer.Close()

	port, err := fscc.OpenConfig(*cfg, logger)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer port.Close()

	if err = fn(c.App.Writer, port); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	return port.Close()
}

func buildConfig(c *cli.Context) (*fscc.Config, error) {
	cfg := fscc.DefaultConfig(c.String(flagDevice))
	cfg.Log.Level = c.String(flagLogLevel)

	fromFile := c.String(flagConfig) != ""
	if fromFile {
		loaded, err := fscc.LoadConfig(c.String(flagConfig))
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	// a config file wins over flag defaults, explicit flags win over the file
	if !fromFile || c.IsSet(flagDevice) {
		cfg.Path = c.String(flagDevice)
	}
	if !fromFile || c.IsSet(flagAccess) {
		mode, err := fscc.ParseAccessMode(c.String(flagAccess))
		if err != nil {
			return nil, err
		}
		cfg.Access = mode
	}
	if c.IsSet(flagLogLevel) {
		cfg.Log.Level = c.String(flagLogLevel)
	}
	if c.IsSet(flagLogFile) {
		cfg.Log.File = c.String(flagLogFile)
	}
	if c.Bool(flagNoProbe) {
		cfg.SkipProbe = true
	}
	return &cfg, nil
}

func printRegisters(regs ...fscc.Register) portAction {
	return func(w io.Writer, p *fscc.Port) error {
		values, err := p.Registers().Snapshot(regs...)
		if err != nil {
			return err
		}
		if len(regs) == 0 {
			fmt.Fprint(w, fscc.FormatRegisters(values))
			return nil
		}
		// keep the order the user asked for
		for _, r := range regs {
			fmt.Fprintf(w, "%s = 0x%08x\n", r, values[r])
		}
		return nil
	}
}

func parseRegisters(names []string) ([]fscc.Register, error) {
	regs := make([]fscc.Register, 0, len(names))
	for _, name := range names {
		r, err := fscc.ParseRegister(name)
		if err != nil {
			return nil, err
		}
		regs = append(regs, r)
	}
	return regs, nil
}

func parseAssignments(args []string) (map[fscc.Register]uint32, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("nothing to set: expected REGISTER=VALUE arguments")
	}
	values := make(map[fscc.Register]uint32, len(args))
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed assignment %q, expected REGISTER=VALUE", arg)
		}
		r, err := fscc.ParseRegister(name)
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseUint(strings.TrimSpace(raw), 0, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %v", r, err)
		}
		values[r] = uint32(v)
	}
	return values, nil
}

func listPorts(w, errw io.Writer) error {
	ports, err := fscc.ListPorts()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	for _, p := range ports {
		fmt.Fprintln(w, p)
	}

	ttys, err := fscc.AvailableAsyncPorts()
	if err != nil {
		fmt.Fprintf(errw, "listing tty ports: %v\n", err)
		return nil
	}
	for _, t := range ttys {
		fmt.Fprintf(w, "%s (async)\n", t)
	}
	return nil
}

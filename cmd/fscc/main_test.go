package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/urfave/cli/v2"

	"github.com/Station-Manager/fscc"
)

func TestParseRegisters(t *testing.T) {
	c := qt.New(t)
	regs, err := parseRegisters([]string{"ccr0", "BGR", " vstr "})
	c.Assert(err, qt.IsNil)
	c.Assert(regs, qt.DeepEquals, []fscc.Register{fscc.CCR0, fscc.BGR, fscc.VSTR})

	_, err = parseRegisters([]string{"CCR0", "CCR9"})
	c.Assert(err, qt.ErrorIs, fscc.ErrUnknownRegister)
}

func TestParseAssignments(t *testing.T) {
	c := qt.New(t)
	values, err := parseAssignments([]string{"CCR0=0x0011201c", "bgr=10", "CCR2=0"})
	c.Assert(err, qt.IsNil)
	c.Assert(values, qt.DeepEquals, map[fscc.Register]uint32{
		fscc.CCR0: 0x0011201c,
		fscc.BGR:  10,
		fscc.CCR2: 0,
	})
}

func TestParseAssignmentsErrors(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		args []string
		want string
	}{
		{nil, "nothing to set: .*"},
		{[]string{"CCR0"}, `malformed assignment "CCR0", expected REGISTER=VALUE`},
		{[]string{"CCR0=zz"}, "invalid value for CCR0: .*"},
		{[]string{"CCR0=0x100000000"}, "invalid value for CCR0: .*"},
		{[]string{"NOPE=1"}, `fscc: unknown register: "NOPE"`},
	}
	for _, tt := range tests {
		_, err := parseAssignments(tt.args)
		c.Check(err, qt.ErrorMatches, tt.want, qt.Commentf("args %q", tt.args))
	}
}

// runApp runs the command line without exiting the process.
func runApp(c *qt.C, args ...string) (string, error) {
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"fscc", "--log-level", "disabled"}, args...))
	return out.String(), err
}

func exitCode(c *qt.C, err error) int {
	var ec cli.ExitCoder
	c.Assert(errors.As(err, &ec), qt.IsTrue, qt.Commentf("error %v", err))
	return ec.ExitCode()
}

func TestOpenFailureStopsWithExitOne(t *testing.T) {
	c := qt.New(t)
	missing := filepath.Join(c.TempDir(), "fscc7")

	out, err := runApp(c, "--device", missing)
	c.Assert(err, qt.ErrorMatches, "fscc: .*")
	c.Assert(exitCode(c, err), qt.Equals, 1)
	c.Assert(out, qt.Equals, "")
}

func TestConfigFileSuppliesDevice(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()
	missing := filepath.Join(dir, "fscc3")
	file := filepath.Join(dir, "fscc.json")
	c.Assert(os.WriteFile(file, []byte(`{"path": "`+missing+`", "access": "read"}`), 0o600), qt.IsNil)

	_, err := runApp(c, "--config", file, "dump")
	c.Assert(exitCode(c, err), qt.Equals, 1)
}

func TestUsageErrorsExitTwo(t *testing.T) {
	c := qt.New(t)

	_, err := runApp(c, "get", "CCR9")
	c.Assert(exitCode(c, err), qt.Equals, 2)

	_, err = runApp(c, "set", "CCR0")
	c.Assert(exitCode(c, err), qt.Equals, 2)

	_, err = runApp(c, "--access", "sideways")
	c.Assert(exitCode(c, err), qt.Equals, 2)
	c.Assert(err, qt.ErrorMatches, ".*invalid access mode.*")
}

//go:build linux

package fscc

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"unsafe"

	qt "github.com/frankban/quicktest"
	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

func TestIoctlNumbersMatchDriver(t *testing.T) {
	c := qt.New(t)
	c.Assert(uint32(ioctlGetRegisters), qt.Equals, uint32(0x80041800))
	c.Assert(uint32(ioctlSetRegisters), qt.Equals, uint32(0x40041801))
	c.Assert(unsafe.Sizeof(registerBlock{}), qt.Equals, uintptr(88))
}

func TestOpenNonexistentPathIsNotFound(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "fscc9")

	for _, mode := range []AccessMode{AccessRead, AccessWrite, AccessReadWrite} {
		p, err := Open(path, mode)
		c.Check(p, qt.IsNil)
		c.Check(err, qt.ErrorIs, ErrNotFound)
		c.Check(err, qt.ErrorIs, unix.ENOENT)
	}
}

func TestOpenRegularFileIsNotFound(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "fscc0")
	c.Assert(os.WriteFile(path, []byte("not a device"), 0o600), qt.IsNil)

	_, err := Open(path, AccessRead)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(err, qt.ErrorMatches, `.*is not a character device`)
}

func TestOpenDirectoryIsNotFound(t *testing.T) {
	c := qt.New(t)
	dir := c.TempDir()

	for _, mode := range []AccessMode{AccessRead, AccessWrite, AccessReadWrite} {
		_, err := Open(dir, mode)
		c.Check(err, qt.ErrorIs, ErrNotFound, qt.Commentf("mode %s", mode))
	}
}

func TestOpenFIFOIsNotFound(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "fscc0")
	c.Assert(unix.Mkfifo(path, 0o600), qt.IsNil)

	for _, mode := range []AccessMode{AccessRead, AccessWrite, AccessReadWrite} {
		done := make(chan error, 1)
		go func() {
			_, err := Open(path, mode)
			done <- err
		}()

		select {
		case err := <-done:
			c.Check(err, qt.ErrorIs, ErrNotFound, qt.Commentf("mode %s", mode))
		case <-time.After(2 * time.Second):
			c.Fatalf("open of a FIFO in mode %s did not return", mode)
		}
	}
}

func TestOpenWithoutPermissionIsPermission(t *testing.T) {
	c := qt.New(t)
	if os.Geteuid() == 0 {
		c.Skip("root bypasses file permissions")
	}
	path := filepath.Join(c.TempDir(), "fscc0")
	c.Assert(os.WriteFile(path, nil, 0o000), qt.IsNil)

	for _, mode := range []AccessMode{AccessRead, AccessWrite, AccessReadWrite} {
		_, err := Open(path, mode)
		c.Check(err, qt.ErrorIs, ErrPermission)
		c.Check(err, qt.ErrorIs, unix.EACCES)
	}
}

func TestClassifyOpenError(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		errno unix.Errno
		want  error
	}{
		{unix.ENOENT, ErrNotFound},
		{unix.ENODEV, ErrNotFound},
		{unix.ENXIO, ErrNotFound},
		{unix.ENOTDIR, ErrNotFound},
		{unix.EISDIR, ErrNotFound},
		{unix.ELOOP, ErrNotFound},
		{unix.ENAMETOOLONG, ErrNotFound},
		{unix.EACCES, ErrPermission},
		{unix.EPERM, ErrPermission},
		{unix.EROFS, ErrPermission},
	}
	for _, tt := range tests {
		err := classifyOpenError("/dev/fscc0", tt.errno)
		c.Check(err, qt.ErrorIs, tt.want, qt.Commentf("errno %v", tt.errno))
		c.Check(err, qt.ErrorIs, tt.errno)
	}

	err := classifyOpenError("/dev/fscc0", unix.EBUSY)
	c.Assert(errors.Is(err, ErrNotFound) || errors.Is(err, ErrPermission), qt.IsFalse)
	c.Assert(err, qt.ErrorIs, unix.EBUSY)
}

func nullDevice(c *qt.C) string {
	const path = "/dev/null"
	fi, err := os.Stat(path)
	if err != nil || fi.Mode()&os.ModeCharDevice == 0 {
		c.Skip("no /dev/null character device")
	}
	return path
}

// /dev/null is a character device but rejects the register ioctl.
func TestProbeRejectsForeignCharacterDevice(t *testing.T) {
	c := qt.New(t)
	path := nullDevice(c)

	_, err := Open(path, AccessWrite)
	c.Assert(err, qt.ErrorIs, ErrNotFound)
	c.Assert(err, qt.ErrorIs, unix.ENOTTY)
}

func TestFramesOnUnprobedCharacterDevice(t *testing.T) {
	c := qt.New(t)
	path := nullDevice(c)

	cfg := DefaultConfig(path)
	cfg.SkipProbe = true
	p, err := OpenConfig(cfg, zerolog.Nop())
	c.Assert(err, qt.IsNil)

	n, err := p.Write([]byte("Hello world!"))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 12)

	n, err = p.Read(make([]byte, 16))
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 0)

	_, err = p.ReadRegister(CCR0)
	c.Assert(err, qt.ErrorIs, ErrNotFound)

	c.Assert(p.Close(), qt.IsNil)
	c.Assert(p.Close(), qt.IsNil)
	_, err = p.ReadRegister(CCR0)
	c.Assert(err, qt.ErrorIs, ErrClosed)
}

func TestGlobPortsSorted(t *testing.T) {
	c := qt.New(t)
	ports, err := globPorts()
	c.Assert(err, qt.IsNil)
	for i := 1; i < len(ports); i++ {
		c.Check(ports[i-1] < ports[i], qt.IsTrue)
	}
}

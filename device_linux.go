//go:build linux

package fscc

import (
	"fmt"
	"path/filepath"
	"sort"
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

const (
	ioctlMagic = 0x18

	// _IOR(0x18, 0, __u32) and _IOW(0x18, 1, __u32) as declared by the driver.
	ioctlGetRegisters = 2<<30 | 4<<16 | ioctlMagic<<8 | 0
	ioctlSetRegisters = 1<<30 | 4<<16 | ioctlMagic<<8 | 1

	devicePattern = "/dev/fscc*"
)

// charDevice is an open FSCC device node.
type charDevice struct {
	fd int
}

func openCharDevice(path string, mode AccessMode) (deviceHandle, error) {
	// O_NONBLOCK keeps a FIFO or similar node from stalling the open before
	// its type has been checked.
	fd, err := unix.Open(path, openFlags(mode)|unix.O_CLOEXEC|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, classifyOpenError(path, err)
	}

	var st unix.Stat_t
	if err = unix.Fstat(fd, &st); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Annotatef(err, "stat %s", path)
	}
	if st.Mode&unix.S_IFMT != unix.S_IFCHR {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("%w: %s is not a character device", ErrNotFound, path)
	}
	if err = unix.SetNonblock(fd, false); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Annotatef(err, "setting blocking mode on %s", path)
	}

	return &charDevice{fd: fd}, nil
}

func openFlags(mode AccessMode) int {
	switch mode {
	case AccessRead:
		return unix.O_RDONLY
	case AccessWrite:
		return unix.O_WRONLY
	default:
		return unix.O_RDWR
	}
}

func classifyOpenError(path string, err error) error {
	switch err {
	case unix.ENOENT, unix.ENODEV, unix.ENXIO, unix.ENOTDIR, unix.EISDIR, unix.ELOOP, unix.ENAMETOOLONG:
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case unix.EACCES, unix.EPERM, unix.EROFS:
		return fmt.Errorf("%w: %s: %w", ErrPermission, path, err)
	}
	return errors.Annotatef(err, "opening %s", path)
}

// classifyIoctlError maps the errors a non-FSCC node gives to the register
// ioctls.
func classifyIoctlError(err error) error {
	switch err {
	case unix.ENOTTY, unix.EINVAL:
		return fmt.Errorf("%w: register ioctl rejected: %w", ErrNotFound, err)
	}
	return err
}

func (d *charDevice) Read(p []byte) (int, error) {
	n, err := unix.Read(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (d *charDevice) Write(p []byte) (int, error) {
	n, err := unix.Write(d.fd, p)
	if n < 0 {
		n = 0
	}
	return n, err
}

func (d *charDevice) Close() error {
	return unix.Close(d.fd)
}

func (d *charDevice) GetRegisters(b *registerBlock) error {
	return d.ioctl(ioctlGetRegisters, b)
}

func (d *charDevice) SetRegisters(b *registerBlock) error {
	return d.ioctl(ioctlSetRegisters, b)
}

func (d *charDevice) ioctl(req uintptr, b *registerBlock) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(unsafe.Pointer(b)))
	if errno != 0 {
		return classifyIoctlError(errno)
	}
	return nil
}

func globPorts() ([]string, error) {
	matches, err := filepath.Glob(devicePattern)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

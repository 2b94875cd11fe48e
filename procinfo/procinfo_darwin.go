// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build darwin

package procinfo

import (
	"bytes"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

const (
	procInfoCallPidInfo  = 2 // PROC_INFO_CALL_PIDINFO
	procPidVnodePathInfo = 9 // PROC_PIDVNODEPATHINFO
	vnodeInfoSize        = 152
	maxPathLen           = 1024
)

// vnodeInfoPath mirrors struct vnode_info_path from <sys/proc_info.h>.
// Only the path is read so the vnode_info part is kept opaque.
type vnodeInfoPath struct {
	_    [vnodeInfoSize]byte
	Path [maxPathLen]byte
}

// procVnodePathInfo mirrors struct proc_vnodepathinfo.
type procVnodePathInfo struct {
	Cdir vnodeInfoPath
	Rdir vnodeInfoPath
}

// getCwd issues proc_pidinfo(PROC_PIDVNODEPATHINFO) through the raw
// proc_info syscall and returns the current directory vnode path.
func getCwd(pid int32) (string, error) {
	var vpi procVnodePathInfo
	size := unsafe.Sizeof(vpi)

	ret, _, errno := syscall.Syscall6(
		syscall.SYS_PROC_INFO,
		procInfoCallPidInfo,
		uintptr(pid),
		procPidVnodePathInfo,
		0,
		uintptr(unsafe.Pointer(&vpi)),
		size,
	)
	if errno != 0 {
		return "", errno
	}

	if int(ret) <= 0 {
		return "", fmt.Errorf("no vnode path info returned for pid %d", pid)
	}

	if i := bytes.IndexByte(vpi.Cdir.Path[:], 0); i >= 0 {
		return string(vpi.Cdir.Path[:i]), nil
	}
	return string(vpi.Cdir.Path[:]), nil
}

// getBinaryPath gets the binary path for a process on macOS
func getBinaryPath(pid int32) (string, error) {
	// Use sysctl kern.proc.pathname to get the executable path
	mib := []int32{1, 14, 12, pid} // CTL_KERN, KERN_PROC, KERN_PROC_PATHNAME, pid

	// Query the size first
	n := uintptr(0)
	_, _, errno := syscall.Syscall6(
		syscall.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])),
		uintptr(len(mib)),
		0,
		uintptr(unsafe.Pointer(&n)),
		0,
		0,
	)
	if errno != 0 {
		return "", errno
	}

	if n == 0 {
		return "", fmt.Errorf("no path returned for pid %d", pid)
	}

	buf := make([]byte, n)
	_, _, errno = syscall.Syscall6(
		syscall.SYS___SYSCTL,
		uintptr(unsafe.Pointer(&mib[0])),
		uintptr(len(mib)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&n)),
		0,
		0,
	)
	if errno != 0 {
		return "", errno
	}

	// Remove null terminator if present
	if n > 0 && buf[n-1] == 0 {
		n--
	}

	return string(buf[:n]), nil
}

// getOwner reads the effective UID from the kinfo_proc of the process.
func getOwner(pid int32) (uint32, error) {
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", int(pid))
	if err != nil {
		return 0, err
	}

	// A missing process yields a zeroed record instead of an error
	if kp.Proc.P_pid != pid {
		return 0, fmt.Errorf("process %d not found", pid)
	}
	return kp.Eproc.Ucred.Uid, nil
}

// SetProcRoot is a no-op on macOS, which has no procfs.
func SetProcRoot(string) {}

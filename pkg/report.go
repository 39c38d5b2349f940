package fileutils

import (
	"fmt"
	"os"
	"syscall"

	"github.com/google/vectorio"
	"golang.org/x/sys/unix"
)

// WriteDuplicateReport renders duplicate groups in the standard text
// format and flushes them to file with vectored writes, one writev per
// IOV_MAX-sized chunk:
//
//	<algorithm>: <digest>
//
//	  <path>
//	  <path>
func WriteDuplicateReport(file *os.File, algorithm string, groups []DuplicateGroup) error {
	bufs := make([][]byte, 0, len(groups)*3)
	for _, group := range groups {
		bufs = append(bufs, []byte(fmt.Sprintf("\n%s: %s\n\n", algorithm, group.Digest)))
		for _, path := range group.Files {
			bufs = append(bufs, []byte(fmt.Sprintf("  %s\n", SafeDisplayPath(path))))
		}
	}
	return writevAll(file, bufs)
}

// writevAll writes every buffer to file using writev, chunking the iovec
// list to respect the system IOV_MAX limit.
func writevAll(file *os.File, bufs [][]byte) error {
	iovecs := make([]syscall.Iovec, 0, len(bufs))
	total := 0
	for _, b := range bufs {
		if len(b) == 0 {
			continue
		}
		iovecs = append(iovecs, syscall.Iovec{Base: &b[0], Len: uint64(len(b))})
		total += len(b)
	}
	if len(iovecs) == 0 {
		return nil
	}

	maxIovecs := systemIOVMax()
	written := 0
	for offset := 0; offset < len(iovecs); offset += maxIovecs {
		end := offset + maxIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}
		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), iovecs[offset:end])
		if err != nil {
			return fmt.Errorf("failed to write report with vectorio: %w", err)
		}
		written += nw
	}
	if written != total {
		return fmt.Errorf("report write incomplete: wrote %d bytes, expected %d", written, total)
	}
	return nil
}

// systemIOVMax returns the IOV_MAX limit via sysconf(_SC_IOV_MAX),
// falling back to a conservative default when the call fails.
func systemIOVMax() int {
	const scIOVMax = 60 // Linux _SC_IOV_MAX
	const fallback = 1024

	// sysconf is syscall 99 on Linux.
	r1, _, errno := unix.Syscall(99, uintptr(scIOVMax), 0, 0)
	if errno != 0 {
		return fallback
	}
	iovMax := int(r1)
	if iovMax <= 0 || iovMax > 1<<20 {
		return fallback
	}
	return iovMax
}

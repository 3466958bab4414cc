package procutil

import (
	"os"
	"testing"
)

func TestPIDAlive_SelfIsAlive(t *testing.T) {
	if !PIDAlive(os.Getpid()) {
		t.Fatalf("expected own process to report alive")
	}
}

func TestPIDAlive_ZeroAndNegative_AreNotAlive(t *testing.T) {
	if PIDAlive(0) {
		t.Fatalf("pid 0 must not be reported alive")
	}
	if PIDAlive(-1) {
		t.Fatalf("negative pid must not be reported alive")
	}
}

func TestReadPIDStartTime_SelfIsConsistentAcrossReads(t *testing.T) {
	a, err := ReadPIDStartTime(os.Getpid())
	if err != nil {
		t.Skipf("ReadPIDStartTime unavailable on this platform: %v", err)
	}
	b, err := ReadPIDStartTime(os.Getpid())
	if err != nil {
		t.Fatalf("ReadPIDStartTime: %v", err)
	}
	if a != b {
		t.Fatalf("expected stable start time for the same live process, got %d then %d", a, b)
	}
}

func TestExePath_SelfResolvesToCurrentBinary(t *testing.T) {
	path, err := ExePath(os.Getpid())
	if err != nil {
		t.Skipf("ExePath unavailable on this platform: %v", err)
	}
	if path == "" {
		t.Fatalf("expected a non-empty exe path")
	}
}

func TestReadCmdline_SelfIsNonEmpty(t *testing.T) {
	args, err := ReadCmdline(os.Getpid())
	if err != nil {
		t.Skipf("ReadCmdline unavailable on this platform: %v", err)
	}
	if len(args) == 0 {
		t.Fatalf("expected at least one cmdline argument")
	}
}

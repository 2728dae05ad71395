package main

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"
)

func TestIsConnRefused(t *testing.T) {
	refused := &net.OpError{Op: "dial", Err: fmt.Errorf("connect: %w", syscall.ECONNREFUSED)}
	if !isConnRefused(refused) {
		t.Fatal("expected ECONNREFUSED to be recognized")
	}

	reset := &net.OpError{Op: "read", Err: fmt.Errorf("read: %w", syscall.ECONNRESET)}
	if isConnRefused(reset) {
		t.Fatal("connection reset must surface, not retry")
	}

	if isConnRefused(errors.New("no route to host")) {
		t.Fatal("generic errors must surface, not retry")
	}
}

package engine

import (
	"fmt"
	"testing"

	"github.com/kbukum/xfer/native"
	"github.com/kbukum/xfer/status"
)

func TestMulti_PerformReportsEachHandle(t *testing.T) {
	srv := testServer(t)
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)

	if code := e.MultiSetopt(m, native.MultiOptMaxTotalConnections, 2); code != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", code)
	}
	if code := e.MultiSetopt(m, native.MultiOptMaxHostConnections, 1); code != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", code)
	}

	handles := map[native.Handle]*sink{}
	for i := 0; i < 4; i++ {
		h := mustInit(t, e)
		setURL(t, e, h, fmt.Sprintf("%s/status/%d", srv.URL, 200+i))
		handles[h] = setWriter(t, e, h)
		if code := e.MultiAddHandle(m, h); code != status.MultiOK {
			t.Fatalf("expected MultiOK, got %s", code)
		}
	}

	if code := e.MultiPerform(m); code != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", code)
	}

	seen := map[native.Handle]bool{}
	for {
		msg, ok := e.MultiInfoRead(m)
		if !ok {
			break
		}
		if msg.Result != status.OK {
			t.Errorf("expected OK for handle %d, got %s", msg.Handle, msg.Result)
		}
		seen[msg.Handle] = true
	}
	if len(seen) != len(handles) {
		t.Errorf("expected %d messages, got %d", len(handles), len(seen))
	}
	for h, s := range handles {
		if s.String() != "status body" {
			t.Errorf("expected body for handle %d, got %q", h, s.String())
		}
	}

	if code := e.MultiPerform(m); code != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", code)
	}
	if _, ok := e.MultiInfoRead(m); ok {
		t.Error("expected completed handles not to run again")
	}
}

func TestMulti_AddRemove(t *testing.T) {
	e := newTestEngine()
	m1 := e.MultiInit()
	m2 := e.MultiInit()
	defer e.MultiCleanup(m1)
	defer e.MultiCleanup(m2)
	h := mustInit(t, e)

	if got := e.MultiAddHandle(0, h); got != status.MultiBadHandle {
		t.Errorf("expected %s, got %s", status.MultiBadHandle, got)
	}
	if got := e.MultiAddHandle(m1, 0); got != status.MultiBadEasyHandle {
		t.Errorf("expected %s, got %s", status.MultiBadEasyHandle, got)
	}
	if got := e.MultiAddHandle(m1, h); got != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", got)
	}
	if got := e.MultiAddHandle(m1, h); got != status.MultiAddedAlready {
		t.Errorf("expected %s, got %s", status.MultiAddedAlready, got)
	}
	if got := e.MultiAddHandle(m2, h); got != status.MultiAddedAlready {
		t.Errorf("expected %s, got %s", status.MultiAddedAlready, got)
	}
	if got := e.MultiRemoveHandle(m2, h); got != status.MultiBadEasyHandle {
		t.Errorf("expected %s, got %s", status.MultiBadEasyHandle, got)
	}
	if got := e.MultiRemoveHandle(m1, h); got != status.MultiOK {
		t.Errorf("expected MultiOK, got %s", got)
	}
	if got := e.MultiRemoveHandle(m1, h); got != status.MultiOK {
		t.Errorf("expected MultiOK for a detached handle, got %s", got)
	}
	if got := e.MultiAddHandle(m2, h); got != status.MultiOK {
		t.Errorf("expected MultiOK after removal, got %s", got)
	}
}

func TestMulti_Setopt(t *testing.T) {
	e := newTestEngine()
	m := e.MultiInit()
	defer e.MultiCleanup(m)

	tests := []struct {
		name  string
		o     native.MultiOption
		value int64
		want  status.MultiCode
	}{
		{"max connects", native.MultiOptMaxConnects, 10, status.MultiOK},
		{"pipelining", native.MultiOptPipelining, 2, status.MultiOK},
		{"negative", native.MultiOptMaxTotalConnections, -1, status.MultiBadFunctionArg},
		{"unknown", native.MultiOption(9999), 1, status.MultiUnknownOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.MultiSetopt(m, tt.o, tt.value); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMulti_CleanupDetachesHandles(t *testing.T) {
	e := newTestEngine()
	m := e.MultiInit()
	h := mustInit(t, e)
	e.MultiAddHandle(m, h)
	if got := e.MultiCleanup(m); got != status.MultiOK {
		t.Fatalf("expected MultiOK, got %s", got)
	}
	if code := e.EasyPerform(h); code == status.FailedInit {
		t.Error("expected handle usable after its multi was cleaned up")
	}
}

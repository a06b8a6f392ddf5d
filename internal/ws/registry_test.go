package ws

import (
	"sync"
	"testing"
)

func testConn() *Conn {
	return &Conn{out: make(chan []byte, 16)}
}

func TestRegistryJoinCreatesRoom(t *testing.T) {
	g := newRegistry()
	a := testConn()

	created := g.join("R1", a)
	if !created {
		t.Fatal("first join should create the room")
	}
	if n := g.size("R1"); n != 1 {
		t.Fatalf("size = %d, want 1", n)
	}

	b := testConn()
	if created := g.join("R1", b); created {
		t.Fatal("second join should not report creation")
	}
	if n := g.size("R1"); n != 2 {
		t.Fatalf("size = %d, want 2", n)
	}
}

func TestRegistryLastLeaveDeletesRoom(t *testing.T) {
	g := newRegistry()
	a := testConn()
	b := testConn()
	g.join("R1", a)
	g.join("R1", b)

	removed, destroyed, _ := g.leave("R1", a)
	if !removed || destroyed {
		t.Fatalf("leave a: removed=%v destroyed=%v, want true,false", removed, destroyed)
	}

	removed, destroyed, peak := g.leave("R1", b)
	if !removed || !destroyed {
		t.Fatalf("leave b: removed=%v destroyed=%v, want true,true", removed, destroyed)
	}
	if peak != 2 {
		t.Fatalf("peak = %d, want 2", peak)
	}

	// Room entry must be gone, not empty
	if g.members("R1") != nil {
		t.Fatal("room should be absent after last leave")
	}
	if n := g.size("R1"); n != 0 {
		t.Fatalf("size = %d, want 0", n)
	}
}

func TestRegistryLeaveNonMemberIsNoop(t *testing.T) {
	g := newRegistry()
	a := testConn()
	stranger := testConn()
	g.join("R1", a)

	removed, destroyed, _ := g.leave("R1", stranger)
	if removed || destroyed {
		t.Fatal("leaving a non-member must be a no-op")
	}
	if n := g.size("R1"); n != 1 {
		t.Fatalf("size = %d, want 1", n)
	}

	// Unknown room too
	if removed, _, _ := g.leave("nope", a); removed {
		t.Fatal("leaving an unknown room must be a no-op")
	}
}

func TestRegistryMembersSnapshot(t *testing.T) {
	g := newRegistry()
	if g.members("R1") != nil {
		t.Fatal("absent room should have nil members")
	}

	a := testConn()
	b := testConn()
	g.join("R1", a)
	g.join("R1", b)

	got := g.members("R1")
	if len(got) != 2 {
		t.Fatalf("members = %d, want 2", len(got))
	}
	seen := map[*Conn]bool{}
	for _, c := range got {
		seen[c] = true
	}
	if !seen[a] || !seen[b] {
		t.Fatal("snapshot missing a member")
	}
}

func TestRegistrySnapshotCounts(t *testing.T) {
	g := newRegistry()
	g.join("R1", testConn())
	g.join("R1", testConn())
	g.join("R2", testConn())

	counts := g.snapshot()
	if counts["R1"] != 2 || counts["R2"] != 1 {
		t.Fatalf("snapshot = %v", counts)
	}
}

func TestRegistryConcurrentChurn(t *testing.T) {
	g := newRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := testConn()
			for j := 0; j < 100; j++ {
				g.join("R1", c)
				g.members("R1")
				g.leave("R1", c)
			}
		}()
	}
	wg.Wait()

	if n := g.size("R1"); n != 0 {
		t.Fatalf("size after churn = %d, want 0", n)
	}
}

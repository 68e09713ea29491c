package netid

import "testing"

func TestAllocateZero(t *testing.T) {
	id, err := Allocate(0)
	if err != nil {
		t.Fatalf("Allocate(0): %v", err)
	}
	if id.TapIP != "172.16.0.1" {
		t.Errorf("tap ip = %s, want 172.16.0.1", id.TapIP)
	}
	if id.GuestIP != "172.16.0.2" {
		t.Errorf("guest ip = %s, want 172.16.0.2", id.GuestIP)
	}
	if id.MAC != "06:00:AC:10:00:02" {
		t.Errorf("mac = %s, want 06:00:AC:10:00:02", id.MAC)
	}
	if id.TapName != "tap0" {
		t.Errorf("tap name = %s, want tap0", id.TapName)
	}
}

func TestAllocateDistinctBelow256(t *testing.T) {
	seen := map[string]int{}
	for i := 0; 2+2*i < 256; i++ {
		id, err := Allocate(i)
		if err != nil {
			t.Fatalf("Allocate(%d): %v", i, err)
		}
		if id.TapIP == id.GuestIP {
			t.Errorf("i=%d: tap and guest ip collide at %s", i, id.TapIP)
		}
		if prev, ok := seen[id.GuestIP]; ok {
			t.Errorf("i=%d: guest ip %s collides with iteration %d", i, id.GuestIP, prev)
		}
		seen[id.GuestIP] = i
	}
}

func TestAllocateOverflow(t *testing.T) {
	_, err := Allocate(32766)
	if err != nil {
		t.Fatalf("Allocate(32766): %v", err)
	}
	if _, err := Allocate(32767); err == nil {
		t.Fatal("expected overflow error for i=32767")
	}
}

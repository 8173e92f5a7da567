package freeze

import "testing"

func TestLifecycle(t *testing.T) {
	m := New(WithSlotFrames(64))
	if !m.RequestFreeze(1) {
		t.Fatalf("RequestFreeze on midi track failed")
	}
	if m.Status(1) != Pending {
		t.Fatalf("status = %v, want pending", m.Status(1))
	}
	// Samples before the loop boundary are not captured.
	m.WriteRenderSample(9, 9)

	m.OnPatternLoop()
	if m.Status(1) != Rendering {
		t.Fatalf("status = %v, want rendering", m.Status(1))
	}
	const written = 10
	for i := 0; i < written; i++ {
		m.WriteRenderSample(float32(i), -float32(i))
	}
	m.OnPatternLoop()
	if m.Status(1) != Audio {
		t.Fatalf("status = %v, want audio", m.Status(1))
	}
	slot, ok := m.Slot(1)
	if !ok {
		t.Fatalf("frozen track has no slot")
	}
	if got := m.SlotLength(slot); got != written {
		t.Fatalf("length = %d, want %d", got, written)
	}
	if !m.HasFrozen() || m.UsedBytes() != written*8 {
		t.Fatalf("HasFrozen=%v UsedBytes=%d", m.HasFrozen(), m.UsedBytes())
	}

	if !m.Unfreeze(1) {
		t.Fatalf("Unfreeze from audio failed")
	}
	if m.Status(1) != Midi {
		t.Fatalf("status = %v, want midi", m.Status(1))
	}
	if _, ok := m.Slot(1); ok {
		t.Fatalf("slot still assigned after unfreeze")
	}
	if m.AvailableSlots() != NumSlots {
		t.Fatalf("available = %d, want %d", m.AvailableSlots(), NumSlots)
	}
}

func TestRejections(t *testing.T) {
	m := New(WithSlotFrames(8))
	for _, tc := range []struct {
		name string
		ok   bool
	}{
		{"negative track", m.RequestFreeze(-1)},
		{"track out of range", m.RequestFreeze(NumTracks)},
		{"unfreeze midi", m.Unfreeze(0)},
	} {
		if tc.ok {
			t.Fatalf("%s: accepted", tc.name)
		}
	}
	m.RequestFreeze(0)
	if m.RequestFreeze(0) {
		t.Fatalf("second request on pending track accepted")
	}
	if m.Unfreeze(0) {
		t.Fatalf("unfreeze of pending track accepted")
	}
}

func TestSlotExhaustion(t *testing.T) {
	m := New(WithSlotFrames(8))
	for tr := 0; tr < NumSlots; tr++ {
		if !m.RequestFreeze(tr) {
			t.Fatalf("RequestFreeze(%d) failed", tr)
		}
	}
	if m.RequestFreeze(NumSlots) {
		t.Fatalf("fourth freeze accepted with %d slots", NumSlots)
	}
	if m.AvailableSlots() != 0 {
		t.Fatalf("available = %d, want 0", m.AvailableSlots())
	}
}

func TestPendingQueue(t *testing.T) {
	m := New(WithSlotFrames(8))
	m.RequestFreeze(2)
	m.RequestFreeze(0)
	m.OnPatternLoop()
	if got, _ := m.RenderTarget(); got != 0 {
		t.Fatalf("render target = %d, want lowest pending 0", got)
	}
	if m.Status(2) != Pending {
		t.Fatalf("track 2 = %v, want pending", m.Status(2))
	}
	m.OnPatternLoop()
	if m.Status(0) != Audio || m.Status(2) != Rendering {
		t.Fatalf("statuses %v %v, want audio rendering", m.Status(0), m.Status(2))
	}
	m.OnPatternLoop()
	if m.Status(2) != Audio {
		t.Fatalf("track 2 = %v, want audio", m.Status(2))
	}
	if _, ok := m.RenderTarget(); ok {
		t.Fatalf("render target left active")
	}
}

func TestCapacityCap(t *testing.T) {
	const frames = 16
	m := New(WithSlotFrames(frames))
	m.RequestFreeze(0)
	m.OnPatternLoop()
	for i := 0; i < frames*3; i++ {
		m.WriteRenderSample(1, 1)
	}
	m.OnPatternLoop()
	slot, _ := m.Slot(0)
	if got := m.SlotLength(slot); got != frames {
		t.Fatalf("length = %d, want capped %d", got, frames)
	}
}

func TestReadWraps(t *testing.T) {
	m := New(WithSlotFrames(16))
	m.RequestFreeze(3)
	m.OnPatternLoop()
	for i := 1; i <= 3; i++ {
		m.WriteRenderSample(float32(i), float32(-i))
	}
	m.OnPatternLoop()
	want := []float32{1, 2, 3, 1, 2, 3, 1}
	for i, w := range want {
		l, r := m.ReadFrozenSample(3)
		if l != w || r != -w {
			t.Fatalf("frame %d = (%v,%v), want (%v,%v)", i, l, r, w, -w)
		}
	}
	m.ResetPlayheads()
	if l, _ := m.ReadFrozenSample(3); l != 1 {
		t.Fatalf("after reset l = %v, want 1", l)
	}
	m.Seek(5) // 5 mod 3
	if l, _ := m.ReadFrozenSample(3); l != 3 {
		t.Fatalf("after seek l = %v, want 3", l)
	}
	if l, r := m.ReadFrozenSample(0); l != 0 || r != 0 {
		t.Fatalf("midi track read (%v,%v), want silence", l, r)
	}
}

func TestFrames(t *testing.T) {
	m := New(WithSlotFrames(4))
	m.RequestFreeze(1)
	m.OnPatternLoop()
	m.WriteRenderSample(0.5, -0.5)
	m.WriteRenderSample(0.25, -0.25)
	m.OnPatternLoop()
	got := m.Frames(1)
	want := []float32{0.5, -0.5, 0.25, -0.25}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if m.Frames(0) != nil {
		t.Fatalf("frames for unfrozen track")
	}
}

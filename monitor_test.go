package barge

import "testing"

func TestSpeechMonitor_TriggersAfterSustainedSpeech(t *testing.T) {
	t.Parallel()

	m := newSpeechMonitor(15, 13)

	// Silence through the grace window and a bit beyond.
	for i := 0; i < 19; i++ {
		if m.observe(false) {
			t.Fatalf("observe(false) frame %d: triggered, want no trigger", i+1)
		}
	}

	// Speech starting at frame 20 must trigger on its 13th consecutive
	// frame, i.e. at frame 32.
	for frame := 20; frame <= 40; frame++ {
		got := m.observe(true)
		want := frame == 32
		if got != want {
			t.Fatalf("observe(true) frame %d: triggered=%v, want %v", frame, got, want)
		}
		if want {
			break
		}
	}
	if !m.triggered() {
		t.Fatal("monitor not in triggered state after sustained speech")
	}

	// Terminal: further frames are ignored.
	if m.observe(true) {
		t.Error("observe after trigger: triggered again, want ignored")
	}
}

func TestSpeechMonitor_GraceWindowNeverTriggers(t *testing.T) {
	t.Parallel()

	// Speech confined entirely to the grace window must never trigger,
	// even though its run length would satisfy the debounce.
	m := newSpeechMonitor(15, 13)
	for i := 0; i < 15; i++ {
		if m.observe(true) {
			t.Fatalf("observe(true) grace frame %d: triggered", i+1)
		}
	}
	if m.phase != phaseWarmup {
		t.Fatalf("phase=%d after grace-only speech, want warmup", m.phase)
	}

	// The run does not carry over out of the grace window either: it
	// takes a full minFrames of post-grace speech to trigger.
	for i := 0; i < 12; i++ {
		if m.observe(true) {
			t.Fatalf("observe(true) post-grace frame %d: early trigger", i+1)
		}
	}
	if !m.observe(true) {
		t.Fatal("13th post-grace speech frame: no trigger")
	}
}

func TestSpeechMonitor_NonSpeechResetsRun(t *testing.T) {
	t.Parallel()

	m := newSpeechMonitor(0, 3)
	seq := []bool{true, true, false, true, true}
	for i, s := range seq {
		if m.observe(s) {
			t.Fatalf("frame %d: triggered with broken run", i+1)
		}
	}
	if !m.observe(true) {
		t.Fatal("3rd consecutive speech frame: no trigger")
	}
}

func TestSpeechMonitor_ExternalStopIsTerminal(t *testing.T) {
	t.Parallel()

	m := newSpeechMonitor(0, 2)
	m.observe(true)
	m.stopExternal()
	if m.observe(true) {
		t.Error("observe after external stop: triggered")
	}
	if m.triggered() {
		t.Error("externally stopped monitor reports triggered")
	}
}

func TestSpeechMonitor_MinFramesFloor(t *testing.T) {
	t.Parallel()

	// A zero debounce still requires one speech frame.
	m := newSpeechMonitor(0, 0)
	if m.observe(false) {
		t.Fatal("non-speech frame triggered")
	}
	if !m.observe(true) {
		t.Fatal("single speech frame did not trigger with minFrames floor of 1")
	}
}

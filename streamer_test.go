package barge

import "testing"

func TestPlaybackFeeder_DeliversChunksInOrder(t *testing.T) {
	t.Parallel()

	buf := make([]float32, 12)
	for i := range buf {
		buf[i] = float32(i + 1)
	}
	ctrl := &controlState{}
	f := newPlaybackFeeder(buf, 4, ctrl)

	out := make([]float32, 4)
	for chunk := 0; chunk < 3; chunk++ {
		if !f.fill(out) {
			t.Fatalf("fill chunk %d: reported terminal", chunk)
		}
		for i, v := range out {
			want := float32(chunk*4 + i + 1)
			if v != want {
				t.Fatalf("chunk %d sample %d = %v, want %v", chunk, i, v, want)
			}
		}
	}

	// Sentinel: silence, playback_done, terminal.
	if f.fill(out) {
		t.Fatal("fill at sentinel: reported running")
	}
	if !ctrl.playbackDone.Load() {
		t.Fatal("playbackDone not set at sentinel")
	}
	for i, v := range out {
		if v != 0 {
			t.Fatalf("sentinel output sample %d = %v, want silence", i, v)
		}
	}
}

func TestPlaybackFeeder_ZeroPadsShortTail(t *testing.T) {
	t.Parallel()

	buf := []float32{1, 1, 1, 1, 1, 1} // one full chunk of 4 plus a tail of 2
	ctrl := &controlState{}
	f := newPlaybackFeeder(buf, 4, ctrl)

	out := make([]float32, 4)
	f.fill(out)
	if !f.fill(out) {
		t.Fatal("tail chunk reported terminal")
	}
	want := []float32{1, 1, 0, 0}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("tail sample %d = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestPlaybackFeeder_StopEmitsSilenceImmediately(t *testing.T) {
	t.Parallel()

	buf := []float32{1, 1, 1, 1}
	ctrl := &controlState{}
	f := newPlaybackFeeder(buf, 2, ctrl)

	out := []float32{9, 9}
	ctrl.requestStop()
	if f.fill(out) {
		t.Fatal("fill after stop: reported running")
	}
	if out[0] != 0 || out[1] != 0 {
		t.Fatalf("output after stop = %v, want silence", out)
	}
	// Stop must not be misreported as natural completion.
	if ctrl.playbackDone.Load() {
		t.Fatal("stop path set playbackDone")
	}
}

func TestPlaybackFeeder_StarvationCountsAsDone(t *testing.T) {
	t.Parallel()

	ctrl := &controlState{}
	f := &playbackFeeder{queue: make(chan []float32, 1), ctrl: ctrl}

	out := []float32{5}
	if f.fill(out) {
		t.Fatal("fill on drained queue: reported running")
	}
	if !ctrl.playbackDone.Load() {
		t.Fatal("drained queue did not set playbackDone")
	}
	if out[0] != 0 {
		t.Fatalf("drained queue output = %v, want silence", out[0])
	}
}

func TestPlaybackFeeder_EmptyBufferCompletesImmediately(t *testing.T) {
	t.Parallel()

	ctrl := &controlState{}
	f := newPlaybackFeeder(nil, 4, ctrl)

	out := make([]float32, 4)
	if f.fill(out) {
		t.Fatal("empty buffer: first fill reported running")
	}
	if !ctrl.playbackDone.Load() {
		t.Fatal("empty buffer did not complete naturally")
	}
}

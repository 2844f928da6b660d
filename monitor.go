package barge

// monitorPhase is the lifecycle of a speechMonitor within one session.
type monitorPhase int

const (
	// phaseWarmup covers the startup grace window. Frames are classified
	// but can never trigger a decision.
	phaseWarmup monitorPhase = iota

	// phaseWatching counts consecutive speech frames toward a trigger.
	phaseWatching

	// phaseTriggered is terminal: sustained speech was detected.
	phaseTriggered

	// phaseStopped is terminal: the streamer side ended the session first.
	phaseStopped
)

// speechMonitor decides when sustained microphone speech constitutes an
// interruption. Pure logic; no devices, no clock, no flags. The caller
// feeds it one classification per capture frame.
type speechMonitor struct {
	graceFrames int
	minFrames   int

	seenFrames int
	speechRun  int
	phase      monitorPhase
}

func newSpeechMonitor(graceFrames, minFrames int) *speechMonitor {
	if minFrames < 1 {
		minFrames = 1
	}
	return &speechMonitor{graceFrames: graceFrames, minFrames: minFrames}
}

// observe advances the state machine by one capture frame and reports
// whether this frame completes a sustained run of speech. After it
// returns true the monitor is terminal and further frames are ignored.
func (m *speechMonitor) observe(isSpeech bool) bool {
	if m.phase == phaseTriggered || m.phase == phaseStopped {
		return false
	}
	m.seenFrames++
	if m.seenFrames <= m.graceFrames {
		// Startup grace: the assistant's own voice may still be audible.
		return false
	}
	m.phase = phaseWatching
	if !isSpeech {
		m.speechRun = 0
		return false
	}
	m.speechRun++
	if m.speechRun >= m.minFrames {
		m.phase = phaseTriggered
		return true
	}
	return false
}

// stopExternal marks the monitor terminal without a trigger, for when the
// streamer finishes or a stop request arrives before any decision.
func (m *speechMonitor) stopExternal() {
	if m.phase != phaseTriggered {
		m.phase = phaseStopped
	}
}

// triggered reports whether the monitor decided on an interruption.
func (m *speechMonitor) triggered() bool { return m.phase == phaseTriggered }

package delivery

// The send loop as a state machine. Transitions are pure functions over
// (state, event); all waiting and networking happens in the executor. This
// keeps the retry policy unit-testable without clocks or sockets.

type phase int

const (
	phaseProbing phase = iota
	phaseSending
	phaseSucceeded
	phaseFailed
)

type eventKind int

const (
	evProbeOK eventKind = iota
	evProbeFail
	evSendOK
	evSendRetryable // connection-class POST failure (refused/timeout/DNS)
	evSendTerminal  // server rejection or malformed response
)

type event struct {
	kind eventKind
	err  error
}

// action tells the executor what to do next.
type action int

const (
	actProbe action = iota // reachability check, immediately
	actWait                // sleep RetryDelay, then reachability check
	actSend                // POST the payload
	actDone                // terminal — inspect st.phase / st.err
)

// state is one DeliveryAttempt's transient state. slotsLeft counts attempt
// slots still available, including the one in progress; it starts at
// 1 + MaxRetries.
type state struct {
	phase     phase
	slotsLeft int
	wait      bool // entered probing via a retry — delay before the probe
	sent      bool // at least one POST was issued
	err       error
}

func initialState(totalSlots int) state {
	return state{phase: phaseProbing, slotsLeft: totalSlots}
}

// action maps the current state to the executor's next step.
func (st state) action() action {
	switch st.phase {
	case phaseProbing:
		if st.wait {
			return actWait
		}
		return actProbe
	case phaseSending:
		return actSend
	default:
		return actDone
	}
}

// transition is the pure step function. A failed probe and a connection-class
// POST failure both consume the current slot; a terminal send failure ends
// the run regardless of remaining slots.
func transition(st state, ev event) state {
	switch st.phase {
	case phaseProbing:
		switch ev.kind {
		case evProbeOK:
			st.phase = phaseSending
			st.wait = false
			return st
		case evProbeFail:
			return st.consumeSlot(ev.err)
		}

	case phaseSending:
		switch ev.kind {
		case evSendOK:
			st.phase = phaseSucceeded
			st.sent = true
			return st
		case evSendRetryable:
			st.sent = true
			return st.consumeSlot(ev.err)
		case evSendTerminal:
			st.phase = phaseFailed
			st.sent = true
			st.err = ev.err
			return st
		}
	}

	// Terminal phases absorb everything.
	return st
}

// consumeSlot spends the current attempt slot. With slots remaining the
// machine re-enters probing behind a delay; otherwise it fails with the
// appropriate exhaustion error.
func (st state) consumeSlot(cause error) state {
	st.slotsLeft--
	if st.slotsLeft > 0 {
		st.phase = phaseProbing
		st.wait = true
		st.err = cause
		return st
	}

	st.phase = phaseFailed
	if st.sent {
		st.err = &ExhaustedError{Last: cause}
	} else {
		st.err = ErrConnectivityExhausted
	}
	return st
}

package delivery

import (
	"errors"
	"testing"
)

// Transition-function tests: the retry policy without clocks or sockets.

func TestMachine_HappyPath(t *testing.T) {
	st := initialState(3)
	if st.action() != actProbe {
		t.Fatalf("initial action = %v, want probe", st.action())
	}

	st = transition(st, event{kind: evProbeOK})
	if st.action() != actSend {
		t.Fatalf("after probe ok, action = %v, want send", st.action())
	}

	st = transition(st, event{kind: evSendOK})
	if st.action() != actDone || st.phase != phaseSucceeded {
		t.Fatalf("after send ok: action=%v phase=%v", st.action(), st.phase)
	}
}

func TestMachine_AllProbesFail_ConnectivityExhausted(t *testing.T) {
	st := initialState(3)

	probes := 0
	for st.action() != actDone {
		switch st.action() {
		case actProbe, actWait:
			probes++
			st = transition(st, event{kind: evProbeFail, err: ErrConnectivityExhausted})
		default:
			t.Fatalf("unexpected action %v", st.action())
		}
	}

	if probes != 3 {
		t.Errorf("probes = %d, want 3 (1 initial + 2 retries)", probes)
	}
	if !errors.Is(st.err, ErrConnectivityExhausted) {
		t.Errorf("err = %v, want ErrConnectivityExhausted", st.err)
	}
}

func TestMachine_RetryEntersProbingBehindDelay(t *testing.T) {
	st := initialState(3)
	st = transition(st, event{kind: evProbeFail, err: ErrConnectivityExhausted})

	if st.phase != phaseProbing {
		t.Fatalf("phase = %v, want probing", st.phase)
	}
	if st.action() != actWait {
		t.Errorf("retry action = %v, want wait (delay before re-probe)", st.action())
	}
}

func TestMachine_RetryableSendFailure_ConsumesSlotAndReprobes(t *testing.T) {
	st := initialState(3)
	st = transition(st, event{kind: evProbeOK})

	sendErr := errors.New("connection reset")
	st = transition(st, event{kind: evSendRetryable, err: sendErr})

	if st.phase != phaseProbing || st.slotsLeft != 2 {
		t.Fatalf("after retryable send failure: phase=%v slots=%d, want probing/2", st.phase, st.slotsLeft)
	}

	// Burn the remaining slots on the same failure: the surfaced error must
	// carry the last underlying send error, not the connectivity message.
	st = transition(st, event{kind: evProbeOK})
	st = transition(st, event{kind: evSendRetryable, err: sendErr})
	st = transition(st, event{kind: evProbeOK})
	st = transition(st, event{kind: evSendRetryable, err: sendErr})

	if st.phase != phaseFailed {
		t.Fatalf("phase = %v, want failed", st.phase)
	}
	var exhausted *ExhaustedError
	if !errors.As(st.err, &exhausted) {
		t.Fatalf("err = %T %v, want *ExhaustedError", st.err, st.err)
	}
	if !errors.Is(exhausted, sendErr) {
		t.Errorf("exhausted error does not wrap the last send failure: %v", exhausted)
	}
}

func TestMachine_TerminalSendFailure_NoRetry(t *testing.T) {
	st := initialState(3)
	st = transition(st, event{kind: evProbeOK})

	srvErr := &ServerError{Status: 500, Message: "mail relay rejected"}
	st = transition(st, event{kind: evSendTerminal, err: srvErr})

	if st.phase != phaseFailed {
		t.Fatalf("phase = %v, want failed — terminal errors never retry", st.phase)
	}
	if st.slotsLeft != 3 {
		t.Errorf("slotsLeft = %d — terminal failure must not depend on remaining slots", st.slotsLeft)
	}
	var got *ServerError
	if !errors.As(st.err, &got) || got.Status != 500 {
		t.Errorf("err = %v, want the ServerError", st.err)
	}
}

func TestMachine_SingleSlot(t *testing.T) {
	st := initialState(1)
	st = transition(st, event{kind: evProbeFail, err: ErrConnectivityExhausted})
	if st.phase != phaseFailed {
		t.Fatalf("phase = %v, want failed after the only slot", st.phase)
	}
}

// (c) Copyright Enthought, Inc. 2013

// Package erinyes detects memory leaks in automated test suites. It
// repeatedly invokes an operation under test and fails when the process
// retains memory across iterations beyond an allowed tolerance.
//
// Three checks are offered, composed bottom-up: a one-sample bounded-usage
// assertion, an in-process repeated-call check against a fixed baseline,
// and an isolated variant that delegates the loop to a disposable worker
// process so that a severe leak cannot poison the calling test session.
//
// Isolated checks re-execute the current binary, so the operation under
// test must be registered by name and the test binary has to opt in from
// its TestMain:
//
//	func init() {
//		erinyes.Register("decode-frame", func() { codec.Decode(frame) })
//	}
//
//	func TestMain(m *testing.M) {
//		erinyes.Main(m)
//	}
//
//	func TestDecodeFrameDoesNotLeak(t *testing.T) {
//		erinyes.AssertDoesNotLeak(t, "decode-frame")
//	}
package erinyes

// Default check parameters.
const (
	// DefaultIterations is the number of times a repeated-call check
	// invokes the operation under test.
	DefaultIterations = 100
	// DefaultIsolatedSlack is the tolerated usage growth for isolated
	// checks. Isolated runs pay process startup noise, hence the
	// permissive default; in-process checks default to zero slack.
	DefaultIsolatedSlack = 0.2
)

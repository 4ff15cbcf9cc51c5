//go:build sweepdebug
// +build sweepdebug

package sweep

import "testing"

// Run with -tags sweepdebug to exercise the contract assertion.
func TestAppendOutOfRangePanicsUnderSweepdebug(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("out-of-range append did not panic under sweepdebug")
		}
	}()
	d := NewSweepData(2)
	d.Reset(1)
	d.Append(2, Detection{})
}

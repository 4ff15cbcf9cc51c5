//go:build sweepdebug
// +build sweepdebug

package sweep

import "fmt"

// assertChannelInRange panics on an out-of-range channel index. Active only
// under the sweepdebug build tag; an out-of-range Append is a caller bug, not
// a runtime condition the accumulator tolerates.
func assertChannelInRange(channel, channelCount uint32) {
	if channel >= channelCount {
		panic(fmt.Sprintf("sweep: append to channel %d with channel count %d", channel, channelCount))
	}
}

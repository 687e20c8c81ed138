package g29

import (
	"bytes"
	"math"
	"runtime"
	"strconv"
)

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// scaleByte maps v in [0, 1] to an integer step in [0, max].
func scaleByte(v float64, max byte) byte {
	return byte(math.Round(clamp(v, 0, 1) * float64(max)))
}

// goroutineID parses the calling goroutine's id from its stack header,
// "goroutine N [running]:". There is no supported API for this; it is only
// used to recognize a Disconnect issued from the poll goroutine itself.
func goroutineID() uint64 {
	var buf [64]byte
	s := buf[:runtime.Stack(buf[:], false)]
	s = s[len("goroutine "):]
	if i := bytes.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, _ := strconv.ParseUint(string(s), 10, 64)
	return id
}

// clampRange bounds the wheel operating range to the 40..900 degrees the
// hardware supports.
func clampRange(deg uint16) uint16 {
	if deg < 40 {
		return 40
	}
	if deg > 900 {
		return 900
	}
	return deg
}

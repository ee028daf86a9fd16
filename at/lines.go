package at

import "strings"

// SplitLines splits a raw response block into lines. A line ends on
// "\r\n", a lone "\r" or a lone "\n"; terminators are dropped and
// interior empty lines are kept. There is no trailing empty line.
//
// The block is whatever happened to be buffered on the serial port at
// read time, so a response may arrive truncated or with the module's
// command echo in front. Callers inspect the result positionally and
// must tolerate both.
func SplitLines(block []byte) []string {
	var lines []string
	start := 0
	for i := 0; i < len(block); i++ {
		switch block[i] {
		case '\n':
			lines = append(lines, string(block[start:i]))
			start = i + 1
		case '\r':
			lines = append(lines, string(block[start:i]))
			if i+1 < len(block) && block[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	if start < len(block) {
		lines = append(lines, string(block[start:]))
	}
	return lines
}

// ProbeAccepted reports whether the last response line starts with "OK".
// This is the loose check used by the presence probe, where modules are
// known to pad the status line.
//
// ProbeAccepted and FinalOK are deliberately distinct; see FinalOK.
func ProbeAccepted(lines []string) bool {
	return len(lines) > 0 && strings.HasPrefix(lines[len(lines)-1], OK)
}

// FinalOK reports whether the last response line is exactly "OK". This
// is the strict check used by the carrier query and the text-mode
// command. It is historically stricter than ProbeAccepted and the two
// are kept separate rather than unified.
func FinalOK(lines []string) bool {
	return len(lines) > 0 && lines[len(lines)-1] == OK
}

// operatorLine is the fixed response line inspected for the no-operator
// marker. With the command echo and the blank separator the module
// emits, the marker lands on line 2 of a well-formed AT+COPS? response.
const operatorLine = 2

// Registered reports whether an AT+COPS? response (already validated
// with FinalOK) indicates carrier registration. The inspection is
// positional: only line index 2 is compared against NoOperator, and any
// other content there means registered. This is brittle to extra
// informational lines; a tolerant parser can replace this function
// without touching the state machine.
func Registered(lines []string) bool {
	if len(lines) <= operatorLine {
		return true
	}
	return lines[operatorLine] != NoOperator
}

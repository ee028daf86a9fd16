package at_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"i4.energy/across/fonagw/at"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Probe response with echo",
			input:    "AT\r\r\nOK\r\n",
			expected: []string{"AT", "", "OK"},
		},
		{
			name:     "Carrier query without operator",
			input:    "AT+COPS?\r\r\n+COPS: 0\r\n\r\nOK\r\n",
			expected: []string{"AT+COPS?", "", "+COPS: 0", "", "OK"},
		},
		{
			name:     "Carrier query with operator",
			input:    "AT+COPS?\r\r\n+COPS: 0,0,\"Proximus\"\r\n\r\nOK\r\n",
			expected: []string{"AT+COPS?", "", "+COPS: 0,0,\"Proximus\"", "", "OK"},
		},
		{
			name:     "Bare OK",
			input:    "OK\r\n",
			expected: []string{"OK"},
		},
		{
			name:     "No terminator on last line",
			input:    "AT\r\nOK",
			expected: []string{"AT", "OK"},
		},
		{
			name:     "Lone carriage returns",
			input:    "a\rb\nc\r\nd",
			expected: []string{"a", "b", "c", "d"},
		},
		{
			name:     "Empty block",
			input:    "",
			expected: nil,
		},
		{
			name:     "Only terminators",
			input:    "\r\n\r\n",
			expected: []string{"", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, at.SplitLines([]byte(tt.input)))
		})
	}
}

func TestProbeAcceptedVsFinalOK(t *testing.T) {
	tests := []struct {
		name    string
		lines   []string
		probe   bool
		finalOK bool
	}{
		{name: "Exact OK", lines: []string{"AT", "OK"}, probe: true, finalOK: true},
		{name: "Padded OK", lines: []string{"AT", "OK1"}, probe: true, finalOK: false},
		{name: "Trailing space", lines: []string{"AT", "OK "}, probe: true, finalOK: false},
		{name: "Error status", lines: []string{"AT", "ERROR"}, probe: false, finalOK: false},
		{name: "Empty response", lines: nil, probe: false, finalOK: false},
		{name: "Empty last line", lines: []string{"OK", ""}, probe: false, finalOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.probe, at.ProbeAccepted(tt.lines), "ProbeAccepted")
			assert.Equal(t, tt.finalOK, at.FinalOK(tt.lines), "FinalOK")
		})
	}
}

func TestRegistered(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		registered bool
	}{
		{
			name:       "No operator on line 2",
			lines:      []string{"AT+COPS?", "", "+COPS: 0", "", "OK"},
			registered: false,
		},
		{
			name:       "Operator present on line 2",
			lines:      []string{"AT+COPS?", "", "+COPS: 0,0,\"Proximus\"", "", "OK"},
			registered: true,
		},
		{
			// The inspection is strictly positional: when the response
			// arrives without blank separators the marker sits on line 1
			// and goes unnoticed.
			name:       "Marker off the inspected line",
			lines:      []string{"AT+COPS?", "+COPS: 0", "OK"},
			registered: true,
		},
		{
			name:       "Short response",
			lines:      []string{"OK"},
			registered: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.registered, at.Registered(tt.lines))
		})
	}
}

func TestCommandBuilders(t *testing.T) {
	assert.Equal(t, "AT+CPIN=4250", at.EnterPIN("4250"))
	assert.Equal(t, `AT+CMGS="+32470123456"`, at.Compose("+32470123456"))
}

package fona

// ScriptTransport is a Transport fake fed with canned response blocks.
// Each WriteLine records the command; each ReadLines pops the next
// scripted block, or returns nil once the script is exhausted (the
// module stayed silent). Exported for use in tests.
type ScriptTransport struct {
	// Commands collects every line written, in order.
	Commands []string

	responses  [][]string
	closeCalls int
}

// NewScriptTransport creates a scripted transport. Each responses
// element is the line set returned by one ReadLines call.
func NewScriptTransport(responses ...[]string) *ScriptTransport {
	return &ScriptTransport{responses: responses}
}

func (t *ScriptTransport) WriteLine(cmd string) error {
	t.Commands = append(t.Commands, cmd)
	return nil
}

func (t *ScriptTransport) ReadLines() ([]string, error) {
	if len(t.responses) == 0 {
		return nil, nil
	}
	lines := t.responses[0]
	t.responses = t.responses[1:]
	return lines, nil
}

func (t *ScriptTransport) Close() error {
	t.closeCalls++
	return nil
}

// CloseCalls reports how many times Close was invoked.
func (t *ScriptTransport) CloseCalls() int { return t.closeCalls }

// ScriptDialer hands out a fixed Transport or a fixed error. Exported
// for use in tests.
type ScriptDialer struct {
	Transport Transport
	Err       error

	// Dials collects the port/baud pairs requested.
	Dials []string
}

func (d *ScriptDialer) Dial(port string, baud int) (Transport, error) {
	d.Dials = append(d.Dials, port)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Transport, nil
}

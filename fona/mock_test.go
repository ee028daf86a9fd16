package fona_test

import (
	"i4.energy/across/fonagw/at"
	"i4.energy/across/fonagw/fona"
)

// MockSequenceBuilder assembles ordered transport expectations for the
// command exchanges a session performs. Response blocks mirror what a
// SIM800-class module actually emits: command echo, blank separator,
// payload, status line.
type MockSequenceBuilder struct {
	transport *fona.MockTransport
	calls     []any
}

func NewMockSequence(transport *fona.MockTransport) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		transport: transport,
		calls:     []any{},
	}
}

func (b *MockSequenceBuilder) exchange(cmd string, response []string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.transport.EXPECT().WriteLine(cmd).Return(nil),
		b.transport.EXPECT().ReadLines().Return(response, nil),
	)
	return b
}

func (b *MockSequenceBuilder) ProbeOK() *MockSequenceBuilder {
	return b.exchange(at.CmdProbe, []string{"AT", "", "OK"})
}

func (b *MockSequenceBuilder) ProbeSilent() *MockSequenceBuilder {
	return b.exchange(at.CmdProbe, nil)
}

func (b *MockSequenceBuilder) Registered() *MockSequenceBuilder {
	return b.exchange(at.CmdOperatorQuery, []string{"AT+COPS?", "", `+COPS: 0,0,"Proximus"`, "", "OK"})
}

func (b *MockSequenceBuilder) NotRegistered() *MockSequenceBuilder {
	return b.exchange(at.CmdOperatorQuery, []string{"AT+COPS?", "", "+COPS: 0", "", "OK"})
}

func (b *MockSequenceBuilder) OperatorQueryGarbled() *MockSequenceBuilder {
	return b.exchange(at.CmdOperatorQuery, []string{"AT+COPS?", "", "ERROR"})
}

func (b *MockSequenceBuilder) EnterPIN(pin string) *MockSequenceBuilder {
	return b.exchange(at.EnterPIN(pin), []string{at.EnterPIN(pin), "", "OK"})
}

func (b *MockSequenceBuilder) TextModeOK() *MockSequenceBuilder {
	return b.exchange(at.CmdTextMode, []string{"AT+CMGF=1", "", "OK"})
}

func (b *MockSequenceBuilder) TextModeRejected() *MockSequenceBuilder {
	return b.exchange(at.CmdTextMode, []string{"AT+CMGF=1", "", "ERROR"})
}

func (b *MockSequenceBuilder) Compose(phone string) *MockSequenceBuilder {
	return b.exchange(at.Compose(phone), []string{"> "})
}

func (b *MockSequenceBuilder) Body(message string) *MockSequenceBuilder {
	return b.exchange(message+at.CtrlZ, []string{"+CMGS: 12", "", "OK"})
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

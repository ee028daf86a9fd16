package at

import "fmt"

const (
	// Terminal Control
	CR    = "\r"
	CtrlZ = "\x1a" // end-of-message byte in TEXT mode

	// Response Codes
	OK = "OK"

	// NoOperator is the AT+COPS? payload the module reports while it is
	// not registered with any carrier.
	NoOperator = "+COPS: 0"

	// Commands
	CmdProbe         = "AT"        // presence probe
	CmdOperatorQuery = "AT+COPS?"  // carrier registration query
	CmdTextMode      = "AT+CMGF=1" // select TEXT mode (instead of PDU)
	CmdPowerDown     = "AT+CPOWD=1"
)

// EnterPIN builds the SIM PIN entry command.
func EnterPIN(pin string) string {
	return "AT+CPIN=" + pin
}

// Compose builds the SMS compose command for the given recipient. The
// message body follows as a separate request, terminated by CtrlZ.
func Compose(phone string) string {
	return fmt.Sprintf(`AT+CMGS="%s"`, phone)
}

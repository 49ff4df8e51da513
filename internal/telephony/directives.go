// Package telephony models the dialog directives the controller sends back
// to the telephony gateway and renders them into TwiML-style markup.
package telephony

// Directive is one spoken-dialog instruction for the gateway.
type Directive interface {
	directive()
}

// Say speaks text to the caller.
type Say struct {
	Text string
}

// Pause waits the given number of seconds.
type Pause struct {
	Seconds int
}

// Listen gathers the caller's next speech input and posts the recognized
// text to Action.
type Listen struct {
	Action     string
	TimeoutSec int
}

// Hangup ends the call.
type Hangup struct{}

func (Say) directive()    {}
func (Pause) directive()  {}
func (Listen) directive() {}
func (Hangup) directive() {}

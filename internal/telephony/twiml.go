package telephony

import (
	"encoding/xml"
	"fmt"
)

const (
	voiceName    = "alice"
	voiceLang    = "en-US"
	gatherMethod = "POST"
)

type sayVerb struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr"`
	Language string   `xml:"language,attr"`
	Text     string   `xml:",chardata"`
}

type pauseVerb struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr"`
}

type gatherVerb struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	Timeout       int      `xml:"timeout,attr"`
	SpeechTimeout string   `xml:"speechTimeout,attr"`
}

type hangupVerb struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// Render converts directives into the gateway's TwiML markup.
func Render(directives []Directive) ([]byte, error) {
	resp := twimlResponse{}
	for _, d := range directives {
		switch v := d.(type) {
		case Say:
			resp.Verbs = append(resp.Verbs, sayVerb{Voice: voiceName, Language: voiceLang, Text: v.Text})
		case Pause:
			resp.Verbs = append(resp.Verbs, pauseVerb{Length: v.Seconds})
		case Listen:
			resp.Verbs = append(resp.Verbs, gatherVerb{
				Input:         "speech",
				Action:        v.Action,
				Method:        gatherMethod,
				Timeout:       v.TimeoutSec,
				SpeechTimeout: "auto",
			})
		case Hangup:
			resp.Verbs = append(resp.Verbs, hangupVerb{})
		default:
			return nil, fmt.Errorf("unsupported directive %T", d)
		}
	}

	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("render twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}

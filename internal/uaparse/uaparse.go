package uaparse

import (
	"github.com/ua-parser/uap-go/uaparser"
)

// Info is the parsed shape of a user-agent string. Any field may be empty.
type Info struct {
	DeviceFamily   string
	BrowserFamily  string
	BrowserVersion string
	OSFamily       string
	OSVersion      string
}

// Parser turns a raw user-agent header into an Info
type Parser interface {
	Parse(userAgent string) Info
}

type uapParser struct {
	parser *uaparser.Parser
}

// NewParser creates a parser backed by the bundled uap-core regex set
func NewParser() Parser {
	return &uapParser{parser: uaparser.NewFromSaved()}
}

func (p *uapParser) Parse(userAgent string) Info {
	client := p.parser.Parse(userAgent)

	info := Info{}
	if client.Device != nil {
		info.DeviceFamily = client.Device.Family
	}
	if client.UserAgent != nil {
		info.BrowserFamily = client.UserAgent.Family
		info.BrowserVersion = client.UserAgent.Major
	}
	if client.Os != nil {
		info.OSFamily = client.Os.Family
		info.OSVersion = client.Os.Major
	}
	return info
}

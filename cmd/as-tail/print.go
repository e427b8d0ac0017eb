package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/kabili207/asakusa-tools/pkg/models"
)

const printTimeLayout = "2006-01-02 15:04:05"

type resolver interface {
	ResolveURL(ref string) (*url.URL, error)
}

type printer struct {
	w       io.Writer
	urls    resolver
	asJSON  bool
	encoder *json.Encoder
}

func newPrinter(w io.Writer, urls resolver, asJSON bool) *printer {
	return &printer{w: w, urls: urls, asJSON: asJSON, encoder: json.NewEncoder(w)}
}

func (p *printer) Print(msg models.Message) error {
	if p.asJSON {
		return p.encoder.Encode(msg)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s\n", msg.CreatedAt.Local().Format(printTimeLayout), msg.ScreenName, msg.Body)
	for _, a := range msg.Attachments {
		link := a.URL
		if u, err := p.urls.ResolveURL(a.URL); err == nil {
			link = u.String()
		}
		fmt.Fprintf(&b, "    %s <%s>\n", a.Filename, link)
	}

	_, err := io.WriteString(p.w, b.String())
	return err
}

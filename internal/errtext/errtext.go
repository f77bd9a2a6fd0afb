// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errtext derives a human-readable message from a failed response.
//
// Extraction is an ordered list of strategies, each pairing a predicate on the
// response with an extractor. The first strategy that matches and yields a
// non-empty message wins; when none does, the trimmed body is returned as is.
// Malformed bodies never produce an error, only a debug log line.
package errtext

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strings"

	"adtbridge/cli/internal/logging"
	"adtbridge/cli/internal/transport"

	"github.com/PuerkitoBio/goquery"
	"github.com/pterm/pterm"
)

// htmlSelectors are tried in order; errorTextHeader is used by the legacy ICF error page.
var htmlSelectors = []string{"h1", ".errorTextHeader"}

// Result is the extracted message.
type Result struct {
	Message string
	// Meaningful is true when the message came from a structured node rather than the raw body.
	Meaningful bool
	// Source names the strategy that produced the message ("json", "html", "xml" or "body").
	Source string
}

// Title returns the remote message when it is meaningful, otherwise fallback.
func (r Result) Title(fallback string) string {
	if r.Meaningful && r.Message != "" {
		return r.Message
	}
	return fallback
}

type strategy struct {
	name    string
	match   func(contentType string, body []byte) bool
	extract func(body []byte) (string, error)
}

var strategies = []strategy{
	{name: "json", match: isJSON, extract: fromJSON},
	{name: "html", match: isHTML, extract: fromHTML},
	{name: "xml", match: isXML, extract: fromXML},
}

// Extract returns the best message for resp. It is a pure function of the response.
func Extract(resp *transport.Response, logger *pterm.Logger) Result {
	if resp == nil {
		return Result{Source: "body"}
	}
	logger = logging.OrNop(logger)
	body := bytes.TrimSpace(resp.Body)
	ct := strings.ToLower(resp.ContentType())

	for _, s := range strategies {
		if !s.match(ct, body) {
			continue
		}
		msg, err := s.extract(body)
		if err != nil {
			logger.Debug("error text extraction failed", logger.Args("strategy", s.name, "error", err.Error()))
			continue
		}
		if msg = collapse(msg); msg != "" {
			return Result{Message: msg, Meaningful: true, Source: s.name}
		}
	}

	msg := string(body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return Result{Message: msg, Source: "body"}
}

// Message is a shorthand for Extract(resp, nil).Message.
func Message(resp *transport.Response) string {
	return Extract(resp, nil).Message
}

func hasPrefixFold(body []byte, prefix string) bool {
	return len(body) >= len(prefix) && strings.EqualFold(string(body[:len(prefix)]), prefix)
}

func generic(ct string) bool {
	return ct == "" || strings.HasPrefix(ct, "text/plain") || strings.HasPrefix(ct, "application/octet-stream")
}

func isJSON(ct string, body []byte) bool {
	if strings.Contains(ct, "json") {
		return true
	}
	return generic(ct) && len(body) > 0 && body[0] == '{'
}

func isHTML(ct string, body []byte) bool {
	if strings.Contains(ct, "html") {
		return true
	}
	return hasPrefixFold(body, "<html") || hasPrefixFold(body, "<!doctype html")
}

func isXML(ct string, body []byte) bool {
	if strings.Contains(ct, "xml") && !strings.Contains(ct, "html") {
		return true
	}
	return hasPrefixFold(body, "<?xml")
}

type odataError struct {
	Error struct {
		Message struct {
			Value string `json:"value"`
		} `json:"message"`
	} `json:"error"`
}

func fromJSON(body []byte) (string, error) {
	var env odataError
	if err := json.Unmarshal(body, &env); err != nil {
		return "", err
	}
	return env.Error.Message.Value, nil
}

func fromHTML(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	for _, sel := range htmlSelectors {
		var found string
		doc.Find(sel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			found = strings.TrimSpace(s.Text())
			return found == ""
		})
		if found != "" {
			return found, nil
		}
	}
	return "", nil
}

// fromXML returns the text of the first element named message, in any namespace.
func fromXML(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))
	dec.Strict = false
	depth := 0
	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			if depth > 0 {
				return sb.String(), nil
			}
			return "", nil
		}
		if err != nil {
			if depth > 0 && sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth > 0 {
				depth++
			} else if t.Name.Local == "message" {
				depth = 1
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				if depth == 0 {
					return sb.String(), nil
				}
			}
		case xml.CharData:
			if depth > 0 {
				sb.Write(t)
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

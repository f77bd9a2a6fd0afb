// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package errtext

import (
	"net/http"
	"testing"

	"adtbridge/cli/internal/transport"
)

func response(status int, ct, body string) *transport.Response {
	h := http.Header{}
	if ct != "" {
		h.Set("Content-Type", ct)
	}
	return &transport.Response{StatusCode: status, Header: h, Body: []byte(body)}
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		resp       *transport.Response
		want       string
		meaningful bool
		source     string
	}{
		{
			name:       "json envelope",
			resp:       response(400, "application/json", `{"error":{"code":"X","message":{"lang":"en","value":"Table ZFOO unknown"}}}`),
			want:       "Table ZFOO unknown",
			meaningful: true,
			source:     "json",
		},
		{
			name:       "json sniffed without content type",
			resp:       response(400, "", `{"error":{"message":{"value":"bad"}}}`),
			want:       "bad",
			meaningful: true,
			source:     "json",
		},
		{
			name:   "json without envelope falls back to body",
			resp:   response(500, "application/json", `{"status":"down"}`),
			want:   `{"status":"down"}`,
			source: "body",
		},
		{
			name:       "html heading",
			resp:       response(401, "text/html", "<html><head><title>Logon</title></head><body><h1>Logon failed</h1></body></html>"),
			want:       "Logon failed",
			meaningful: true,
			source:     "html",
		},
		{
			name:       "html legacy error header",
			resp:       response(500, "", "<HTML><body><span class=\"errorTextHeader\">  500 SAP Internal\n Server Error </span></body></HTML>"),
			want:       "500 SAP Internal Server Error",
			meaningful: true,
			source:     "html",
		},
		{
			name:       "xml message",
			resp:       response(400, "application/xml", `<?xml version="1.0" encoding="utf-8"?><exc:exception xmlns:exc="http://www.sap.com/abapxml/types/communicationframework"><namespace id="com.sap.adt"/><type id="ExceptionResourceFailure"/><message lang="EN">"ZFOO" is not defined in the ABAP Dictionary</message></exc:exception>`),
			want:       `"ZFOO" is not defined in the ABAP Dictionary`,
			meaningful: true,
			source:     "xml",
		},
		{
			name:       "xml sniffed by prolog",
			resp:       response(400, "text/plain", `<?xml version="1.0"?><error><message>Syntax error</message></error>`),
			want:       "Syntax error",
			meaningful: true,
			source:     "xml",
		},
		{
			name:   "malformed xml falls back",
			resp:   response(400, "application/xml", "<?xml version=\"1.0\"?><error><mess"),
			want:   "<?xml version=\"1.0\"?><error><mess",
			source: "body",
		},
		{
			name:   "plain text",
			resp:   response(403, "text/plain", "  CSRF token validation failed \n"),
			want:   "CSRF token validation failed",
			source: "body",
		},
		{
			name:   "empty body uses status text",
			resp:   response(502, "", ""),
			want:   "Bad Gateway",
			source: "body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.resp, nil)
			if got.Message != tt.want {
				t.Errorf("Message = %q, want %q", got.Message, tt.want)
			}
			if got.Meaningful != tt.meaningful {
				t.Errorf("Meaningful = %v, want %v", got.Meaningful, tt.meaningful)
			}
			if got.Source != tt.source {
				t.Errorf("Source = %q, want %q", got.Source, tt.source)
			}
		})
	}
}

func TestExtractIdempotent(t *testing.T) {
	resps := []*transport.Response{
		response(401, "text/html", "<html><body><h1>Unauthorized</h1></body></html>"),
		response(400, "", "{broken json"),
		response(400, "application/xml", "<?xml version=\"1.0\"?><message>m</message>"),
	}
	for _, r := range resps {
		first := Extract(r, nil)
		second := Extract(r, nil)
		if first != second {
			t.Errorf("Extract() not idempotent: %+v vs %+v", first, second)
		}
	}
}

func TestExtractNil(t *testing.T) {
	if got := Extract(nil, nil); got.Message != "" || got.Meaningful {
		t.Errorf("Extract(nil) = %+v", got)
	}
}

func TestTitle(t *testing.T) {
	if got := (Result{Message: "remote", Meaningful: true}).Title("local"); got != "remote" {
		t.Errorf("Title() = %q", got)
	}
	if got := (Result{Message: "raw body"}).Title("local"); got != "local" {
		t.Errorf("Title() = %q", got)
	}
}

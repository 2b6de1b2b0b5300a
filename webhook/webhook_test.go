package webhook

import (
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeliverSignsBody(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Simbadesk-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	event := &Event{
		Type:      EventTicketScraped,
		TicketID:  "SIMBA-0001",
		Timestamp: 1700000000,
		Data:      map[string]string{"title": "hello"},
	}
	if err := Deliver(context.Background(), srv.URL, "topsecret", event); err != nil {
		t.Fatalf("Deliver: %v", err)
	}

	if !strings.HasPrefix(gotSig, "sha256=") {
		t.Fatalf("missing signature prefix: %q", gotSig)
	}
	want := Sign(gotBody, "topsecret")
	if !hmac.Equal([]byte(strings.TrimPrefix(gotSig, "sha256=")), []byte(want)) {
		t.Error("signature does not verify against delivered body")
	}

	var decoded Event
	if err := json.Unmarshal(gotBody, &decoded); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if decoded.Type != EventTicketScraped || decoded.TicketID != "SIMBA-0001" {
		t.Errorf("unexpected event %+v", decoded)
	}
}

func TestDeliverWithoutSecretOmitsSignature(t *testing.T) {
	var gotSig string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Simbadesk-Signature")
	}))
	defer srv.Close()

	if err := Deliver(context.Background(), srv.URL, "", &Event{Type: EventTicketScraped}); err != nil {
		t.Fatalf("Deliver: %v", err)
	}
	if gotSig != "" {
		t.Errorf("signature should be absent without a secret, got %q", gotSig)
	}
}

func TestDeliverErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := Deliver(context.Background(), srv.URL, "", &Event{Type: EventTicketScraped})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("status missing from error: %v", err)
	}
}

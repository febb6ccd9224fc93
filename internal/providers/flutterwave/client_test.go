package flutterwave

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func TestClientListBanksRequest(t *testing.T) {
	const expectedURL = "http://flutterwave.test/v3/banks/KE"
	respBody := `{"status":"success","message":"Banks fetched successfully","data":[{"id":1,"code":"044","name":"Access Bank"}]}`

	var capturedURL string
	var capturedAuth string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(respBody)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("FLWSECK_TEST-x", WithBaseURL("http://flutterwave.test/v3"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	banks, err := client.ListBanks(context.Background(), "ke")
	if err != nil {
		t.Fatalf("list banks: %v", err)
	}
	if capturedURL != expectedURL {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "Bearer FLWSECK_TEST-x" {
		t.Fatalf("unexpected authorization %q", capturedAuth)
	}
	if len(banks) != 1 || banks[0].Name != "Access Bank" || banks[0].Country != "KE" {
		t.Fatalf("unexpected banks %+v", banks)
	}
}

func TestClientListBanksErrorStatus(t *testing.T) {
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(`{"status":"error","message":"No banks found"}`)),
			Header:     http.Header{},
		}, nil
	})

	client, err := NewClient("FLWSECK_TEST-x", WithBaseURL("http://flutterwave.test/v3"), WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.ListBanks(context.Background(), "XX"); err == nil {
		t.Fatal("expected error for rejected request")
	}
}

func TestClientListBanksRequiresCountry(t *testing.T) {
	client, err := NewClient("FLWSECK_TEST-x")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListBanks(context.Background(), "  "); err == nil {
		t.Fatal("expected error for empty country")
	}
}

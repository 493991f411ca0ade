// Copyright (c) 2024-2025 UniHub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendMessageSuccess(t *testing.T) {
	var gotReq ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/chat" {
			t.Errorf("path = %s, want /chat", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "МФТИ — лучший выбор для физики."})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	history := []HistoryMessage{
		{Role: "user", Content: "Привет"},
		{Role: "assistant", Content: "Здравствуйте!"},
	}
	reply, err := client.SendMessage(context.Background(), "Куда поступать на физику?", history)
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if reply != "МФТИ — лучший выбор для физики." {
		t.Errorf("reply = %q", reply)
	}
	if gotReq.Message != "Куда поступать на физику?" {
		t.Errorf("request message = %q", gotReq.Message)
	}
	if len(gotReq.ChatHistory) != 2 {
		t.Fatalf("history length = %d, want 2", len(gotReq.ChatHistory))
	}
	if gotReq.ChatHistory[0].Role != "user" || gotReq.ChatHistory[1].Role != "assistant" {
		t.Errorf("history roles = %q, %q", gotReq.ChatHistory[0].Role, gotReq.ChatHistory[1].Role)
	}
}

func TestSendMessageNilHistoryMarshalsAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{Response: "ok"})
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).SendMessage(context.Background(), "hi", nil); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if string(raw["chat_history"]) != "[]" {
		t.Errorf("chat_history = %s, want []", raw["chat_history"])
	}
}

func TestSendMessageGatewayError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"detail body", http.StatusInternalServerError, `{"detail":"agent overloaded"}`, "agent overloaded"},
		{"plain body", http.StatusBadGateway, "upstream timeout", "Bad Gateway"},
		{"empty body", http.StatusServiceUnavailable, "", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL).SendMessage(context.Background(), "hi", nil)
			var gerr *GatewayError
			if !errors.As(err, &gerr) {
				t.Fatalf("error = %v, want *GatewayError", err)
			}
			if gerr.Status != tt.status {
				t.Errorf("status = %d, want %d", gerr.Status, tt.status)
			}
			if gerr.Detail != tt.wantDetail {
				t.Errorf("detail = %q, want %q", gerr.Detail, tt.wantDetail)
			}
			if !IsGatewayError(err) {
				t.Error("IsGatewayError() = false")
			}
			if IsNetworkError(err) {
				t.Error("IsNetworkError() = true for gateway error")
			}
		})
	}
}

func TestSendMessageNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately, so the port refuses connections

	_, err := NewClient(srv.URL).SendMessage(context.Background(), "hi", nil)
	if !IsNetworkError(err) {
		t.Fatalf("error = %v, want network error", err)
	}
	if IsGatewayError(err) {
		t.Error("IsGatewayError() = true for network error")
	}
}

func TestSendMessageEmptyReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{Response: ""})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SendMessage(context.Background(), "hi", nil)
	if !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("error = %v, want ErrEmptyReply", err)
	}
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("")
	if c.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}
	c = NewClient("http://example.com/api/")
	if c.BaseURL() != "http://example.com/api" {
		t.Errorf("BaseURL() = %q, trailing slash should be trimmed", c.BaseURL())
	}
}

func TestGatewayErrorString(t *testing.T) {
	e := &GatewayError{Status: 500, Detail: "boom"}
	if got := e.Error(); got != "assistant error (HTTP 500): boom" {
		t.Errorf("Error() = %q", got)
	}
	e = &GatewayError{Status: 502}
	if got := e.Error(); got != "assistant error (HTTP 502)" {
		t.Errorf("Error() = %q", got)
	}
}

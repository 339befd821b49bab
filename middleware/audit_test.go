package middleware

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCaptureFormDataRedactsPasswords(t *testing.T) {
	form := strings.NewReader("username=jdoe&password=supersecret&new_password=alsosecret")
	req := httptest.NewRequest("POST", "/login", form)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	data := captureFormData(req)

	if !strings.Contains(data, `"username":"jdoe"`) {
		t.Errorf("Expected username in captured form data, got %s", data)
	}
	if strings.Contains(data, "supersecret") || strings.Contains(data, "alsosecret") {
		t.Errorf("Password values must be redacted, got %s", data)
	}
	if !strings.Contains(data, "[redacted]") {
		t.Errorf("Expected redaction marker, got %s", data)
	}
}

func TestCaptureFormDataEmptyForm(t *testing.T) {
	req := httptest.NewRequest("DELETE", "/api/districts/1", nil)

	if data := captureFormData(req); data != "" {
		t.Errorf("Expected empty string for bodyless request, got %s", data)
	}
}

func TestGetIPAddress(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.5:54321"
	if ip := getIPAddress(req); ip != "10.0.0.5" {
		t.Errorf("Expected 10.0.0.5, got %s", ip)
	}

	req.Header.Set("X-Real-IP", "192.168.1.9")
	if ip := getIPAddress(req); ip != "192.168.1.9" {
		t.Errorf("Expected X-Real-IP to win over RemoteAddr, got %s", ip)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if ip := getIPAddress(req); ip != "203.0.113.7" {
		t.Errorf("Expected first X-Forwarded-For hop, got %s", ip)
	}
}

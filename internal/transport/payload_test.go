package transport

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestNewPayload(t *testing.T) {
	data := []byte{0xFF, 0xD8, 0x00, 0x10, 0xFF, 0xD9}
	p := NewPayload(data)

	if p.Image != "/9gAEP/Z" {
		t.Errorf("Image: got %q, want %q", p.Image, "/9gAEP/Z")
	}

	got, err := p.ImageBytes()
	if err != nil {
		t.Fatalf("ImageBytes failed: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("ImageBytes: got %v, want %v", got, data)
	}
}

func TestPayload_Marshal(t *testing.T) {
	body, err := NewPayload([]byte("abc")).Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(body) != `{"image":"YWJj"}` {
		t.Errorf("Marshal: got %s", body)
	}

	// Exactly one field on the wire
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(fields) != 1 {
		t.Errorf("field count: got %d, want 1", len(fields))
	}
}

func TestParsePayload(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    string
		wantErr bool
	}{
		{"valid", `{"image":"YWJj"}`, "YWJj", false},
		{"extra whitespace", ` { "image" : "" } `, "", false},
		{"not json", `image=abc`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParsePayload([]byte(tt.body))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePayload() error = %v, wantErr %v", err, tt.wantErr)
			}
			if p.Image != tt.want {
				t.Errorf("Image: got %q, want %q", p.Image, tt.want)
			}
		})
	}
}

func TestPayload_ImageBytes_Invalid(t *testing.T) {
	if _, err := (Payload{Image: "%%%"}).ImageBytes(); err == nil {
		t.Error("ImageBytes should fail for invalid base64")
	}
}

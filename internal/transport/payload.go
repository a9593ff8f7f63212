package transport

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Payload is the JSON document carried by the datagram.
type Payload struct {
	// Image is the standard, padded Base64 encoding of a JPEG byte stream.
	Image string `json:"image"`
}

// NewPayload wraps encoded image bytes in a Payload.
func NewPayload(jpegData []byte) Payload {
	return Payload{Image: base64.StdEncoding.EncodeToString(jpegData)}
}

// Marshal returns the compact JSON form of the payload.
func (p Payload) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// ImageBytes decodes the Base64 image field.
func (p Payload) ImageBytes() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(p.Image)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image field: %w", err)
	}
	return data, nil
}

// ParsePayload decodes a datagram body back into a Payload.
func ParsePayload(data []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return Payload{}, fmt.Errorf("failed to parse payload: %w", err)
	}
	return p, nil
}

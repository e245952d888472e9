package signal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// OCRClient talks to a text-recognition sidecar over HTTP. The service
// wraps the actual OCR engine; this client only ships bytes and reads text.
type OCRClient struct {
	Base string
	Http *http.Client
}

// NewOCRClient targets the sidecar at base (e.g. http://localhost:8090).
func NewOCRClient(base string) *OCRClient {
	return &OCRClient{
		Base: strings.TrimSuffix(base, "/"),
		Http: &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize posts the raw image and returns whatever text the engine found.
func (o *OCRClient) Recognize(ctx context.Context, image []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.Base+"/recognize", bytes.NewReader(image))
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := o.Http.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ocr status %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return out.Text, nil
}

package flush

import (
	"bytes"
	"encoding/json"
	"fmt"

	"sqs-flush/internal/domain/model"

	"github.com/klauspost/compress/gzip"
)

const (
	rawExtension    = "json"
	rawContentType  = "application/json"
	gzipExtension   = "json.gz"
	gzipContentType = "application/x-gzip"
)

// envelope is the notification wrapper the producers publish through
type envelope struct {
	Message *string `json:"Message"`
}

// ExtractPayload returns the Message field of a JSON envelope body
func ExtractPayload(body string) (string, error) {
	var env envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrMalformedEnvelope, err)
	}
	if env.Message == nil {
		return "", fmt.Errorf("%w: missing Message field", model.ErrMalformedEnvelope)
	}
	return *env.Message, nil
}

// PayloadCodec turns a payload into object bytes, raw or gzip compressed
type PayloadCodec struct {
	compress bool
}

func NewPayloadCodec(compress bool) PayloadCodec {
	return PayloadCodec{compress: compress}
}

func (c PayloadCodec) Compressed() bool {
	return c.compress
}

func (c PayloadCodec) Extension() string {
	if c.compress {
		return gzipExtension
	}
	return rawExtension
}

func (c PayloadCodec) ContentType() string {
	if c.compress {
		return gzipContentType
	}
	return rawContentType
}

// Encode compresses the whole payload in one shot when compression is on
func (c PayloadCodec) Encode(payload string) ([]byte, error) {
	if !c.compress {
		return []byte(payload), nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(payload)); err != nil {
		return nil, fmt.Errorf("%w: failed to compress payload: %w", model.ErrPayloadEncode, err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("%w: failed to compress payload: %w", model.ErrPayloadEncode, err)
	}
	return buf.Bytes(), nil
}

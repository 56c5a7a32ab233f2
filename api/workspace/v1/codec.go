package workspacev1

import (
	"fmt"

	"github.com/goccy/go-json"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype for the messages in this package ("application/grpc+json").
// Clients select it with grpc.CallContentSubtype(CodecName).
const CodecName = "json"

func init() {
	encoding.RegisterCodec(Codec{})
}

// Codec marshals gRPC messages as JSON.
type Codec struct{}

// Marshal encodes v as JSON.
func (Codec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s codec: marshal %T: %w", CodecName, v, err)
	}
	return b, nil
}

// Unmarshal decodes data into v. Empty payloads leave v at its zero value.
func (Codec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s codec: unmarshal %T: %w", CodecName, v, err)
	}
	return nil
}

// Name returns CodecName.
func (Codec) Name() string {
	return CodecName
}

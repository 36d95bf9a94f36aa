package engine

import (
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/bianoble/docsync/internal/syncerr"
)

// codec converts between file bytes and text. A nil encoding means UTF-8,
// where bytes are used as is.
type codec struct {
	name string
	enc  encoding.Encoding
}

func newCodec(name string) (codec, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultEncoding
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return codec{}, syncerr.New(syncerr.KindValidation, "unsupported encoding '%s'", name)
	}
	canonical, err := htmlindex.Name(enc)
	if err == nil && canonical == DefaultEncoding {
		return codec{name: DefaultEncoding}, nil
	}
	return codec{name: name, enc: enc}, nil
}

func (c codec) decode(data []byte) (string, error) {
	if c.enc == nil {
		return string(data), nil
	}
	out, err := c.enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", syncerr.Wrap(syncerr.KindValidation, err, "decoding %s text", c.name)
	}
	return string(out), nil
}

func (c codec) encode(text string) ([]byte, error) {
	if c.enc == nil {
		return []byte(text), nil
	}
	out, err := c.enc.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return nil, syncerr.Wrap(syncerr.KindValidation, err, "encoding %s text", c.name)
	}
	return out, nil
}

package core

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"

	"github.com/pkg/errors"
)

type payloadPart struct {
	key   string
	value string
	file  *File
}

// Payload is an ordered multipart form. Set replaces an existing key in place,
// Append always adds a new part.
type Payload struct {
	parts []payloadPart
}

func NewPayload() *Payload {
	return &Payload{}
}

func (p *Payload) index(key string) int {
	for i, part := range p.parts {
		if part.key == key {
			return i
		}
	}
	return -1
}

func (p *Payload) set(part payloadPart) {
	if i := p.index(part.key); i >= 0 {
		p.parts[i] = part
		// drop any other part that shared the key
		kept := p.parts[:i+1]
		for _, other := range p.parts[i+1:] {
			if other.key != part.key {
				kept = append(kept, other)
			}
		}
		p.parts = kept
		return
	}
	p.parts = append(p.parts, part)
}

func (p *Payload) Set(key, value string) {
	p.set(payloadPart{key: key, value: value})
}

func (p *Payload) SetFile(key string, f *File) {
	p.set(payloadPart{key: key, file: f})
}

func (p *Payload) Append(key, value string) {
	p.parts = append(p.parts, payloadPart{key: key, value: value})
}

func (p *Payload) AppendFile(key string, f *File) {
	p.parts = append(p.parts, payloadPart{key: key, file: f})
}

func (p *Payload) Has(key string) bool {
	return p.index(key) >= 0
}

// Get returns the text value of key; files are reported as absent.
func (p *Payload) Get(key string) (string, bool) {
	if i := p.index(key); i >= 0 && p.parts[i].file == nil {
		return p.parts[i].value, true
	}
	return "", false
}

func (p *Payload) File(key string) (*File, bool) {
	if i := p.index(key); i >= 0 && p.parts[i].file != nil {
		return p.parts[i].file, true
	}
	return nil, false
}

// Keys lists the part names in insertion order.
func (p *Payload) Keys() []string {
	keys := make([]string, 0, len(p.parts))
	for _, part := range p.parts {
		keys = append(keys, part.key)
	}
	return keys
}

func (p *Payload) Len() int { return len(p.parts) }

// Encode writes the payload as multipart/form-data.
func (p *Payload) Encode() (body []byte, contentType string, err error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, part := range p.parts {
		if part.file == nil {
			if err = w.WriteField(part.key, part.value); err != nil {
				return nil, "", errors.Wrapf(err, "writing field %q", part.key)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			escapeQuotes(part.key), escapeQuotes(part.file.Name)))
		ct := part.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		fw, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrapf(err, "creating file part %q", part.key)
		}
		if _, err = fw.Write(part.file.Data); err != nil {
			return nil, "", errors.Wrapf(err, "writing file part %q", part.key)
		}
	}
	if err = w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing multipart writer")
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

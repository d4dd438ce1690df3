package gateway

import (
	"encoding/base64"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// decodeMedia accepts raw standard base64 or a data URL and returns the
// decoded bytes with the mime type declared by the data URL, if any.
func decodeMedia(field, raw string) ([]byte, string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, "", invalid("%s is required", field)
	}

	var declared string
	if strings.HasPrefix(payload, "data:") {
		header, body, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", invalid("%s is not a base64 data URL", field)
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = body
	}
	payload = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, payload)

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		return nil, "", invalid("%s is not valid base64", field)
	}
	if len(data) == 0 {
		return nil, "", invalid("%s is empty", field)
	}
	return data, declared, nil
}

// sniffMIME detects a media type from content, without parameters.
func sniffMIME(data []byte) string {
	return baseMIME(mimetype.Detect(data).String())
}

func baseMIME(value string) string {
	mt, _, _ := strings.Cut(value, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// mediaType prefers the declared type and falls back to sniffing.
func mediaType(declared string, data []byte) string {
	if mt := baseMIME(declared); mt != "" {
		return mt
	}
	return sniffMIME(data)
}

func encodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

func dataURL(mime string, data []byte) string {
	return "data:" + mime + ";base64," + encodeBase64(data)
}

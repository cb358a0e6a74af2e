package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrCorruptRecord is returned when a stored record is not a JSON object.
var ErrCorruptRecord = errors.New("corrupt settings record")

// Persisted field names. They match the records written by earlier versions
// of the form so old saved designs keep loading.
const (
	fieldURL             = "url"
	fieldTheme           = "theme"
	fieldAccentColor     = "accentColor"
	fieldBgOpacity       = "bgOpacity"
	fieldQRSize          = "qrSize"
	fieldQuietZone       = "qrQuietZone"
	fieldPixelRounding   = "qrPixelRounding"
	fieldForeground      = "qrColor1"
	fieldBackground      = "qrBgColor"
	fieldTransparentBg   = "qrTransparentBg"
	fieldLogoSizePercent = "logoSize"
	fieldLogoSource      = "logoSrc"
)

type record struct {
	URL             string `json:"url"`
	Theme           string `json:"theme"`
	AccentColor     string `json:"accentColor"`
	BgOpacity       string `json:"bgOpacity"`
	QRSize          string `json:"qrSize"`
	QRQuietZone     string `json:"qrQuietZone"`
	QRPixelRounding string `json:"qrPixelRounding"`
	QRColor1        string `json:"qrColor1"`
	QRBgColor       string `json:"qrBgColor"`
	QRTransparentBg bool   `json:"qrTransparentBg"`
	LogoSize        string `json:"logoSize"`
	LogoSrc         string `json:"logoSrc"`
}

// MarshalRecord encodes the full settings record. Numeric fields are written
// as strings, the way form values were always stored.
func MarshalRecord(s Settings) ([]byte, error) {
	r := record{
		URL:             s.URL,
		Theme:           string(s.Theme),
		AccentColor:     s.AccentColor,
		BgOpacity:       strconv.FormatFloat(s.BackgroundOpacity, 'f', -1, 64),
		QRSize:          strconv.Itoa(s.QRSize),
		QRQuietZone:     strconv.Itoa(s.QuietZone),
		QRPixelRounding: strconv.Itoa(s.CornerRoundingPercent),
		QRColor1:        s.ForegroundColor,
		QRBgColor:       s.BackgroundColor,
		QRTransparentBg: s.TransparentBackground,
		LogoSize:        strconv.Itoa(s.LogoSizePercent),
		LogoSrc:         s.LogoImageData,
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshal settings record: %w", err)
	}
	return b, nil
}

// UnmarshalRecord decodes a stored record. Each missing, empty or unparsable
// field takes its default; only a payload that is not a JSON object fails.
func UnmarshalRecord(data []byte) (Settings, error) {
	var fields map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	err := dec.Decode(&fields)
	switch {
	case err != nil:
	case fields == nil:
		err = errors.New("null record")
	case dec.Decode(&json.RawMessage{}) != io.EOF:
		err = errors.New("trailing data after record")
	}
	if err != nil {
		return Defaults(), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}

	def := Defaults()
	s := Settings{
		URL:                   stringField(fields, fieldURL, ""),
		Theme:                 ParseTheme(stringField(fields, fieldTheme, string(def.Theme))),
		AccentColor:           stringField(fields, fieldAccentColor, def.AccentColor),
		BackgroundOpacity:     floatField(fields, fieldBgOpacity, def.BackgroundOpacity),
		QRSize:                intField(fields, fieldQRSize, def.QRSize),
		QuietZone:             intField(fields, fieldQuietZone, def.QuietZone),
		CornerRoundingPercent: intField(fields, fieldPixelRounding, def.CornerRoundingPercent),
		ForegroundColor:       stringField(fields, fieldForeground, def.ForegroundColor),
		BackgroundColor:       stringField(fields, fieldBackground, def.BackgroundColor),
		TransparentBackground: boolField(fields, fieldTransparentBg, false),
		LogoSizePercent:       intField(fields, fieldLogoSizePercent, def.LogoSizePercent),
		LogoImageData:         stringField(fields, fieldLogoSource, ""),
	}
	return s.Normalize(), nil
}

// scalar returns the field as text, unwrapping JSON strings and numbers.
func scalar(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		return t, t != ""
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func stringField(fields map[string]json.RawMessage, key, def string) string {
	if v, ok := scalar(fields, key); ok {
		return v
	}
	return def
}

func intField(fields map[string]json.RawMessage, key string, def int) int {
	v, ok := scalar(fields, key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatField(fields map[string]json.RawMessage, key string, def float64) float64 {
	v, ok := scalar(fields, key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func boolField(fields map[string]json.RawMessage, key string, def bool) bool {
	v, ok := scalar(fields, key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/klauspost/compress/flate"
)

// plantUMLEncoding is base64 over the PlantUML server alphabet, unpadded.
var plantUMLEncoding = base64.NewEncoding(
	"0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_",
).WithPadding(base64.NoPadding)

// EncodePlantUML compresses text the way PlantUML servers expect in a
// diagram URL: raw deflate at best compression, then PlantUML's base64
// alphabet.
func EncodePlantUML(text string) (string, error) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("creating deflate writer: %w", err)
	}
	if _, err := fw.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("compressing diagram: %w", err)
	}
	if err := fw.Close(); err != nil {
		return "", fmt.Errorf("compressing diagram: %w", err)
	}
	return plantUMLEncoding.EncodeToString(buf.Bytes()), nil
}

// PreviewURL returns the PNG URL for text on a PlantUML server such as
// "https://www.plantuml.com/plantuml".
func PreviewURL(server, text string) (string, error) {
	encoded, err := EncodePlantUML(text)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(server, "/") + "/png/" + encoded, nil
}

package mock

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed fixtures/*
var fixtures embed.FS

func Copy(src, dst string) error {
	sourceFile, err := fixtures.Open("fixtures/" + src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer sourceFile.Close()

	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	destFile, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return fmt.Errorf("failed to copy contents: %w", err)
	}

	return destFile.Sync()
}

// Payload returns a compacted webhook payload fixture.
func Payload(src string) json.RawMessage {
	compacted, err := JsonCompact([]byte(Read(src)))
	if err != nil {
		log.Fatal().Err(err).Str("fixture", src).Msg("failed to compact JSON")
	}

	return compacted
}

// PayloadWith returns a payload fixture with keys set or replaced.
func PayloadWith(src string, overrides map[string]interface{}) json.RawMessage {
	var body map[string]interface{}
	if err := json.Unmarshal(Payload(src), &body); err != nil {
		log.Fatal().Err(err).Str("fixture", src).Msg("failed to decode payload")
	}

	for k, v := range overrides {
		body[k] = v
	}

	out, err := json.Marshal(body)
	if err != nil {
		log.Fatal().Err(err).Str("fixture", src).Msg("failed to encode payload")
	}

	return out
}

func JsonCompact(byteContent []byte) ([]byte, error) {
	compacted := new(bytes.Buffer)

	if !json.Valid(byteContent) {
		return []byte{}, fmt.Errorf("invalid JSON in fixture")
	}

	if err := json.Compact(compacted, byteContent); err != nil {
		return []byte{}, err
	}

	return compacted.Bytes(), nil
}

func Read(src string) string {
	sourceFile, err := fixtures.Open("fixtures/" + src)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open source file")
	}
	defer sourceFile.Close()

	var builder strings.Builder
	if _, err := io.Copy(&builder, sourceFile); err != nil {
		log.Fatal().Err(err).Msg("failed to read source file")
	}

	return builder.String()
}

package extract

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// TesseractRecognizer shells out to the tesseract CLI for image OCR.
type TesseractRecognizer struct {
	Lang string // tesseract language code, "eng" when empty
}

// Available reports whether the tesseract binary is on PATH.
func (r *TesseractRecognizer) Available() bool {
	_, err := exec.LookPath("tesseract")
	return err == nil
}

// Recognize runs tesseract on the image and returns its stdout.
func (r *TesseractRecognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	lang := r.Lang
	if lang == "" {
		lang = "eng"
	}

	cmd := exec.CommandContext(ctx, "tesseract", imagePath, "stdout", "-l", lang, "--psm", "3")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(out.String()), nil
}

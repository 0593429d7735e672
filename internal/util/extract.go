package util

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"os/exec"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractResumeText pulls the text out of an uploaded resume PDF by
// rendering each page and running Tesseract OCR over it. Scanned resumes
// carry no text layer, so plain extraction is not enough.
func ExtractResumeText(path string) (string, error) {
	if err := checkTesseract(); err != nil {
		return "", fmt.Errorf("tesseract check failed: %w", err)
	}

	doc, err := fitz.New(path)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var fullText bytes.Buffer
	var lastErr error

	for n := 0; n < doc.NumPage(); n++ {
		img, err := doc.Image(n)
		if err != nil {
			lastErr = fmt.Errorf("page %d: failed to render: %w", n+1, err)
			log.Println(lastErr)
			continue
		}

		pageText, err := ocrPage(img)
		if err != nil {
			lastErr = fmt.Errorf("page %d: %w", n+1, err)
			log.Println(lastErr)
			continue
		}
		if pageText != "" {
			fullText.WriteString(pageText)
			fullText.WriteString("\n\n")
		}
	}

	result := strings.TrimSpace(fullText.String())
	if len(result) == 0 {
		if lastErr != nil {
			return "", fmt.Errorf("failed to extract resume text: %w", lastErr)
		}
		return "", fmt.Errorf("no text extracted from PDF")
	}
	if len(result) < 100 {
		return "", fmt.Errorf("resume content too short for a meaningful summary")
	}
	return result, nil
}

func ocrPage(img image.Image) (string, error) {
	tmpFile, err := os.CreateTemp("", "resume-page-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, img); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	tmpFile.Close()

	cmd := exec.Command("tesseract", tmpPath, "stdout", "-l", "eng")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("tesseract error: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkTesseract() error {
	cmd := exec.Command("tesseract", "-v")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("tesseract not found or not executable: %w", err)
	}
	log.Printf("Tesseract version: %s", strings.Split(string(out), "\n")[0])
	return nil
}

// Command qrsheet renders printable QR codes for the physical card deck.
// One PNG per card number, with the payload shape selected by -mode so the
// same deck can be printed for any client the scanner understands.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

func main() {
	var (
		mode = flag.String("mode", "number", "payload shape: number, deeplink, url, or json")
		from = flag.Int("from", 1, "first card number")
		to   = flag.Int("to", 50, "last card number")
		size = flag.Int("size", 300, "image size in pixels")
		base = flag.String("base", "https://bridgetime.example.com", "base URL for -mode url")
		out  = flag.String("out", "qrcodes", "output directory")
	)
	flag.Parse()

	if err := run(*mode, *from, *to, *size, *base, *out); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string, from, to, size int, base, out string) error {
	if from < 1 || to < from {
		return fmt.Errorf("invalid card range %d..%d", from, to)
	}
	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}

	for n := from; n <= to; n++ {
		payload, err := cardPayload(mode, n, base)
		if err != nil {
			return err
		}
		name := filepath.Join(out, fmt.Sprintf("card_%03d.png", n))
		if err := qrcode.WriteFile(payload, qrcode.Medium, size, name); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	fmt.Printf("wrote %d codes to %s\n", to-from+1, out)
	return nil
}

func cardPayload(mode string, n int, base string) (string, error) {
	switch mode {
	case "number":
		return fmt.Sprintf("%d", n), nil
	case "deeplink":
		return fmt.Sprintf("bridgetime://question?questionId=%d", n), nil
	case "url":
		return fmt.Sprintf("%s/question?questionId=%d", strings.TrimRight(base, "/"), n), nil
	case "json":
		data, err := json.Marshal(map[string]string{"id": fmt.Sprintf("card_%03d", n)})
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown mode %q", mode)
	}
}

// Package imaging downloads photos and turns them into terminal text, using
// chafa when it is installed and a built-in half-block renderer otherwise.
package imaging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"strings"
	"time"
)

const maxImageBytes = 5 * 1024 * 1024

// Size is a target area in terminal cells.
type Size struct {
	Width  int
	Height int
}

func (s Size) normalized() Size {
	if s.Width < 4 {
		s.Width = 4
	}
	if s.Height < 2 {
		s.Height = 2
	}
	return s
}

type Renderer struct {
	http      *http.Client
	chafaPath string
	useChafa  bool
}

// NewRenderer looks up chafa once. A nil client gets an 8s timeout.
func NewRenderer(httpClient *http.Client) *Renderer {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	r := &Renderer{http: httpClient}
	if path, err := exec.LookPath("chafa"); err == nil {
		r.chafaPath = path
		r.useChafa = true
	}
	return r
}

// WithoutChafa forces the built-in renderer.
func (r *Renderer) WithoutChafa() *Renderer {
	cp := *r
	cp.useChafa = false
	return &cp
}

// Render downloads imageURL and renders it into size.
func (r *Renderer) Render(ctx context.Context, imageURL string, size Size) (string, error) {
	data, err := r.Download(ctx, imageURL)
	if err != nil {
		return "", err
	}
	return r.RenderBytes(data, size)
}

func (r *Renderer) RenderBytes(data []byte, size Size) (string, error) {
	size = size.normalized()
	if r.useChafa {
		out, err := renderChafa(r.chafaPath, data, size)
		if err == nil {
			return out, nil
		}
	}
	return RenderHalfBlocks(bytes.NewReader(data), size)
}

func (r *Renderer) Download(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}
	resp, err := r.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download image: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func renderChafa(chafaPath string, data []byte, size Size) (string, error) {
	args := []string{
		"--size", fmt.Sprintf("%dx%d", size.Width, size.Height),
		"--view-size", fmt.Sprintf("%dx%d", size.Width, size.Height),
		"--align", "top,left",
		"--format", "symbols",
		"-",
	}
	cmd := exec.Command(chafaPath, args...)
	cmd.Stdin = bytes.NewReader(data)
	output, err := cmd.CombinedOutput()
	trimmed := strings.TrimRight(string(output), "\r\n")
	if err != nil {
		return "", fmt.Errorf("render image via chafa: %w: %s", err, strings.TrimSpace(trimmed))
	}
	if strings.TrimSpace(trimmed) == "" {
		return "", fmt.Errorf("render image via chafa: empty output")
	}
	return trimmed, nil
}

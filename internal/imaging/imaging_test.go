package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if y < h/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestRenderHalfBlocks_FitsSize(t *testing.T) {
	out, err := RenderHalfBlocks(bytes.NewReader(testPNG(t, 40, 40)), Size{Width: 10, Height: 10})
	if err != nil {
		t.Fatalf("RenderHalfBlocks returned error: %v", err)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rows for a square image in 10 columns, got %d", len(lines))
	}
	if got := strings.Count(lines[0], "▀"); got != 10 {
		t.Fatalf("expected 10 cells per row, got %d", got)
	}
	if !strings.Contains(lines[0], "38;2;255;0;0") {
		t.Fatalf("expected red upper pixels in first row, got %q", lines[0])
	}
	if !strings.Contains(lines[4], "48;2;0;0;255") {
		t.Fatalf("expected blue lower pixels in last row, got %q", lines[4])
	}
}

func TestRenderHalfBlocks_RejectsGarbage(t *testing.T) {
	if _, err := RenderHalfBlocks(strings.NewReader("not an image"), Size{Width: 10, Height: 4}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFit(t *testing.T) {
	if w, h := fit(200, 100, 20, 40); w != 20 || h != 10 {
		t.Fatalf("landscape fit = %dx%d, want 20x10", w, h)
	}
	if w, h := fit(100, 400, 20, 40); w != 10 || h != 40 {
		t.Fatalf("portrait fit = %dx%d, want 10x40", w, h)
	}
	if w, h := fit(0, 0, 8, 6); w != 8 || h != 6 {
		t.Fatalf("unknown size fit = %dx%d, want 8x6", w, h)
	}
}

func TestRenderer_DownloadAndRender(t *testing.T) {
	data := testPNG(t, 8, 8)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer ts.Close()

	r := NewRenderer(ts.Client()).WithoutChafa()
	out, err := r.Render(context.Background(), ts.URL+"/ok.png", Size{Width: 4, Height: 2})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(out, "▀") {
		t.Fatalf("expected half-block output, got %q", out)
	}

	if _, err := r.Render(context.Background(), ts.URL+"/missing", Size{Width: 4, Height: 2}); err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestRenderBatch_KeepsOrderAndBoundsConcurrency(t *testing.T) {
	var active, peak int32
	render := func(ctx context.Context, imageURL string, size Size) (string, error) {
		n := atomic.AddInt32(&active, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt32(&active, -1)
		if imageURL == "bad" {
			return "", errors.New("boom")
		}
		return "img:" + imageURL, nil
	}

	jobs := []Job{{ID: "a", URL: "1"}, {ID: "b", URL: "bad"}, {ID: "c", URL: "3"}, {ID: "d", URL: "4"}, {ID: "e", URL: "5"}}
	results := RenderBatch(context.Background(), jobs, 2, render)
	if len(results) != len(jobs) {
		t.Fatalf("expected %d results, got %d", len(jobs), len(results))
	}
	for i, res := range results {
		if res.ID != jobs[i].ID {
			t.Fatalf("result %d out of order: %s", i, res.ID)
		}
	}
	if results[0].Output != "img:1" || results[1].Err == nil || results[4].Output != "img:5" {
		t.Fatalf("unexpected results: %+v", results)
	}
	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent renders, saw %d", peak)
	}
}

func TestRenderBatch_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := int32(0)
	render := func(context.Context, string, Size) (string, error) {
		atomic.AddInt32(&called, 1)
		return "x", nil
	}
	results := RenderBatch(ctx, []Job{{ID: "a"}, {ID: "b"}}, 2, render)
	for _, res := range results {
		if res.Err == nil {
			t.Fatalf("expected cancellation error, got %+v", res)
		}
	}
	if called != 0 {
		t.Fatalf("expected no renders after cancellation, got %d", called)
	}
}

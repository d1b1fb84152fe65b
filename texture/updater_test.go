// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/backingstore"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (*mockDevice) Poll(wait bool) {}
func (*mockDevice) Destroy()       {}

// mockProvider implements gpucontext.DeviceProvider for testing.
type mockProvider struct {
	device gpucontext.Device
	format gputypes.TextureFormat
}

func newMockProvider() *mockProvider {
	return &mockProvider{
		device: &mockDevice{},
		format: gputypes.TextureFormatRGBA8Unorm,
	}
}

func (m *mockProvider) Device() gpucontext.Device             { return m.device }
func (m *mockProvider) Queue() gpucontext.Queue               { return nil }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return nil }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return m.format }

// mockTexture implements gpucontext.TextureUpdater plus the Destroy
// and SetPremultiplied surfaces gogpu textures expose.
type mockTexture struct {
	width, height int
	data          []byte
	updates       int
	destroyed     bool
	premultiplied bool
	failUpdate    bool
}

func (m *mockTexture) UpdateData(data []byte) error {
	if m.failUpdate {
		return errors.New("mock update failed")
	}
	m.data = append(m.data[:0], data...)
	m.updates++
	return nil
}

func (m *mockTexture) Destroy()                { m.destroyed = true }
func (m *mockTexture) SetPremultiplied(p bool) { m.premultiplied = p }

// staticTexture has no update support, forcing recreation on flush.
type staticTexture struct {
	destroyed bool
}

func (s *staticTexture) Destroy() { s.destroyed = true }

// mockCreator implements gpucontext.TextureCreator.
type mockCreator struct {
	textures []*mockTexture
	statics  []*staticTexture
	static   bool
	failNext bool
}

func (m *mockCreator) NewTextureFromRGBA(width, height int, data []byte) (any, error) {
	if m.failNext {
		m.failNext = false
		return nil, errors.New("mock creation failed")
	}
	if m.static {
		s := &staticTexture{}
		m.statics = append(m.statics, s)
		return s, nil
	}
	tex := &mockTexture{width: width, height: height}
	tex.data = append(tex.data, data...)
	m.textures = append(m.textures, tex)
	return tex, nil
}

func (m *mockCreator) created() int { return len(m.textures) + len(m.statics) }

// markRender paints the top-left pixel of the requested region red.
func markRender(img *image.RGBA, _ backingstore.Quality) error {
	b := img.Bounds()
	img.SetRGBA(b.Min.X, b.Min.Y, color.RGBA{R: 255, A: 255})
	return nil
}

func TestNewUpdaterValidation(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
		render   RenderFunc
		wantErr  error
	}{
		{"nil provider", nil, markRender, ErrNilProvider},
		{"nil render", newMockProvider(), nil, ErrNilRender},
		{"no device", &mockProvider{}, markRender, ErrNoDevice},
		{"valid", newMockProvider(), markRender, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := NewUpdater(tt.provider, tt.render)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewUpdater: %v", err)
			}
			if u.Format() != gputypes.TextureFormatRGBA8Unorm {
				t.Errorf("Format() = %v, want RGBA8Unorm", u.Format())
			}
			if u.Provider() != tt.provider {
				t.Error("Provider() should return the wired provider")
			}
		})
	}
}

func TestNewUpdaterWarnsOnFormatMismatch(t *testing.T) {
	var buf bytes.Buffer
	backingstore.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})))
	t.Cleanup(func() { backingstore.SetLogger(nil) })

	provider := &mockProvider{device: &mockDevice{}, format: gputypes.TextureFormatBGRA8Unorm}
	if _, err := NewUpdater(provider, markRender); err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	if !strings.Contains(buf.String(), "surface format differs") {
		t.Errorf("expected a format mismatch debug entry, got %q", buf.String())
	}
}

func TestCreateBufferStaging(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	buf, err := u.CreateBuffer(32, 16)
	if err != nil {
		t.Fatalf("CreateBuffer: %v", err)
	}
	b := buf.(*Buffer)
	if buf.Width() != 32 || buf.Height() != 16 {
		t.Errorf("size = %dx%d, want 32x16", buf.Width(), buf.Height())
	}
	if got := b.Staging().Bounds(); got != image.Rect(0, 0, 32, 16) {
		t.Errorf("staging bounds = %v", got)
	}
	if !b.Dirty() {
		t.Error("fresh buffer should be dirty")
	}
	if b.Texture() != nil {
		t.Error("texture should not exist before first Flush")
	}

	if _, err := u.CreateBuffer(0, 16); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("CreateBuffer(0,16) error = %v, want ErrInvalidSize", err)
	}
}

func TestCreateBufferClearColor(t *testing.T) {
	bg := color.RGBA{R: 9, G: 18, B: 27, A: 255}
	u, err := NewUpdater(newMockProvider(), markRender, WithClearColor(bg))
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	buf, _ := u.CreateBuffer(4, 4)
	if got := buf.(*Buffer).Staging().RGBAAt(3, 3); got != bg {
		t.Errorf("cleared pixel = %v, want %v", got, bg)
	}
}

func TestFlushLifecycle(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	creator := &mockCreator{}
	buf, _ := u.CreateBuffer(16, 16)
	b := buf.(*Buffer)
	whole := backingstore.Rect(0, 0, 16, 16)
	if err := u.RenderRegion(buf, 0, 0, whole, backingstore.QualityHigh, false); err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}

	tex, err := b.Flush(creator)
	if err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if creator.created() != 1 {
		t.Fatalf("created %d textures, want 1", creator.created())
	}
	mt := creator.textures[0]
	if tex != any(mt) || b.Texture() != any(mt) {
		t.Error("Flush should return and retain the created texture")
	}
	if !mt.premultiplied {
		t.Error("created texture should be marked premultiplied")
	}
	if mt.data[0] != 255 {
		t.Error("uploaded data should carry the rendered marker pixel")
	}
	if b.Dirty() {
		t.Error("Dirty after Flush should be false")
	}

	// Clean flush is a no-op.
	if _, err := b.Flush(creator); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if creator.created() != 1 || mt.updates != 0 {
		t.Errorf("clean Flush should not create (%d) or update (%d)", creator.created(), mt.updates)
	}

	// New content flows through UpdateData.
	if err := u.RenderRegion(buf, 0, 0, whole, backingstore.QualityHigh, true); err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}
	if !b.Dirty() {
		t.Fatal("RenderRegion should mark the buffer dirty")
	}
	if _, err := b.Flush(creator); err != nil {
		t.Fatalf("third Flush: %v", err)
	}
	if creator.created() != 1 || mt.updates != 1 {
		t.Errorf("dirty Flush should update in place (created %d, updates %d)",
			creator.created(), mt.updates)
	}
}

func TestFlushCreatorFallback(t *testing.T) {
	creator := &mockCreator{}
	u, err := NewUpdater(newMockProvider(), markRender, WithCreator(creator))
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	buf, _ := u.CreateBuffer(8, 8)
	if _, err := buf.(*Buffer).Flush(nil); err != nil {
		t.Errorf("Flush(nil) with stored creator: %v", err)
	}

	u2, _ := NewUpdater(newMockProvider(), markRender)
	buf2, _ := u2.CreateBuffer(8, 8)
	if _, err := buf2.(*Buffer).Flush(nil); !errors.Is(err, ErrNoCreator) {
		t.Errorf("Flush(nil) without creator error = %v, want ErrNoCreator", err)
	}
}

func TestFlushFailures(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}

	t.Run("creation failure", func(t *testing.T) {
		creator := &mockCreator{failNext: true}
		buf, _ := u.CreateBuffer(8, 8)
		b := buf.(*Buffer)
		if _, err := b.Flush(creator); err == nil {
			t.Fatal("Flush should propagate creation failure")
		}
		if !b.Dirty() || b.Texture() != nil {
			t.Error("failed Flush must leave the buffer dirty and textureless")
		}
	})

	t.Run("update failure", func(t *testing.T) {
		creator := &mockCreator{}
		buf, _ := u.CreateBuffer(8, 8)
		b := buf.(*Buffer)
		if _, err := b.Flush(creator); err != nil {
			t.Fatalf("first Flush: %v", err)
		}
		creator.textures[0].failUpdate = true
		if err := u.RenderRegion(buf, 0, 0, backingstore.Rect(0, 0, 8, 8), backingstore.QualityHigh, true); err != nil {
			t.Fatalf("RenderRegion: %v", err)
		}
		if _, err := b.Flush(creator); err == nil {
			t.Fatal("Flush should propagate update failure")
		}
		if !b.Dirty() {
			t.Error("failed update must leave the buffer dirty")
		}
	})
}

func TestFlushRecreatesWithoutUpdateSupport(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	creator := &mockCreator{static: true}
	buf, _ := u.CreateBuffer(8, 8)
	b := buf.(*Buffer)

	if _, err := b.Flush(creator); err != nil {
		t.Fatalf("first Flush: %v", err)
	}
	if err := u.RenderRegion(buf, 0, 0, backingstore.Rect(0, 0, 8, 8), backingstore.QualityHigh, true); err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}
	if _, err := b.Flush(creator); err != nil {
		t.Fatalf("second Flush: %v", err)
	}
	if creator.created() != 2 {
		t.Errorf("created %d textures, want 2 (recreate path)", creator.created())
	}
	if !creator.statics[0].destroyed {
		t.Error("replaced texture should be destroyed")
	}
	if b.Texture() != any(creator.statics[1]) {
		t.Error("buffer should hold the replacement texture")
	}
}

func TestInPlaceScrollStaging(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	buf, _ := u.CreateBuffer(6, 6)
	b := buf.(*Buffer)
	img := b.Staging()
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	b.dirty = false

	if err := u.InPlaceScroll(buf, 0, 0, 6, 6, 0, 2); err != nil {
		t.Fatalf("InPlaceScroll: %v", err)
	}
	if !b.Dirty() {
		t.Error("scroll should mark the buffer dirty")
	}
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			want := color.RGBA{R: uint8(x), G: uint8(y), A: 255}
			if y < 4 {
				want.G = uint8(y + 2)
			}
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestReleaseDestroysTexture(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	creator := &mockCreator{}
	buf, _ := u.CreateBuffer(8, 8)
	b := buf.(*Buffer)
	if _, err := b.Flush(creator); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	buf.Release()
	if !creator.textures[0].destroyed {
		t.Error("Release should destroy the GPU texture")
	}
	if b.Staging() != nil {
		t.Error("Release should drop the staging image")
	}
	if err := u.InPlaceScroll(buf, 0, 0, 8, 8, 1, 0); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("scroll after Release error = %v, want ErrBufferReleased", err)
	}
	if _, err := b.Flush(creator); !errors.Is(err, ErrBufferReleased) {
		t.Errorf("Flush after Release error = %v, want ErrBufferReleased", err)
	}
	buf.Release() // idempotent
}

func TestTexCoords(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	buf, _ := u.CreateBuffer(256, 128)

	q, err := TexCoords(backingstore.Blit{
		Buffer: buf,
		OutX:   7, OutY: 9,
		InX: 64, InY: 32,
		Width: 128, Height: 64,
	})
	if err != nil {
		t.Fatalf("TexCoords: %v", err)
	}
	want := QuadCoords{
		OutX: 7, OutY: 9, Width: 128, Height: 64,
		U0: 0.25, V0: 0.25, U1: 0.75, V1: 0.75,
	}
	if q != want {
		t.Errorf("TexCoords = %+v, want %+v", q, want)
	}

	if _, err := TexCoords(backingstore.Blit{Buffer: nil}); !errors.Is(err, ErrForeignBuffer) {
		t.Errorf("TexCoords(nil buffer) error = %v, want ErrForeignBuffer", err)
	}
}

// TestStoreIntegration drives a real store against the texture backend
// and flushes the resulting blits the way a presenter would.
func TestStoreIntegration(t *testing.T) {
	u, err := NewUpdater(newMockProvider(), markRender)
	if err != nil {
		t.Fatalf("NewUpdater: %v", err)
	}
	creator := &mockCreator{}
	store := backingstore.New(u)

	vp := backingstore.Viewport{X: 0, Y: 0, Width: 32, Height: 32}
	content := backingstore.Size{Width: 100, Height: 100}
	if !store.Update(nil, backingstore.UpdateAll, vp, content, false) {
		t.Fatal("Update = false")
	}

	it := store.BeginDrawRegion(vp.Region(), vp.X, vp.Y)
	if it == nil {
		t.Fatal("BeginDrawRegion = nil")
	}
	for it.Next() {
		bl := it.Blit()
		b, ok := bl.Buffer.(*Buffer)
		if !ok {
			t.Fatal("blit buffer is not a texture.Buffer")
		}
		if _, err := b.Flush(creator); err != nil {
			t.Fatalf("Flush: %v", err)
		}
	}
	it.Release()
	if creator.created() != 1 {
		t.Errorf("created %d textures, want 1", creator.created())
	}

	store.Cleanup()
	if !creator.textures[0].destroyed {
		t.Error("Cleanup should release buffers and destroy their textures")
	}
}

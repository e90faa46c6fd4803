package platform

import (
	"fmt"
	"image"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/spaghettifunk/lightbox/engine/core"
)

func init() {
	// GLFW event handling must run on the main OS thread
	runtime.LockOSThread()
}

/**
 * @brief Owns the window and the GL context used to present frames that
 * were rasterized on the CPU. Input callbacks write straight into the
 * shared InputState; they run inside PumpMessages on the main thread.
 */
type Platform struct {
	Window *glfw.Window

	input       *core.InputState
	texture     uint32
	framebuffer uint32
	texWidth    int
	texHeight   int
}

func New(input *core.InputState) *Platform {
	return &Platform{
		Window: nil,
		input:  input,
	}
}

func (p *Platform) Startup(applicationName string, x uint32, y uint32, width uint32, height uint32) error {
	if err := glfw.Init(); err != nil {
		core.LogError("failed to initialize glfw: %s", err)
		return err
	}

	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(width), int(height), applicationName, nil, nil)
	if err != nil {
		core.LogError("failed to create window: %s", err)
		glfw.Terminate()
		return err
	}
	window.MakeContextCurrent()
	p.Window = window

	if err := gl.Init(); err != nil {
		core.LogError("failed to initialize OpenGL: %s", err)
		return err
	}
	core.LogDebug("OpenGL version %s", gl.GoStr(gl.GetString(gl.VERSION)))
	glfw.SwapInterval(1)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.GenFramebuffers(1, &p.framebuffer)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.framebuffer)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, p.texture, 0)

	p.Window.SetKeyCallback(p.keyCallback)
	p.Window.SetMouseButtonCallback(p.mouseButtonCallback)
	p.Window.SetCursorPosCallback(p.cursorPosCallback)
	p.Window.SetScrollCallback(p.scrollCallback)
	p.Window.SetSizeCallback(p.sizeCallback)
	p.Window.SetCloseCallback(p.closeCallback)
	p.Window.SetPos(int(x), int(y))
	p.Window.Show()

	return nil
}

func (p *Platform) Shutdown() error {
	if p.Window != nil {
		gl.DeleteFramebuffers(1, &p.framebuffer)
		gl.DeleteTextures(1, &p.texture)
		p.Window.Destroy()
		p.Window = nil
	}
	glfw.Terminate()
	return nil
}

// PumpMessages processes pending window events. Returns false once the
// window was asked to close.
func (p *Platform) PumpMessages() bool {
	glfw.PollEvents()
	return !p.Window.ShouldClose()
}

// WindowSize is the logical size frames should be rasterized at.
func (p *Platform) WindowSize() (int, int) {
	return p.Window.GetSize()
}

/**
 * @brief Uploads frame into the presentation texture and blits it onto the
 * default framebuffer, flipping rows since images are stored top-down.
 */
func (p *Platform) Present(frame *image.RGBA) error {
	b := frame.Bounds()
	w, h := b.Dx(), b.Dy()
	if frame.Stride != w*4 {
		return fmt.Errorf("platform: frame stride %d does not match width %d", frame.Stride, w)
	}

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	if w != p.texWidth || h != p.texHeight {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
		p.texWidth, p.texHeight = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(frame.Pix))
	}

	fbWidth, fbHeight := p.Window.GetFramebufferSize()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.framebuffer)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, int32(w), int32(h), 0, int32(fbHeight), int32(fbWidth), 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)

	p.Window.SwapBuffers()
	return nil
}

func (p *Platform) GetAbsoluteTime() float64 {
	return glfw.GetTime()
}

func (p *Platform) Sleep(ms float64) {
	time.Sleep(time.Duration(ms * float64(time.Millisecond)))
}

func (p *Platform) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action == glfw.Repeat {
		return
	}
	code := translateKey(key)
	if code == core.KEY_UNKNOWN {
		return
	}
	p.input.ProcessKey(code, action == glfw.Press)
}

func (p *Platform) mouseButtonCallback(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	var b core.Button
	switch button {
	case glfw.MouseButtonLeft:
		b = core.BUTTON_LEFT
	case glfw.MouseButtonRight:
		b = core.BUTTON_RIGHT
	case glfw.MouseButtonMiddle:
		b = core.BUTTON_MIDDLE
	default:
		return
	}
	p.input.ProcessButton(b, action == glfw.Press)
}

func (p *Platform) cursorPosCallback(w *glfw.Window, xpos, ypos float64) {
	p.input.ProcessMouseMove(float32(xpos), float32(ypos))
}

// wheel up zooms in
func (p *Platform) scrollCallback(w *glfw.Window, xoff, yoff float64) {
	p.input.ProcessMouseWheel(-yoff)
}

func (p *Platform) sizeCallback(w *glfw.Window, width, height int) {
	core.EventFire(core.EventContext{
		Type: core.EVENT_CODE_RESIZED,
		Data: &core.SystemEvent{WindowWidth: uint32(width), WindowHeight: uint32(height)},
	})
}

func (p *Platform) closeCallback(w *glfw.Window) {
	core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
}

func translateKey(key glfw.Key) core.KeyCode {
	// GLFW letter keys share their ASCII codes
	if key >= glfw.KeyA && key <= glfw.KeyZ {
		return core.KeyCode(key)
	}
	switch key {
	case glfw.KeyEnter:
		return core.KEY_ENTER
	case glfw.KeyEscape:
		return core.KEY_ESCAPE
	case glfw.KeySpace:
		return core.KEY_SPACE
	case glfw.KeyHome:
		return core.KEY_HOME
	case glfw.KeyEnd:
		return core.KEY_END
	case glfw.KeyLeft:
		return core.KEY_LEFT
	case glfw.KeyRight:
		return core.KEY_RIGHT
	case glfw.KeyUp:
		return core.KEY_UP
	case glfw.KeyDown:
		return core.KEY_DOWN
	default:
		return core.KEY_UNKNOWN
	}
}

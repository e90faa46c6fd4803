package core

type Button uint16

const (
	BUTTON_LEFT Button = iota
	BUTTON_RIGHT
	BUTTON_MIDDLE
	BUTTON_MAX_BUTTONS
)

// Key code definitions
type KeyCode uint16

const (
	KEY_UNKNOWN KeyCode = 0x00
	KEY_ENTER   KeyCode = 0x0D
	KEY_ESCAPE  KeyCode = 0x1B
	KEY_SPACE   KeyCode = 0x20
	KEY_END     KeyCode = 0x23
	KEY_HOME    KeyCode = 0x24
	KEY_LEFT    KeyCode = 0x25
	KEY_UP      KeyCode = 0x26
	KEY_RIGHT   KeyCode = 0x27
	KEY_DOWN    KeyCode = 0x28
	KEY_A       KeyCode = 0x41
	KEY_B       KeyCode = 0x42
	KEY_C       KeyCode = 0x43
	KEY_D       KeyCode = 0x44
	KEY_E       KeyCode = 0x45
	KEY_F       KeyCode = 0x46
	KEY_G       KeyCode = 0x47
	KEY_H       KeyCode = 0x48
	KEY_I       KeyCode = 0x49
	KEY_J       KeyCode = 0x4A
	KEY_K       KeyCode = 0x4B
	KEY_L       KeyCode = 0x4C
	KEY_M       KeyCode = 0x4D
	KEY_N       KeyCode = 0x4E
	KEY_O       KeyCode = 0x4F
	KEY_P       KeyCode = 0x50
	KEY_Q       KeyCode = 0x51
	KEY_R       KeyCode = 0x52
	KEY_S       KeyCode = 0x53
	KEY_T       KeyCode = 0x54
	KEY_U       KeyCode = 0x55
	KEY_V       KeyCode = 0x56
	KEY_W       KeyCode = 0x57
	KEY_X       KeyCode = 0x58
	KEY_Y       KeyCode = 0x59
	KEY_Z       KeyCode = 0x5A
	KEYS_MAX_KEYS KeyCode = 0xFF
)

// Mouse state structure
type MouseState struct {
	X       float32
	Y       float32
	Scroll  float64                  // accumulated wheel offset since startup
	Buttons [BUTTON_MAX_BUTTONS]bool // button states (pressed/released)
}

// Keyboard state structure
type KeyboardState struct {
	Keys [256]bool
}

// InputState holds current and previous states for keyboard and mouse.
// It is owned by the presentation goroutine: platform callbacks write the
// current state, the frame loop reads it and calls Update once per frame.
type InputState struct {
	KeyboardCurrent  KeyboardState
	KeyboardPrevious KeyboardState
	MouseCurrent     MouseState
	MousePrevious    MouseState
	// keys that went down since the last Update, even if already released
	pressedThisFrame [256]bool
}

func NewInputState() *InputState {
	return &InputState{}
}

// Update copies current states to previous states. Call at the end of a frame.
func (is *InputState) Update() {
	is.KeyboardPrevious = is.KeyboardCurrent
	is.MousePrevious = is.MouseCurrent
	is.pressedThisFrame = [256]bool{}
}

// keyboard input
func (is *InputState) IsKeyDown(key KeyCode) bool {
	return is.KeyboardCurrent.Keys[byte(key)]
}

func (is *InputState) IsKeyUp(key KeyCode) bool {
	return !is.KeyboardCurrent.Keys[byte(key)]
}

func (is *InputState) WasKeyDown(key KeyCode) bool {
	return is.KeyboardPrevious.Keys[byte(key)]
}

// KeyJustPressed reports a key that went down during this frame. A press
// released again before the frame ends still counts.
func (is *InputState) KeyJustPressed(key KeyCode) bool {
	return is.pressedThisFrame[byte(key)]
}

func (is *InputState) ProcessKey(key KeyCode, pressed bool) {
	// Only handle this if the state actually changed.
	if is.KeyboardCurrent.Keys[byte(key)] == pressed {
		return
	}
	is.KeyboardCurrent.Keys[byte(key)] = pressed
	if pressed {
		is.pressedThisFrame[byte(key)] = true
	}

	code := EVENT_CODE_KEY_RELEASED
	if pressed {
		code = EVENT_CODE_KEY_PRESSED
	}
	EventFire(EventContext{
		Type: code,
		Data: &KeyEvent{KeyCode: key},
	})
}

// mouse input
func (is *InputState) IsButtonDown(button Button) bool {
	if button >= BUTTON_MAX_BUTTONS {
		return false
	}
	return is.MouseCurrent.Buttons[button]
}

func (is *InputState) WasButtonDown(button Button) bool {
	if button >= BUTTON_MAX_BUTTONS {
		return false
	}
	return is.MousePrevious.Buttons[button]
}

func (is *InputState) MousePosition() (float32, float32) {
	return is.MouseCurrent.X, is.MouseCurrent.Y
}

// MouseDelta is the pointer movement since the previous frame.
func (is *InputState) MouseDelta() (float32, float32) {
	return is.MouseCurrent.X - is.MousePrevious.X, is.MouseCurrent.Y - is.MousePrevious.Y
}

// ScrollDelta is the wheel movement accumulated since the previous frame.
func (is *InputState) ScrollDelta() float64 {
	return is.MouseCurrent.Scroll - is.MousePrevious.Scroll
}

func (is *InputState) ProcessButton(button Button, pressed bool) {
	if button >= BUTTON_MAX_BUTTONS || is.MouseCurrent.Buttons[button] == pressed {
		return
	}
	is.MouseCurrent.Buttons[button] = pressed

	code := EVENT_CODE_BUTTON_RELEASED
	if pressed {
		code = EVENT_CODE_BUTTON_PRESSED
	}
	EventFire(EventContext{
		Type: code,
		Data: &MouseEvent{Button: button},
	})
}

func (is *InputState) ProcessMouseMove(x, y float32) {
	if is.MouseCurrent.X == x && is.MouseCurrent.Y == y {
		return
	}
	is.MouseCurrent.X = x
	is.MouseCurrent.Y = y

	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_MOVED,
		Data: &MouseEvent{PosX: x, PosY: y},
	})
}

func (is *InputState) ProcessMouseWheel(delta float64) {
	is.MouseCurrent.Scroll += delta
	EventFire(EventContext{
		Type: EVENT_CODE_MOUSE_WHEEL,
		Data: &MouseEvent{Scroll: delta},
	})
}

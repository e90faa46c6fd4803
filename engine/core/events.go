package core

import "sync"

// System internal event codes. Application should use codes beyond 255.
type EventCode uint16

const (
	// Shuts the application down on the next frame.
	EVENT_CODE_APPLICATION_QUIT EventCode = 0x01
	// Keyboard key pressed. Data: *KeyEvent
	EVENT_CODE_KEY_PRESSED EventCode = 0x02
	// Keyboard key released. Data: *KeyEvent
	EVENT_CODE_KEY_RELEASED EventCode = 0x03
	// Mouse button pressed. Data: *MouseEvent
	EVENT_CODE_BUTTON_PRESSED EventCode = 0x04
	// Mouse button released. Data: *MouseEvent
	EVENT_CODE_BUTTON_RELEASED EventCode = 0x05
	// Mouse moved. Data: *MouseEvent
	EVENT_CODE_MOUSE_MOVED EventCode = 0x06
	// Mouse wheel scrolled. Data: *MouseEvent
	EVENT_CODE_MOUSE_WHEEL EventCode = 0x07
	// Resized/resolution changed from the OS. Data: *SystemEvent
	EVENT_CODE_RESIZED EventCode = 0x08
	// A new asset was discovered after startup. Data: *AssetEvent
	EVENT_CODE_ASSET_DISCOVERED EventCode = 0x09

	MAX_EVENT_CODE EventCode = 0xFF
)

type KeyEvent struct {
	KeyCode KeyCode
}

type MouseEvent struct {
	Button Button
	PosX   float32
	PosY   float32
	Scroll float64
}

type SystemEvent struct {
	WindowWidth  uint32
	WindowHeight uint32
}

type AssetEvent struct {
	Path string
}

type EventContext struct {
	Type EventCode
	Data interface{}
}

// Should return true if handled.
type FnOnEvent func(context EventContext) bool

type registeredEvent struct {
	listener interface{}
	callback FnOnEvent
}

type eventSystemState struct {
	mu         sync.RWMutex
	registered map[EventCode][]*registeredEvent
}

var eventState *eventSystemState = nil
var eventMu sync.Mutex

func EventSystemInitialize() bool {
	eventMu.Lock()
	defer eventMu.Unlock()
	if eventState != nil {
		return false
	}
	eventState = &eventSystemState{
		registered: make(map[EventCode][]*registeredEvent),
	}
	return true
}

func EventSystemShutdown() error {
	eventMu.Lock()
	defer eventMu.Unlock()
	if eventState == nil {
		return ErrNotInitialized
	}
	eventState = nil
	return nil
}

func currentEventState() *eventSystemState {
	eventMu.Lock()
	defer eventMu.Unlock()
	return eventState
}

/**
 * Register to listen for when events are sent with the provided code. Events with duplicate
 * listener/callback combos will not be registered again and will cause this to return false.
 */
func EventRegister(code EventCode, listener interface{}, onEvent FnOnEvent) bool {
	state := currentEventState()
	if state == nil {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	for _, e := range state.registered[code] {
		if e.listener == listener {
			LogWarn("listener already registered for event code `%d`", code)
			return false
		}
	}
	state.registered[code] = append(state.registered[code], &registeredEvent{
		listener: listener,
		callback: onEvent,
	})
	return true
}

/**
 * Unregister from listening for when events are sent with the provided code. If no matching
 * registration is found, this function returns false.
 */
func EventUnregister(code EventCode, listener interface{}) bool {
	state := currentEventState()
	if state == nil {
		return false
	}
	state.mu.Lock()
	defer state.mu.Unlock()

	events := state.registered[code]
	for i, e := range events {
		if e.listener == listener {
			state.registered[code] = append(events[:i], events[i+1:]...)
			return true
		}
	}
	return false
}

/**
 * Fires an event to listeners of the given code. If an event handler returns
 * true, the event is considered handled and is not passed on to any more listeners.
 */
func EventFire(context EventContext) bool {
	state := currentEventState()
	if state == nil {
		return false
	}
	state.mu.RLock()
	events := append([]*registeredEvent(nil), state.registered[context.Type]...)
	state.mu.RUnlock()

	for _, e := range events {
		if e.callback(context) {
			// Message has been handled, do not send to other listeners.
			return true
		}
	}
	return false
}

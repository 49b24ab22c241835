package state

// EventType names an outbound notification.
type EventType string

const (
	EventCanvasChanged    EventType = "canvasChanged"
	EventSelectionChanged EventType = "selectionChanged"
	EventDrawingState     EventType = "drawingStateChanged"
	EventSaved            EventType = "saved"
	EventBase64           EventType = "base64"
)

// DrawingState tells the host which actions are available.
type DrawingState struct {
	CanUndo     bool   `json:"canUndo"`
	CanDelete   bool   `json:"canDelete"`
	ShapeType   string `json:"shapeType,omitempty"`
	DrawingStep int    `json:"drawingStep"`
}

// Event is sent to the host. Only the fields of its type are set.
type Event struct {
	Type EventType `json:"type"`

	PathsUpdate     *int          `json:"pathsUpdate,omitempty"`
	IsShapeSelected *bool         `json:"isShapeSelected,omitempty"`
	DrawingState    *DrawingState `json:"drawingState,omitempty"`

	Success *bool  `json:"success,omitempty"`
	Path    string `json:"path,omitempty"`
	Data    string `json:"data,omitempty"`
}

func canvasChanged(paths int) Event {
	return Event{Type: EventCanvasChanged, PathsUpdate: &paths}
}

func selectionChanged(selected bool) Event {
	return Event{Type: EventSelectionChanged, IsShapeSelected: &selected}
}

func drawingStateChanged(ds DrawingState) Event {
	return Event{Type: EventDrawingState, DrawingState: &ds}
}

func saved(success bool, path string) Event {
	return Event{Type: EventSaved, Success: &success, Path: path}
}

func base64Ready(data string) Event {
	return Event{Type: EventBase64, Data: data}
}

package entity

import (
	"errors"
	"strings"
)

// ErrUnknownKind is returned by LookupKind for names that are not an entity kind.
var ErrUnknownKind = errors.New("unknown entity kind")

// Kind names an entity variant. The value is the label reported to hosts.
type Kind string

const (
	KindCircle          Kind = "Circle"
	KindRect            Kind = "Rect"
	KindSquare          Kind = "Square"
	KindTriangle        Kind = "Triangle"
	KindArrow           Kind = "Arrow"
	KindText            Kind = "Text"
	KindImage           Kind = "Image"
	KindRuler           Kind = "Ruler"
	KindMeasurementTool Kind = "MeasurementTool"
)

var kinds = []Kind{
	KindCircle, KindRect, KindSquare, KindTriangle, KindArrow,
	KindText, KindImage, KindRuler, KindMeasurementTool,
}

// LookupKind finds the kind with the given label, ignoring case.
func LookupKind(name string) (Kind, error) {
	name = strings.TrimSpace(name)
	for _, k := range kinds {
		if strings.EqualFold(string(k), name) {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

// ParseKind is LookupKind with unknown names mapped to KindCircle.
func ParseKind(name string) Kind {
	k, err := LookupKind(name)
	if err != nil {
		return KindCircle
	}
	return k
}

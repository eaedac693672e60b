package models

import (
	"fmt"
	"strings"
)

// BodyPart is the catalog category of an exercise.
type BodyPart string

const (
	Chest     BodyPart = "chest"
	Back      BodyPart = "back"
	Legs      BodyPart = "legs"
	Shoulders BodyPart = "shoulders"
	Arms      BodyPart = "arms"
	Abs       BodyPart = "abs"
	Cardio    BodyPart = "cardio"
)

// BodyParts lists every body part in display order.
var BodyParts = []BodyPart{Chest, Back, Legs, Shoulders, Arms, Abs, Cardio}

var bodyPartLabels = map[BodyPart]string{
	Chest:     "胸",
	Back:      "背",
	Legs:      "腿",
	Shoulders: "肩",
	Arms:      "手",
	Abs:       "腹肌",
	Cardio:    "有氧",
}

// Label returns the display label shown in the app.
func (b BodyPart) Label() string {
	return bodyPartLabels[b]
}

// IsCardio reports whether exercises of this body part use a duration target.
func (b BodyPart) IsCardio() bool {
	return b == Cardio
}

// Valid reports whether b is a known body part.
func (b BodyPart) Valid() bool {
	_, ok := bodyPartLabels[b]
	return ok
}

// ParseBodyPart accepts either the English key ("legs") or the display label ("腿").
func ParseBodyPart(s string) (BodyPart, error) {
	s = strings.TrimSpace(s)
	if bp := BodyPart(strings.ToLower(s)); bp.Valid() {
		return bp, nil
	}
	for bp, label := range bodyPartLabels {
		if label == s {
			return bp, nil
		}
	}
	return "", fmt.Errorf("unknown body part %q", s)
}

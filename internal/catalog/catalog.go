// Package catalog holds the built-in exercise list grouped by body part.
package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/meltforce/fitcart/internal/models"
)

// namespace seeds the name-based exercise IDs. Changing it changes every ID.
var namespace = uuid.MustParse("6f1c0a52-3d8e-4c57-9a1b-2f7e5d0c4b11")

type sample struct {
	name  string
	local string
}

var samples = map[models.BodyPart][]sample{
	models.Chest: {
		{"Flat Bench Press", "平板臥推"},
		{"Incline Bench Press", "上斜臥推"},
		{"Decline Bench Press", "下斜臥推"},
		{"Pec Deck Fly", "蝴蝶機夾胸"},
		{"Parallel Bar Dip", "雙槓臂屈伸"},
		{"Push-up", "伏地挺身"},
	},
	models.Back: {
		{"Lat Pulldown", "高位下拉"},
		{"Seated Cable Row", "坐姿划船"},
		{"Bent-over Row", "俯身划船"},
		{"Pull-up", "引體向上"},
	},
	models.Legs: {
		{"Squat", "深蹲"},
		{"Bulgarian Split Squat", "保加利亞分腿蹲"},
		{"Leg Press", "腿推舉"},
		{"Leg Curl", "腿彎舉"},
		{"Standing Calf Raise", "站姿提踵"},
	},
	models.Shoulders: {
		{"Shoulder Press", "肩推"},
		{"Lateral Raise", "側平舉"},
		{"Front Raise", "前平舉"},
		{"Cable Face Pull", "繩索面拉"},
		{"Reverse Fly", "反向飛鳥"},
	},
	models.Arms: {
		{"Biceps Curl", "二頭彎舉"},
		{"Reverse-grip Pushdown", "反握下壓"},
		{"Lying Triceps Extension", "仰臥三頭肌伸展"},
	},
	models.Abs: {
		{"Plank", "棒式"},
		{"Crunch", "捲腹"},
		{"Russian Twist", "俄羅斯轉體"},
		{"Hanging Leg Raise", "懸吊抬腿"},
	},
	models.Cardio: {
		{"Treadmill", "跑步機"},
		{"Spin Bike", "飛輪"},
		{"Rowing Machine", "划船機"},
	},
}

var (
	byPart = make(map[models.BodyPart][]models.Exercise, len(samples))
	byID   = make(map[uuid.UUID]models.Exercise)
	all    []models.Exercise
)

func init() {
	for _, bp := range models.BodyParts {
		for _, s := range samples[bp] {
			ex := models.Exercise{
				ID:        exerciseID(bp, s.name),
				Name:      s.name,
				LocalName: s.local,
				BodyPart:  bp,
				ImageName: s.local,
			}
			byPart[bp] = append(byPart[bp], ex)
			byID[ex.ID] = ex
			all = append(all, ex)
		}
	}
}

func exerciseID(bp models.BodyPart, name string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(string(bp)+"/"+name))
}

// All returns every exercise in body part order.
func All() []models.Exercise {
	return append([]models.Exercise(nil), all...)
}

// ByBodyPart returns the exercises for one body part.
func ByBodyPart(bp models.BodyPart) []models.Exercise {
	return append([]models.Exercise(nil), byPart[bp]...)
}

// Lookup finds an exercise by ID.
func Lookup(id uuid.UUID) (models.Exercise, bool) {
	ex, ok := byID[id]
	return ex, ok
}

// FindByName matches the English name case-insensitively, or the local name exactly.
func FindByName(name string) (models.Exercise, bool) {
	name = strings.TrimSpace(name)
	for _, ex := range all {
		if strings.EqualFold(ex.Name, name) || ex.LocalName == name {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

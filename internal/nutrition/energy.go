// Package nutrition estimates daily energy needs from profile data using the
// Mifflin-St Jeor equation.
package nutrition

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Activity factor bounds (sedentary to very intense).
const (
	MinActivity     = 1.2
	MaxActivity     = 2.0
	DefaultActivity = MinActivity
)

// Gender selects the BMR constant.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male"/"female" or the app labels; anything else is male.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "女性":
		return Female
	default:
		return Male
	}
}

// Profile is the stored profile exactly as entered. Height and weight are
// free text and only parsed when computing.
type Profile struct {
	HeightCM string `json:"height_cm"`
	WeightKG string `json:"weight_kg"`
	Gender   Gender `json:"gender"`
}

// Estimate is the computed result. BMR and TDEE are nil when the profile
// cannot produce a value; callers show a placeholder.
type Estimate struct {
	Age      int      `json:"age"`
	Activity float64  `json:"activity"`
	BMR      *float64 `json:"bmr"`
	TDEE     *float64 `json:"tdee"`
}

// Age returns whole years between birthday and now, never negative.
func Age(birthday, now time.Time) int {
	years := now.Year() - birthday.Year()
	if now.Month() < birthday.Month() || (now.Month() == birthday.Month() && now.Day() < birthday.Day()) {
		years--
	}
	return max(0, years)
}

// DefaultBirthday is twenty years before now.
func DefaultBirthday(now time.Time) time.Time {
	return now.AddDate(-20, 0, 0)
}

// BMR returns basal metabolic rate in kcal/day.
func BMR(heightCM, weightKG float64, age int, g Gender) float64 {
	base := 10.0*weightKG + 6.25*heightCM - 5.0*float64(age)
	if g == Female {
		return base - 161.0
	}
	return base + 5.0
}

// Compute estimates BMR and TDEE. It never fails: unusable input leaves the
// values nil.
func Compute(p Profile, birthday time.Time, activity float64, now time.Time) Estimate {
	est := Estimate{Age: Age(birthday, now)}
	if finite(activity) {
		est.Activity = activity
	}

	h, errH := parseNumber(p.HeightCM)
	w, errW := parseNumber(p.WeightKG)
	if errH != nil || errW != nil || est.Age <= 0 {
		return est
	}

	bmr := BMR(h, w, est.Age, p.Gender)
	est.BMR = &bmr
	if finite(activity) {
		tdee := bmr * activity
		est.TDEE = &tdee
	}
	return est
}

// Validate reports every problem with the inputs, joined.
func Validate(p Profile, birthday time.Time, activity float64, now time.Time) error {
	var errs []error
	if h, err := parseNumber(p.HeightCM); err != nil || h <= 0 {
		errs = append(errs, fmt.Errorf("height must be a positive number, got %q", p.HeightCM))
	}
	if w, err := parseNumber(p.WeightKG); err != nil || w <= 0 {
		errs = append(errs, fmt.Errorf("weight must be a positive number, got %q", p.WeightKG))
	}
	if Age(birthday, now) <= 0 {
		errs = append(errs, errors.New("birthday must be at least one year ago"))
	}
	if !ValidActivity(activity) {
		errs = append(errs, fmt.Errorf("activity must be between %.1f and %.1f, got %.2f", MinActivity, MaxActivity, activity))
	}
	return errors.Join(errs...)
}

// Report is an estimate with display text and every problem with the inputs.
type Report struct {
	Estimate
	BMRText  string   `json:"bmr_text"`
	TDEEText string   `json:"tdee_text"`
	Problems []string `json:"problems"`
}

// NewReport computes the estimate and collects validation problems.
func NewReport(p Profile, birthday time.Time, activity float64, now time.Time) Report {
	est := Compute(p, birthday, activity, now)
	r := Report{
		Estimate: est,
		BMRText:  FormatKcal(est.BMR),
		TDEEText: FormatKcal(est.TDEE),
		Problems: []string{},
	}
	err := Validate(p, birthday, activity, now)
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			r.Problems = append(r.Problems, e.Error())
		}
	} else if err != nil {
		r.Problems = append(r.Problems, err.Error())
	}
	return r
}

// FormatKcal renders an optional value the way the app does: rounded kcal or "--".
func FormatKcal(v *float64) string {
	if v == nil {
		return "--"
	}
	return fmt.Sprintf("%.0f kcal", *v)
}

// ValidActivity reports whether a lies within [MinActivity, MaxActivity].
// NaN is never valid.
func ValidActivity(a float64) bool {
	return a >= MinActivity && a <= MaxActivity
}

// parseNumber rejects NaN and infinities, which strconv accepts.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if !finite(v) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

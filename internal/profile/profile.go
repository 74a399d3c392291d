// Package profile holds the user's self-description used to personalise
// generated questions, reports and matches.
package profile

import (
	"strings"
)

// Gender values offered by the front end. Any other string is passed through
// to the collaborator unchanged.
const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderOther  = "other"
)

// DefaultGender is preselected for a new session.
const DefaultGender = GenderFemale

// MBTITypes lists the sixteen canonical type codes in picker order.
var MBTITypes = []string{
	"INTJ", "INTP", "ENTJ", "ENTP",
	"INFJ", "INFP", "ENFJ", "ENFP",
	"ISTJ", "ISFJ", "ESTJ", "ESFJ",
	"ISTP", "ISFP", "ESTP", "ESFP",
}

// Profile is the user's MBTI, age and gender. Age is kept as entered.
type Profile struct {
	MBTI   string `json:"mbti"`
	Age    string `json:"age"`
	Gender string `json:"gender"`
}

// New returns an empty profile with the default gender.
func New() Profile {
	return Profile{Gender: DefaultGender}
}

// Normalize trims every field, upper-cases MBTI and lower-cases gender,
// filling in the default gender when it is blank.
func (p Profile) Normalize() Profile {
	p.MBTI = strings.ToUpper(strings.TrimSpace(p.MBTI))
	p.Age = strings.TrimSpace(p.Age)
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	if p.Gender == "" {
		p.Gender = DefaultGender
	}
	return p
}

// Missing returns the names of required fields that are empty, in the order
// mbti, age.
func (p Profile) Missing() []string {
	var out []string
	if strings.TrimSpace(p.MBTI) == "" {
		out = append(out, "mbti")
	}
	if strings.TrimSpace(p.Age) == "" {
		out = append(out, "age")
	}
	return out
}

// Complete reports whether MBTI and age are both set.
func (p Profile) Complete() bool {
	return len(p.Missing()) == 0
}

// KnownMBTI reports whether code is one of MBTITypes.
func KnownMBTI(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, t := range MBTITypes {
		if t == code {
			return true
		}
	}
	return false
}

// GenderLabel renders gender the way the report prompt expects it.
func (p Profile) GenderLabel() string {
	if p.Gender == GenderFemale {
		return "女"
	}
	return "男"
}

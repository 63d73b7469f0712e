package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Gender is the closed set of values an actor's gender may take
type Gender string

const (
	GenderMale      Gender = "MALE"
	GenderFemale    Gender = "FEMALE"
	GenderNonBinary Gender = "NON_BINARY"
	GenderOther     Gender = "OTHER"
)

// Genders lists every valid Gender
var Genders = []Gender{GenderMale, GenderFemale, GenderNonBinary, GenderOther}

// ParseGender normalizes s (case-insensitive) into a Gender
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToUpper(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("invalid gender: %q", s)
	}
	return g, nil
}

// Valid reports whether g is one of the known values
func (g Gender) Valid() bool {
	for _, known := range Genders {
		if g == known {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer
func (g Gender) Value() (driver.Value, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("invalid gender: %q", string(g))
	}
	return string(g), nil
}

// Scan implements sql.Scanner
func (g *Gender) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*g = Gender(v)
	case []byte:
		*g = Gender(v)
	case nil:
		*g = ""
	default:
		return fmt.Errorf("cannot scan %T into Gender", src)
	}
	return nil
}

// Actor represents a performer that can be cast in movies
type Actor struct {
	ID     int64  `json:"id" db:"id"`
	Name   string `json:"name" db:"name" validate:"required,max=255"`
	Age    int    `json:"age" db:"age" validate:"gte=0,lte=150"`
	Gender Gender `json:"gender" db:"gender" validate:"required,oneof=MALE FEMALE NON_BINARY OTHER"`
}

// TableName returns the table name for the Actor model
func (Actor) TableName() string {
	return "actors"
}

// NewActor creates a new, not yet persisted Actor
func NewActor(name string, age int, gender Gender) *Actor {
	return &Actor{
		Name:   name,
		Age:    age,
		Gender: gender,
	}
}

// ActorPatch holds the fields of a partial actor update; nil means unchanged
type ActorPatch struct {
	Name   *string
	Age    *int
	Gender *Gender
}

// Apply copies every supplied field onto a
func (p ActorPatch) Apply(a *Actor) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
}

// Empty reports whether the patch changes nothing
func (p ActorPatch) Empty() bool {
	return p.Name == nil && p.Age == nil && p.Gender == nil
}

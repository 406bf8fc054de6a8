// Package models declares the catalog entities served by the menu front-end.
package models

import "database/sql"

// TGUser is a Telegram account known to the bot.
type TGUser struct {
	ID       int64          `db:"id"`
	FullName string         `db:"full_name"`
	Username sql.NullString `db:"username"`
}

// UnitType classifies how a course's credit is earned.
type UnitType int

const (
	UnitTheoretical UnitType = 1
	UnitPractical   UnitType = 2
)

func (u UnitType) String() string {
	switch u {
	case UnitTheoretical:
		return "theoretical"
	case UnitPractical:
		return "practical"
	}
	return "unknown"
}

// CourseType classifies a course within the curriculum.
type CourseType int

const (
	CourseGeneral      CourseType = 1
	CourseFoundational CourseType = 2
	CourseSpecialized  CourseType = 3
	CourseOptional     CourseType = 4
)

func (t CourseType) String() string {
	switch t {
	case CourseGeneral:
		return "general"
	case CourseFoundational:
		return "foundational"
	case CourseSpecialized:
		return "specialized"
	case CourseOptional:
		return "optional"
	}
	return "unknown"
}

// CourseTypes lists the selectable course types in display order.
func CourseTypes() []CourseType {
	return []CourseType{CourseGeneral, CourseFoundational, CourseSpecialized, CourseOptional}
}

// Course is one entry of the course catalog.
type Course struct {
	ID               int64          `db:"id"`
	FaTitle          string         `db:"fa_title"`
	EnTitle          sql.NullString `db:"en_title"`
	OfferingSemester sql.NullInt64  `db:"offering_semester"`
	Credit           int            `db:"credit"`
	QuizCredit       int            `db:"quiz_credit"`
	PrerequisiteID   sql.NullInt64  `db:"prerequisite_course_id"`
	UnitType         UnitType       `db:"unit_type"`
	CourseType       CourseType     `db:"course_type"`
	HasExam          bool           `db:"has_exam"`
	HasProject       bool           `db:"has_project"`
}

// Title returns the display label used on course buttons.
func (c Course) Title() string { return c.FaTitle }

// PlaceGroup buckets campus places for the place menu.
type PlaceGroup int

const (
	GroupEducational    PlaceGroup = 1
	GroupAdministrative PlaceGroup = 2
	GroupDormitory      PlaceGroup = 3
	GroupWelfare        PlaceGroup = 4
	GroupOther          PlaceGroup = 5
)

func (g PlaceGroup) String() string {
	switch g {
	case GroupEducational:
		return "educational"
	case GroupAdministrative:
		return "administrative"
	case GroupDormitory:
		return "dormitory"
	case GroupWelfare:
		return "welfare"
	case GroupOther:
		return "other"
	}
	return "unknown"
}

// PlaceGroups lists the selectable groups in display order.
func PlaceGroups() []PlaceGroup {
	return []PlaceGroup{GroupEducational, GroupAdministrative, GroupDormitory, GroupWelfare, GroupOther}
}

// Place is a campus location with coordinates for the location pin.
type Place struct {
	ID        int64      `db:"id"`
	Name      string     `db:"name"`
	Group     PlaceGroup `db:"place_group"`
	Latitude  float64    `db:"latitude"`
	Longitude float64    `db:"longitude"`
}

// PhoneNumber is one row of the phone directory.
type PhoneNumber struct {
	ID          int64  `db:"id"`
	Name        string `db:"name"`
	PhoneNumber string `db:"phone_number"`
}

// Link is one external link shown in the link list.
type Link struct {
	ID      int64  `db:"id"`
	Name    string `db:"name"`
	Address string `db:"address"`
}

// Text is a localized template row. Rendering replaces {key} markers.
type Text struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	IsButton bool   `db:"is_button"`
	Text     string `db:"text"`
}

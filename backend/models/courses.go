package models

import "time"

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type CourseStatus string

const (
	StatusActive   CourseStatus = "active"
	StatusInactive CourseStatus = "inactive"
	StatusFull     CourseStatus = "full"
	StatusDraft    CourseStatus = "draft"
	StatusArchived CourseStatus = "archived"
)

type CourseFormat string

const (
	FormatRecorded CourseFormat = "recorded"
	FormatLive     CourseFormat = "live"
)

// CourseInfo holds the scalar attributes shared by Course and PopulatedCourse.
type CourseInfo struct {
	CourseID        string       `gorm:"uniqueIndex;size:191" json:"courseId"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Level           CourseLevel  `json:"level"`
	Price           float64      `json:"price"`
	Currency        string       `json:"currency,omitempty"`
	StartDate       *time.Time   `json:"startDate,omitempty"`
	EndDate         *time.Time   `json:"endDate,omitempty"`
	MinParticipants int          `json:"minParticipants"`
	MaxParticipants int          `json:"maxParticipants"`
	Status          CourseStatus `json:"status"`
	Format          CourseFormat `json:"format"`
}

type Course struct {
	Model
	CourseInfo
	Instructors []string `gorm:"type:text;serializer:json" json:"instructors"`
	Users       []string `gorm:"type:text;serializer:json" json:"users"`
	Sections    []string `gorm:"type:text;serializer:json" json:"sections"`
}

// IsFull reports whether enrollment reached maxParticipants. Zero means unlimited.
func (c *Course) IsFull() bool {
	return c.MaxParticipants > 0 && len(c.Users) >= c.MaxParticipants
}

// CourseData is accepted on course creation.
type CourseData struct {
	Title           string       `json:"title" validate:"required"`
	Description     string       `json:"description"`
	Category        string       `json:"category"`
	Level           CourseLevel  `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price           float64      `json:"price" validate:"gte=0"`
	Currency        string       `json:"currency,omitempty"`
	StartDate       *time.Time   `json:"startDate,omitempty"`
	EndDate         *time.Time   `json:"endDate,omitempty"`
	MinParticipants int          `json:"minParticipants" validate:"gte=0"`
	MaxParticipants int          `json:"maxParticipants" validate:"omitempty,gtefield=MinParticipants"`
	Status          CourseStatus `json:"status" validate:"omitempty,oneof=active inactive full draft archived"`
	Format          CourseFormat `json:"format" validate:"omitempty,oneof=recorded live"`
	Instructors     []string     `json:"instructors,omitempty"`
}

// ToCourse builds a new course. courseId is assigned by the server.
func (d CourseData) ToCourse() Course {
	c := Course{
		CourseInfo: CourseInfo{
			Title:           d.Title,
			Description:     d.Description,
			Category:        d.Category,
			Level:           d.Level,
			Price:           d.Price,
			Currency:        d.Currency,
			StartDate:       d.StartDate,
			EndDate:         d.EndDate,
			MinParticipants: d.MinParticipants,
			MaxParticipants: d.MaxParticipants,
			Status:          d.Status,
			Format:          d.Format,
		},
		Instructors: append([]string{}, d.Instructors...),
		Users:       []string{},
		Sections:    []string{},
	}
	if c.Level == "" {
		c.Level = LevelBeginner
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	if c.Format == "" {
		c.Format = FormatRecorded
	}
	return c
}

type CourseUpdate struct {
	Title           *string       `json:"title,omitempty" validate:"omitempty,min=1"`
	Description     *string       `json:"description,omitempty"`
	Category        *string       `json:"category,omitempty"`
	Level           *CourseLevel  `json:"level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Price           *float64      `json:"price,omitempty" validate:"omitempty,gte=0"`
	Currency        *string       `json:"currency,omitempty"`
	StartDate       *time.Time    `json:"startDate,omitempty"`
	EndDate         *time.Time    `json:"endDate,omitempty"`
	MinParticipants *int          `json:"minParticipants,omitempty" validate:"omitempty,gte=0"`
	MaxParticipants *int          `json:"maxParticipants,omitempty" validate:"omitempty,gte=0"`
	Status          *CourseStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive full draft archived"`
	Format          *CourseFormat `json:"format,omitempty" validate:"omitempty,oneof=recorded live"`
	Instructors     []string      `json:"instructors,omitempty"`
}

func (c *Course) Apply(u CourseUpdate) {
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = *u.Description
	}
	if u.Category != nil {
		c.Category = *u.Category
	}
	if u.Level != nil {
		c.Level = *u.Level
	}
	if u.Price != nil {
		c.Price = *u.Price
	}
	if u.Currency != nil {
		c.Currency = *u.Currency
	}
	if u.StartDate != nil {
		c.StartDate = u.StartDate
	}
	if u.EndDate != nil {
		c.EndDate = u.EndDate
	}
	if u.MinParticipants != nil {
		c.MinParticipants = *u.MinParticipants
	}
	if u.MaxParticipants != nil {
		c.MaxParticipants = *u.MaxParticipants
	}
	if u.Status != nil {
		c.Status = *u.Status
	}
	if u.Format != nil {
		c.Format = *u.Format
	}
	if u.Instructors != nil {
		c.Instructors = append([]string{}, u.Instructors...)
	}
}

package models

import (
	"slices"
	"time"
)

type LessonType string

const (
	LessonVideo       LessonType = "video"
	LessonText        LessonType = "text"
	LessonInteractive LessonType = "interactive"
	LessonLiveSession LessonType = "live-session"
)

type Lesson struct {
	Model
	SectionID               string     `gorm:"index;size:36" json:"sectionId"`
	Order                   int        `gorm:"column:sort_order" json:"order"`
	Title                   string     `json:"title"`
	Description             string     `json:"description"`
	Type                    LessonType `json:"type"`
	LiveSessionDate         *time.Time `json:"liveSessionDate,omitempty"`
	EstimatedCompletionTime int        `json:"estimatedCompletionTime"` // minutes
	ContentItems            []string   `gorm:"type:text;serializer:json" json:"contentItems"`
}

type LessonData struct {
	Title                   string     `json:"title" validate:"required"`
	Description             string     `json:"description"`
	Type                    LessonType `json:"type" validate:"required,oneof=video text interactive live-session"`
	Order                   int        `json:"order" validate:"required,min=1"`
	LiveSessionDate         *time.Time `json:"liveSessionDate,omitempty"`
	EstimatedCompletionTime int        `json:"estimatedCompletionTime" validate:"required,min=1"`
}

func (d LessonData) ToLesson(sectionID string) Lesson {
	return Lesson{
		SectionID:               sectionID,
		Order:                   d.Order,
		Title:                   d.Title,
		Description:             d.Description,
		Type:                    d.Type,
		LiveSessionDate:         d.LiveSessionDate,
		EstimatedCompletionTime: d.EstimatedCompletionTime,
		ContentItems:            []string{},
	}
}

// Patch turns a full form submission into an update touching every field,
// clearing liveSessionDate when the form has none.
func (d LessonData) Patch() LessonUpdate {
	u := LessonUpdate{
		Title:                   &d.Title,
		Description:             &d.Description,
		Type:                    &d.Type,
		Order:                   &d.Order,
		LiveSessionDate:         d.LiveSessionDate,
		EstimatedCompletionTime: &d.EstimatedCompletionTime,
	}
	if d.LiveSessionDate == nil {
		u.Unset = []string{FieldLiveSessionDate}
	}
	return u
}

func (l Lesson) Form() LessonData {
	return LessonData{
		Title:                   l.Title,
		Description:             l.Description,
		Type:                    l.Type,
		Order:                   l.Order,
		LiveSessionDate:         l.LiveSessionDate,
		EstimatedCompletionTime: l.EstimatedCompletionTime,
	}
}

type LessonUpdate struct {
	Title                   *string     `json:"title,omitempty" validate:"omitempty,min=1"`
	Description             *string     `json:"description,omitempty"`
	Type                    *LessonType `json:"type,omitempty" validate:"omitempty,oneof=video text interactive live-session"`
	Order                   *int        `json:"order,omitempty" validate:"omitempty,min=1"`
	LiveSessionDate         *time.Time  `json:"liveSessionDate,omitempty"`
	EstimatedCompletionTime *int        `json:"estimatedCompletionTime,omitempty" validate:"omitempty,min=1"`
	Unset                   []string    `json:"unset,omitempty" validate:"omitempty,dive,oneof=liveSessionDate"`
}

func (l *Lesson) Apply(u LessonUpdate) {
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Description != nil {
		l.Description = *u.Description
	}
	if u.Type != nil {
		l.Type = *u.Type
	}
	if u.Order != nil {
		l.Order = *u.Order
	}
	if u.LiveSessionDate != nil {
		l.LiveSessionDate = u.LiveSessionDate
	} else if slices.Contains(u.Unset, FieldLiveSessionDate) {
		l.LiveSessionDate = nil
	}
	if u.EstimatedCompletionTime != nil {
		l.EstimatedCompletionTime = *u.EstimatedCompletionTime
	}
}

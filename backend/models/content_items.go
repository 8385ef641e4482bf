package models

import "slices"

type ContentType string

const (
	ContentText        ContentType = "text"
	ContentVideo       ContentType = "video"
	ContentAudio       ContentType = "audio"
	ContentInteractive ContentType = "interactive"
	ContentQuiz        ContentType = "quiz"
	ContentDocument    ContentType = "document"
	ContentLink        ContentType = "link"
	ContentCodeSnippet ContentType = "code-snippet"
)

type ContentItem struct {
	Model
	LessonID    string      `gorm:"index;size:36" json:"lessonId"`
	Type        ContentType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	// Data is a URL, a text body or an embed reference depending on Type.
	Data     string   `gorm:"type:text" json:"data"`
	Duration *int     `json:"duration,omitempty"` // seconds
	Size     *int64   `json:"size,omitempty"`     // bytes
	FileType string   `json:"fileType,omitempty"`
	Order    int      `gorm:"column:sort_order" json:"order"`
	Tags     []string `gorm:"type:text;serializer:json" json:"tags"`
	Version  int      `json:"version"`
}

type ContentItemData struct {
	Type        ContentType `json:"type" validate:"required,oneof=text video audio interactive quiz document link code-snippet"`
	Title       string      `json:"title" validate:"required"`
	Description string      `json:"description"`
	Data        string      `json:"data" validate:"required"`
	Duration    *int        `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Size        *int64      `json:"size,omitempty" validate:"omitempty,gte=0"`
	FileType    string      `json:"fileType,omitempty"`
	Order       int         `json:"order" validate:"gte=0"`
	Tags        []string    `json:"tags,omitempty"`
}

func (d ContentItemData) ToContentItem(lessonID string) ContentItem {
	tags := append([]string{}, d.Tags...)
	return ContentItem{
		LessonID:    lessonID,
		Type:        d.Type,
		Title:       d.Title,
		Description: d.Description,
		Data:        d.Data,
		Duration:    d.Duration,
		Size:        d.Size,
		FileType:    d.FileType,
		Order:       d.Order,
		Tags:        tags,
		Version:     1,
	}
}

// Patch turns a full form submission into an update touching every field.
// Optional fields left empty in the form are cleared.
func (d ContentItemData) Patch() ContentItemUpdate {
	tags := append([]string{}, d.Tags...)
	u := ContentItemUpdate{
		Type:        &d.Type,
		Title:       &d.Title,
		Description: &d.Description,
		Data:        &d.Data,
		Duration:    d.Duration,
		Size:        d.Size,
		FileType:    &d.FileType,
		Order:       &d.Order,
		Tags:        &tags,
	}
	if d.Duration == nil {
		u.Unset = append(u.Unset, FieldDuration)
	}
	if d.Size == nil {
		u.Unset = append(u.Unset, FieldSize)
	}
	return u
}

// Form returns the editable fields, used to prefill an edit session.
func (ci ContentItem) Form() ContentItemData {
	return ContentItemData{
		Type:        ci.Type,
		Title:       ci.Title,
		Description: ci.Description,
		Data:        ci.Data,
		Duration:    ci.Duration,
		Size:        ci.Size,
		FileType:    ci.FileType,
		Order:       ci.Order,
		Tags:        append([]string{}, ci.Tags...),
	}
}

type ContentItemUpdate struct {
	Type        *ContentType `json:"type,omitempty" validate:"omitempty,oneof=text video audio interactive quiz document link code-snippet"`
	Title       *string      `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string      `json:"description,omitempty"`
	Data        *string      `json:"data,omitempty" validate:"omitempty,min=1"`
	Duration    *int         `json:"duration,omitempty" validate:"omitempty,gte=0"`
	Size        *int64       `json:"size,omitempty" validate:"omitempty,gte=0"`
	FileType    *string      `json:"fileType,omitempty"`
	Order       *int         `json:"order,omitempty" validate:"omitempty,gte=0"`
	// Tags replaces the whole list; a pointer to an empty list clears it.
	Tags *[]string `json:"tags,omitempty"`
	// Unset names optional fields to clear.
	Unset []string `json:"unset,omitempty" validate:"omitempty,dive,oneof=duration size"`
}

// Optional fields an update can clear through Unset.
const (
	FieldDuration        = "duration"
	FieldSize            = "size"
	FieldLiveSessionDate = "liveSessionDate"
)

// Apply mutates the item and bumps its version when anything changed.
func (ci *ContentItem) Apply(u ContentItemUpdate) {
	changed := false
	if u.Type != nil && *u.Type != ci.Type {
		ci.Type, changed = *u.Type, true
	}
	if u.Title != nil && *u.Title != ci.Title {
		ci.Title, changed = *u.Title, true
	}
	if u.Description != nil && *u.Description != ci.Description {
		ci.Description, changed = *u.Description, true
	}
	if u.Data != nil && *u.Data != ci.Data {
		ci.Data, changed = *u.Data, true
	}
	if u.Duration != nil && (ci.Duration == nil || *ci.Duration != *u.Duration) {
		ci.Duration, changed = u.Duration, true
	}
	if u.Size != nil && (ci.Size == nil || *ci.Size != *u.Size) {
		ci.Size, changed = u.Size, true
	}
	if u.FileType != nil && *u.FileType != ci.FileType {
		ci.FileType, changed = *u.FileType, true
	}
	if u.Order != nil && *u.Order != ci.Order {
		ci.Order, changed = *u.Order, true
	}
	if u.Tags != nil && !slices.Equal(ci.Tags, *u.Tags) {
		ci.Tags, changed = append([]string{}, *u.Tags...), true
	}
	if slices.Contains(u.Unset, FieldDuration) && ci.Duration != nil {
		ci.Duration, changed = nil, true
	}
	if slices.Contains(u.Unset, FieldSize) && ci.Size != nil {
		ci.Size, changed = nil, true
	}
	if changed {
		ci.Version++
	}
}

package models

type Section struct {
	Model
	CourseID    string   `gorm:"index;size:36" json:"courseId"`
	Order       int      `gorm:"column:sort_order" json:"order"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	IsOptional  bool     `json:"isOptional"`
	Lessons     []string `gorm:"type:text;serializer:json" json:"lessons"`
}

// SectionData is the create payload of the "Add Section" form.
type SectionData struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Order       int    `json:"order" validate:"required,min=1"`
	IsOptional  bool   `json:"isOptional"`
}

func (d SectionData) ToSection(courseID string) Section {
	return Section{
		CourseID:    courseID,
		Order:       d.Order,
		Title:       d.Title,
		Description: d.Description,
		IsOptional:  d.IsOptional,
		Lessons:     []string{},
	}
}

// Patch turns a full form submission into an update touching every field.
func (d SectionData) Patch() SectionUpdate {
	return SectionUpdate{
		Title:       &d.Title,
		Description: &d.Description,
		Order:       &d.Order,
		IsOptional:  &d.IsOptional,
	}
}

func (s Section) Form() SectionData {
	return SectionData{Title: s.Title, Description: s.Description, Order: s.Order, IsOptional: s.IsOptional}
}

type SectionUpdate struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Order       *int    `json:"order,omitempty" validate:"omitempty,min=1"`
	IsOptional  *bool   `json:"isOptional,omitempty"`
}

func (s *Section) Apply(u SectionUpdate) {
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.Description != nil {
		s.Description = *u.Description
	}
	if u.Order != nil {
		s.Order = *u.Order
	}
	if u.IsOptional != nil {
		s.IsOptional = *u.IsOptional
	}
}

package catalog

import (
	"sort"
	"strings"
)

type CourseFilter struct {
	Search   string `query:"search" json:"search"`
	Level    string `query:"level" json:"level" validate:"omitempty,oneof=all beginner intermediate advanced"`
	Category string `query:"category" json:"category" validate:"omitempty,oneof=all general business conversation exam kids"`
	Sort     string `query:"sort" json:"sort" validate:"omitempty,oneof=popular rating price-low price-high newest"`
}

func (f *CourseFilter) Clean() {
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	f.Level = strings.TrimSpace(f.Level)
	f.Category = strings.TrimSpace(f.Category)
	f.Sort = strings.TrimSpace(f.Sort)
}

// FilterCourses returns the courses matching filter, sorted as it asks (most popular first by default).
func (c *Catalog) FilterCourses(filter CourseFilter) []Course {
	filter.Clean()

	courses := make([]Course, 0, len(c.Courses))
	for _, course := range c.Courses {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(course.Title), filter.Search) &&
			!strings.Contains(strings.ToLower(course.Description), filter.Search) {
			continue
		}
		if !matches(filter.Level, course.Level) || !matches(filter.Category, course.Category) {
			continue
		}
		courses = append(courses, course)
	}

	var less func(a, b Course) bool
	switch filter.Sort {
	case "rating":
		less = func(a, b Course) bool { return a.Rating > b.Rating }
	case "price-low":
		less = func(a, b Course) bool { return a.Price < b.Price }
	case "price-high":
		less = func(a, b Course) bool { return a.Price > b.Price }
	case "newest":
		less = func(a, b Course) bool { return a.ID > b.ID }
	default: // popular
		less = func(a, b Course) bool { return a.Students > b.Students }
	}
	sort.SliceStable(courses, func(i, j int) bool { return less(courses[i], courses[j]) })
	return courses
}

package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type TeacherFilter struct {
	Search     string `query:"search" json:"search"`
	Specialty  string `query:"specialty" json:"specialty"`
	Country    string `query:"country" json:"country"`
	PriceRange string `query:"price" json:"price" validate:"omitempty,oneof=all 0-25 25-35 35-45 45+"`
	Sort       string `query:"sort" json:"sort" validate:"omitempty,oneof=rating experience students price-low price-high"`
}

func (f *TeacherFilter) Clean() {
	f.Search = strings.ToLower(strings.TrimSpace(f.Search))
	f.Specialty = strings.TrimSpace(f.Specialty)
	f.Country = strings.TrimSpace(f.Country)
	f.PriceRange = strings.TrimSpace(f.PriceRange)
	f.Sort = strings.TrimSpace(f.Sort)
}

// PriceRange is an inclusive hourly rate range. Max < 0 means no upper bound.
type PriceRange struct {
	Min, Max int
}

func (r PriceRange) Contains(rate int) bool {
	return rate >= r.Min && (r.Max < 0 || rate <= r.Max)
}

// ParsePriceRange parses `min-max` or `min+`.
func ParsePriceRange(s string) (PriceRange, error) {
	if strings.HasSuffix(s, "+") {
		min, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
		if err != nil {
			return PriceRange{}, errors.Wrapf(err, "parsing price range %q", s)
		}
		return PriceRange{Min: min, Max: -1}, nil
	}

	bounds := strings.SplitN(s, "-", 2)
	if len(bounds) != 2 {
		return PriceRange{}, errors.Errorf("invalid price range %q", s)
	}
	min, err := strconv.Atoi(bounds[0])
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "parsing price range %q", s)
	}
	max, err := strconv.Atoi(bounds[1])
	if err != nil {
		return PriceRange{}, errors.Wrapf(err, "parsing price range %q", s)
	}
	if max < min {
		return PriceRange{}, errors.Errorf("invalid price range %q", s)
	}
	return PriceRange{Min: min, Max: max}, nil
}

// FilterTeachers returns the teachers matching filter, sorted as it asks (best rated first by default).
func (c *Catalog) FilterTeachers(filter TeacherFilter) ([]Teacher, error) {
	filter.Clean()

	var prices *PriceRange
	if filter.PriceRange != "" && filter.PriceRange != All {
		r, err := ParsePriceRange(filter.PriceRange)
		if err != nil {
			return nil, err
		}
		prices = &r
	}

	teachers := make([]Teacher, 0, len(c.Teachers))
	for _, t := range c.Teachers {
		if filter.Search != "" && !teacherMatchesSearch(t, filter.Search) {
			continue
		}
		if filter.Specialty != "" && filter.Specialty != All && !contains(t.Specialties, filter.Specialty) {
			continue
		}
		if !matches(filter.Country, t.Country) {
			continue
		}
		if prices != nil && !prices.Contains(t.HourlyRate) {
			continue
		}
		teachers = append(teachers, t)
	}

	var less func(a, b Teacher) bool
	switch filter.Sort {
	case "experience":
		less = func(a, b Teacher) bool { return a.Experience > b.Experience }
	case "students":
		less = func(a, b Teacher) bool { return a.Students > b.Students }
	case "price-low":
		less = func(a, b Teacher) bool { return a.HourlyRate < b.HourlyRate }
	case "price-high":
		less = func(a, b Teacher) bool { return a.HourlyRate > b.HourlyRate }
	default: // rating
		less = func(a, b Teacher) bool { return a.Rating > b.Rating }
	}
	sort.SliceStable(teachers, func(i, j int) bool { return less(teachers[i], teachers[j]) })
	return teachers, nil
}

// Specialties lists every distinct specialty, in order of first appearance.
func (c *Catalog) Specialties() []string {
	seen := make(map[string]bool)
	var specs []string
	for _, t := range c.Teachers {
		for _, s := range t.Specialties {
			if !seen[s] {
				seen[s] = true
				specs = append(specs, s)
			}
		}
	}
	return specs
}

func teacherMatchesSearch(t Teacher, search string) bool {
	if strings.Contains(strings.ToLower(t.Name), search) {
		return true
	}
	for _, s := range t.Specialties {
		if strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

package catalog_test

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrxclay666777/speakyz/core/catalog"
	appfs "github.com/mrxclay666777/speakyz/fs"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Load(appfs.FS, "data/catalog.yaml")
	require.NoError(t, err)
	return cat
}

func courseIDs(courses []catalog.Course) []int {
	ids := make([]int, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	return ids
}

func teacherIDs(teachers []catalog.Teacher) []int {
	ids := make([]int, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	return ids
}

func TestLoad(t *testing.T) {
	cat := loadCatalog(t)
	assert.Len(t, cat.Courses, 6)
	assert.Len(t, cat.Teachers, 6)
	assert.Len(t, cat.SessionTemplates, 6)
	assert.Len(t, cat.SessionInstructors, 4)

	t.Run("templates without instructors", func(t *testing.T) {
		fsys := fstest.MapFS{"c.yaml": {Data: []byte("session_templates:\n  - {title: Club, type: group}\n")}}
		_, err := catalog.Load(fsys, "c.yaml")
		assert.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := catalog.Load(fstest.MapFS{}, "c.yaml")
		assert.Error(t, err)
	})
}

func TestCatalog_FilterCourses(t *testing.T) {
	cat := loadCatalog(t)

	tests := []struct {
		name   string
		filter catalog.CourseFilter
		want   []int
	}{
		{name: "default is most popular first", want: []int{6, 3, 1, 4, 2, 5}},
		{name: "all", filter: catalog.CourseFilter{Level: "all", Category: "all"}, want: []int{6, 3, 1, 4, 2, 5}},
		{name: "search title and description", filter: catalog.CourseFilter{Search: "  English "}, want: []int{6, 1, 4, 2, 5}},
		{name: "search is case insensitive", filter: catalog.CourseFilter{Search: "ielts"}, want: []int{3}},
		{name: "level", filter: catalog.CourseFilter{Level: "intermediate", Sort: "price-low"}, want: []int{4, 2, 3}},
		{name: "category", filter: catalog.CourseFilter{Category: "general", Sort: "newest"}, want: []int{5, 1}},
		{name: "rating keeps ties in order", filter: catalog.CourseFilter{Sort: "rating"}, want: []int{1, 3, 5, 2, 6, 4}},
		{name: "price high", filter: catalog.CourseFilter{Sort: "price-high"}, want: []int{5, 3, 2, 1, 6, 4}},
		{name: "no match", filter: catalog.CourseFilter{Level: "advanced", Category: "kids"}, want: []int{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, courseIDs(cat.FilterCourses(tc.filter)))
		})
	}
}

func TestCatalog_FilterTeachers(t *testing.T) {
	cat := loadCatalog(t)

	tests := []struct {
		name   string
		filter catalog.TeacherFilter
		want   []int
	}{
		{name: "default is best rated first", want: []int{1, 3, 5, 2, 6, 4}},
		{name: "price range bounds are inclusive", filter: catalog.TeacherFilter{PriceRange: "25-35"}, want: []int{1, 6, 4}},
		{name: "mid price range", filter: catalog.TeacherFilter{PriceRange: "35-45"}, want: []int{1, 3, 5, 2}},
		{name: "open price range", filter: catalog.TeacherFilter{PriceRange: "45+"}, want: []int{5}},
		{name: "cheap", filter: catalog.TeacherFilter{PriceRange: "0-25"}, want: []int{}},
		{name: "country", filter: catalog.TeacherFilter{Country: "United States", Sort: "experience"}, want: []int{5, 6, 1}},
		{name: "search name or specialty", filter: catalog.TeacherFilter{Search: "Business", Sort: "students"}, want: []int{1, 2}},
		{name: "specialty", filter: catalog.TeacherFilter{Specialty: "TOEFL"}, want: []int{3}},
		{name: "price low", filter: catalog.TeacherFilter{Sort: "price-low"}, want: []int{4, 6, 1, 3, 2, 5}},
		{name: "price high", filter: catalog.TeacherFilter{Sort: "price-high"}, want: []int{5, 2, 3, 1, 6, 4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			teachers, err := cat.FilterTeachers(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, teacherIDs(teachers))
		})
	}

	_, err := cat.FilterTeachers(catalog.TeacherFilter{PriceRange: "cheap"})
	assert.Error(t, err)
}

func TestParsePriceRange(t *testing.T) {
	tests := []struct {
		in      string
		want    catalog.PriceRange
		wantErr bool
	}{
		{in: "25-35", want: catalog.PriceRange{Min: 25, Max: 35}},
		{in: "45+", want: catalog.PriceRange{Min: 45, Max: -1}},
		{in: "35-25", wantErr: true},
		{in: "x+", wantErr: true},
		{in: "25", wantErr: true},
		{in: "a-b", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := catalog.ParsePriceRange(tc.in)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	assert.True(t, catalog.PriceRange{Min: 45, Max: -1}.Contains(1000))
	assert.False(t, catalog.PriceRange{Min: 25, Max: 35}.Contains(36))
}

func TestCatalog_Specialties(t *testing.T) {
	specs := loadCatalog(t).Specialties()
	assert.Equal(t, "IELTS Preparation", specs[0])
	assert.Contains(t, specs, "Games & Activities")

	seen := make(map[string]bool)
	for _, s := range specs {
		assert.False(t, seen[s], s)
		seen[s] = true
	}
}

func TestCatalog_Schedule(t *testing.T) {
	cat := loadCatalog(t)
	from := time.Date(2025, 6, 1, 15, 42, 0, 0, time.UTC)

	days := cat.Schedule(from, catalog.ScheduleFilter{})
	require.Len(t, days, catalog.ScheduleDays)
	for i, day := range days {
		assert.Equal(t, from.AddDate(0, 0, i).Format("2006-01-02"), day.Date)
		assert.GreaterOrEqual(t, len(day.Sessions), 3)
		assert.LessOrEqual(t, len(day.Sessions), 6)
		for j, s := range day.Sessions {
			assert.Equal(t, day.Date, s.Date)
			assert.GreaterOrEqual(t, s.Start.Hour(), 8)
			assert.Less(t, s.Start.Hour(), 20)
			assert.Less(t, s.CurrentStudents, s.MaxStudents)
			if s.Format == catalog.FormatOffline {
				assert.NotEmpty(t, s.Location)
			} else {
				assert.Empty(t, s.Location)
			}
			if j > 0 {
				assert.False(t, s.Start.Before(day.Sessions[j-1].Start), "sessions out of order")
			}
		}
	}

	t.Run("stable per date", func(t *testing.T) {
		midnight := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, days, cat.Schedule(midnight, catalog.ScheduleFilter{}))

		next := cat.Schedule(from.AddDate(0, 0, 1), catalog.ScheduleFilter{})
		assert.Equal(t, days[1:], next[:catalog.ScheduleDays-1])
	})

	t.Run("filtered", func(t *testing.T) {
		filtered := cat.Schedule(from, catalog.ScheduleFilter{Type: catalog.TypeIndividual, Format: "all"})
		for _, day := range filtered {
			require.NotEmpty(t, day.Sessions)
			for _, s := range day.Sessions {
				assert.Equal(t, catalog.TypeIndividual, s.Type)
				assert.Equal(t, 60, s.Duration)
				assert.Equal(t, 1, s.MaxStudents)
			}
		}
	})

	t.Run("no templates", func(t *testing.T) {
		assert.Empty(t, new(catalog.Catalog).Schedule(from, catalog.ScheduleFilter{}))
	})
}

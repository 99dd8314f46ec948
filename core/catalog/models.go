package catalog

import (
	"io/fs"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"

	// any filter field set to All (or left empty) matches everything
	All = "all"
)

type (
	Instructor struct {
		Name     string  `json:"name" yaml:"name"`
		Rating   float64 `json:"rating" yaml:"rating"`
		Students int     `json:"students,omitempty" yaml:"students"`
	}

	Course struct {
		ID            int        `json:"id" yaml:"id"`
		Title         string     `json:"title" yaml:"title"`
		Description   string     `json:"description" yaml:"description"`
		Level         string     `json:"level" yaml:"level"`
		Category      string     `json:"category" yaml:"category"`
		Duration      string     `json:"duration" yaml:"duration"`
		Lessons       int        `json:"lessons" yaml:"lessons"`
		Students      int        `json:"students" yaml:"students"`
		Rating        float64    `json:"rating" yaml:"rating"`
		Reviews       int        `json:"reviews" yaml:"reviews"`
		Price         int        `json:"price" yaml:"price"`
		OriginalPrice int        `json:"original_price,omitempty" yaml:"original_price"`
		Instructor    Instructor `json:"instructor" yaml:"instructor"`
		Features      []string   `json:"features" yaml:"features"`
		Badge         string     `json:"badge,omitempty" yaml:"badge"`
		Popular       bool       `json:"popular,omitempty" yaml:"popular"`
	}

	Teacher struct {
		ID               int      `json:"id" yaml:"id"`
		Name             string   `json:"name" yaml:"name"`
		Title            string   `json:"title" yaml:"title"`
		Specialties      []string `json:"specialties" yaml:"specialties"`
		Languages        []string `json:"languages" yaml:"languages"`
		Experience       int      `json:"experience" yaml:"experience"`
		Rating           float64  `json:"rating" yaml:"rating"`
		Reviews          int      `json:"reviews" yaml:"reviews"`
		Students         int      `json:"students" yaml:"students"`
		LessonsCompleted int      `json:"lessons_completed" yaml:"lessons_completed"`
		HourlyRate       int      `json:"hourly_rate" yaml:"hourly_rate"`
		Availability     []string `json:"availability" yaml:"availability"`
		Timezone         string   `json:"timezone" yaml:"timezone"`
		Country          string   `json:"country" yaml:"country"`
		Flag             string   `json:"flag" yaml:"flag"`
		Bio              string   `json:"bio" yaml:"bio"`
		TeachingStyle    string   `json:"teaching_style" yaml:"teaching_style"`
		Featured         bool     `json:"featured,omitempty" yaml:"featured"`
		Online           bool     `json:"online,omitempty" yaml:"online"`
	}

	// SessionTemplate describes a recurring class the schedule is generated from.
	SessionTemplate struct {
		Title    string `yaml:"title"`
		Category string `yaml:"category"`
		Level    string `yaml:"level"`
		Type     string `yaml:"type"`
		Price    int    `yaml:"price"`
	}

	// Catalog holds the read-only listings of the site.
	Catalog struct {
		Courses            []Course          `yaml:"courses"`
		Teachers           []Teacher         `yaml:"teachers"`
		SessionTemplates   []SessionTemplate `yaml:"session_templates"`
		SessionInstructors []Instructor      `yaml:"session_instructors"`
	}
)

// Load parses the catalog file at name in fsys.
func Load(fsys fs.FS, name string) (*Catalog, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	cat := new(Catalog)
	if err := yaml.Unmarshal(b, cat); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	if len(cat.SessionTemplates) > 0 && len(cat.SessionInstructors) == 0 {
		return nil, errors.Errorf("%s: session templates need at least one instructor", name)
	}
	return cat, nil
}

func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

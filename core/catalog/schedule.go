package catalog

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"
)

const (
	ScheduleDays = 14

	TypeGroup      = "group"
	TypeIndividual = "individual"
	TypeWorkshop   = "workshop"

	FormatOnline  = "online"
	FormatOffline = "offline"

	learningCenter = "Speakyz Learning Center"
	dateLayout     = "2006-01-02"
)

type (
	Session struct {
		ID              string     `json:"id"`
		Title           string     `json:"title"`
		Description     string     `json:"description"`
		Instructor      Instructor `json:"instructor"`
		Date            string     `json:"date"`
		Time            string     `json:"time"`
		Start           time.Time  `json:"start"`
		Duration        int        `json:"duration"` // minutes
		Level           string     `json:"level"`
		Type            string     `json:"type"`
		Format          string     `json:"format"`
		Location        string     `json:"location,omitempty"`
		MaxStudents     int        `json:"max_students"`
		CurrentStudents int        `json:"current_students"`
		Price           int        `json:"price"`
		Category        string     `json:"category"`
		Available       bool       `json:"available"`
	}

	// Day groups the sessions starting on the same date.
	Day struct {
		Date     string    `json:"date"`
		Sessions []Session `json:"sessions"`
	}

	ScheduleFilter struct {
		Level    string `query:"level" json:"level" validate:"omitempty,oneof=all beginner intermediate advanced"`
		Type     string `query:"type" json:"type" validate:"omitempty,oneof=all group individual workshop"`
		Format   string `query:"format" json:"format" validate:"omitempty,oneof=all online offline"`
		Category string `query:"category" json:"category" validate:"omitempty,oneof=all general business conversation exam kids"`
	}
)

func (f ScheduleFilter) match(s Session) bool {
	return matches(f.Level, s.Level) &&
		matches(f.Type, s.Type) &&
		matches(f.Format, s.Format) &&
		matches(f.Category, s.Category)
}

// Schedule returns the sessions of the ScheduleDays days starting on from's date, grouped by date.
// A date always yields the same sessions: each day is generated from a PRNG seeded with the date.
func (c *Catalog) Schedule(from time.Time, filter ScheduleFilter) []Day {
	if len(c.SessionTemplates) == 0 {
		return []Day{}
	}

	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, from.Location())

	days := make([]Day, 0, ScheduleDays)
	for i := 0; i < ScheduleDays; i++ {
		date := start.AddDate(0, 0, i)

		var sessions []Session
		for _, s := range c.daySessions(date) {
			if filter.match(s) {
				sessions = append(sessions, s)
			}
		}
		if len(sessions) > 0 {
			days = append(days, Day{Date: date.Format(dateLayout), Sessions: sessions})
		}
	}
	return days
}

func (c *Catalog) daySessions(date time.Time) []Session {
	y, m, d := date.Date()
	seed := uint64(y*10000 + int(m)*100 + d)
	rng := rand.New(rand.NewPCG(seed, seed^0x5eed))

	count := 3 + rng.IntN(4) // 3 to 6 sessions a day
	sessions := make([]Session, 0, count)
	for i := 0; i < count; i++ {
		tmpl := c.SessionTemplates[rng.IntN(len(c.SessionTemplates))]
		instructor := c.SessionInstructors[rng.IntN(len(c.SessionInstructors))]
		hour := 8 + rng.IntN(12) // 8AM to 7:30PM
		minute := 0
		if rng.IntN(2) == 1 {
			minute = 30
		}
		format := FormatOnline
		if rng.Float64() < .3 {
			format = FormatOffline
		}

		duration, capacity := 90, 8
		switch tmpl.Type {
		case TypeIndividual:
			duration, capacity = 60, 1
		case TypeWorkshop:
			duration, capacity = 120, 20
		}

		start := time.Date(y, m, d, hour, minute, 0, 0, date.Location())
		s := Session{
			ID:              fmt.Sprintf("%s-%d", date.Format(dateLayout), i),
			Title:           tmpl.Title,
			Description:     fmt.Sprintf("Join our %s session and improve your English skills with expert guidance.", strings.ToLower(tmpl.Title)),
			Instructor:      instructor,
			Date:            date.Format(dateLayout),
			Time:            start.Format("15:04"),
			Start:           start,
			Duration:        duration,
			Level:           tmpl.Level,
			Type:            tmpl.Type,
			Format:          format,
			MaxStudents:     capacity,
			CurrentStudents: rng.IntN(capacity),
			Price:           tmpl.Price,
			Category:        tmpl.Category,
			Available:       rng.Float64() >= .2,
		}
		if format == FormatOffline {
			s.Location = learningCenter
		}
		sessions = append(sessions, s)
	}

	sort.SliceStable(sessions, func(i, j int) bool { return sessions[i].Start.Before(sessions[j].Start) })
	return sessions
}

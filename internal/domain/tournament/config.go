package tournament

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultDaysBetweenRounds = 7
	defaultGroupSize         = 4
	defaultAdvancePerGroup   = 2
	defaultTimeSlot          = "10:00"
	defaultVenue             = "TBD"
)

var validate = validator.New()

// Config controls slotting and format parameters. Zero values take the
// defaults documented on each field.
type Config struct {
	// Venue is used for every game when Venues is empty. Default "TBD".
	Venue string `json:"venue"`
	// Venues cycle in generation order when set.
	Venues []string `json:"venues" validate:"dive,required"`
	// TimeSlots are "HH:MM" kick-off times cycled in generation order. Default 10:00.
	TimeSlots []string  `json:"time_slots" validate:"dive,datetime=15:04"`
	StartDate time.Time `json:"start_date" validate:"required"`
	// DaysBetweenRounds spaces round dates forward from StartDate. Default 7.
	DaysBetweenRounds int `json:"days_between_rounds" validate:"gte=0,lte=365"`
	// Rounds is the Swiss round count.
	Rounds int `json:"rounds" validate:"gte=0,lte=64"`
	// GroupSize is the target group size. Default 4.
	GroupSize int `json:"group_size" validate:"omitempty,gte=2"`
	// AdvancePerGroup is how many finishers per group reach the playoffs. Default 2.
	AdvancePerGroup int `json:"advance_per_group" validate:"gte=0"`
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.DaysBetweenRounds == 0 {
		c.DaysBetweenRounds = defaultDaysBetweenRounds
	}
	if c.GroupSize == 0 {
		c.GroupSize = defaultGroupSize
	}
	if c.AdvancePerGroup == 0 {
		c.AdvancePerGroup = defaultAdvancePerGroup
	}
	if len(c.TimeSlots) == 0 {
		c.TimeSlots = []string{defaultTimeSlot}
	}
	if c.Venue == "" {
		c.Venue = defaultVenue
	}
	return c
}

func (c Config) roundDate(round int) string {
	return c.StartDate.AddDate(0, 0, (round-1)*c.DaysBetweenRounds).Format(dateLayout)
}

// slotter hands out time slots and venues to playable games in order.
type slotter struct {
	cfg  Config
	next int
}

func newSlotter(cfg Config) *slotter {
	return &slotter{cfg: cfg}
}

func (s *slotter) assign(g *Game) {
	if g.IsBye {
		return
	}

	g.GameDate = s.cfg.roundDate(g.Round)
	g.GameTime = s.cfg.TimeSlots[s.next%len(s.cfg.TimeSlots)]
	if len(s.cfg.Venues) > 0 {
		g.Location = s.cfg.Venues[s.next%len(s.cfg.Venues)]
	} else {
		g.Location = s.cfg.Venue
	}
	s.next++
}

func prepare(teams []Team, cfg Config, minTeams int) (Config, error) {
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	if err := validateRoster(teams, minTeams); err != nil {
		return Config{}, err
	}
	return cfg.withDefaults(), nil
}

// Package catalog provides the seed set of activities the registry starts with.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned when a catalog file fails validation.
var ErrInvalidCatalog = errors.New("invalid catalog")

// Default returns the built-in Mergington High School catalog. Each call
// returns a fresh map.
func Default() map[string]model.Activity {
	return map[string]model.Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
		},
		"Basketball Team": {
			Description:     "Practice drills and compete in inter-school basketball games",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 15,
			Participants:    []string{"liam@mergington.edu"},
		},
		"Swimming Club": {
			Description:     "Improve swimming technique and train for meets",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:00 PM",
			MaxParticipants: 20,
			Participants:    []string{"ava@mergington.edu"},
		},
		"Art Club": {
			Description:     "Explore painting, drawing and mixed media",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 18,
			Participants:    []string{"mia@mergington.edu"},
		},
		"Drama Club": {
			Description:     "Act, direct and produce the school plays",
			Schedule:        "Wednesdays, 3:30 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{"noah@mergington.edu"},
		},
		"Math Olympiad": {
			Description:     "Solve challenging problems and prepare for math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"isabella@mergington.edu"},
		},
		"Debate Team": {
			Description:     "Build public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 16,
			Participants:    []string{"ethan@mergington.edu"},
		},
	}
}

// LoadFile reads a YAML catalog mapping activity names to activities.
func LoadFile(path string) (map[string]model.Activity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog document.
func Parse(data []byte) (map[string]model.Activity, error) {
	var activities map[string]model.Activity
	if err := yaml.Unmarshal(data, &activities); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := Validate(activities); err != nil {
		return nil, err
	}
	return activities, nil
}

// Validate checks a catalog for empty names, non-positive capacities and
// empty or duplicate participants.
func Validate(activities map[string]model.Activity) error {
	if len(activities) == 0 {
		return fmt.Errorf("%w: no activities defined", ErrInvalidCatalog)
	}
	for name, a := range activities {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: activity name is empty", ErrInvalidCatalog)
		}
		if a.MaxParticipants <= 0 {
			return fmt.Errorf("%w: %q: max_participants must be a positive integer", ErrInvalidCatalog, name)
		}
		seen := make(map[string]struct{}, len(a.Participants))
		for _, p := range a.Participants {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("%w: %q: empty participant", ErrInvalidCatalog, name)
			}
			if _, dup := seen[p]; dup {
				return fmt.Errorf("%w: %q: duplicate participant %s", ErrInvalidCatalog, name, p)
			}
			seen[p] = struct{}{}
		}
	}
	return nil
}

package candidates

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/vitgroww/roomie/internal/roommate"
)

const (
	CandidateIDField    = "ID"
	CandidateBlockField = "Block"
)

type Candidates struct {
	Items []*Candidate
}

// Candidate is a roommate profile plus the identity fields shown to the requester.
type Candidate struct {
	ID      string           `json:"id" mapstructure:"id" validate:"required"`
	Name    string           `json:"name" mapstructure:"name" validate:"required"`
	Bio     string           `json:"bio,omitempty" mapstructure:"bio"`
	Contact string           `json:"contact,omitempty" mapstructure:"contact"`
	Profile roommate.Profile `json:"profile" mapstructure:"profile"`
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) IDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, candidate := range c.Items {
		ids = append(ids, candidate.ID)
	}
	return ids
}

func (c *Candidates) FindByID(id string) *Candidate {
	for _, candidate := range c.Items {
		if candidate.ID == id {
			return candidate
		}
	}
	return nil
}

func (ca *Candidate) GetStringField(name string) string {
	switch name {
	case CandidateIDField:
		return ca.ID
	case CandidateBlockField:
		return string(ca.Profile.PreferredBlock)
	default:
		return ""
	}
}

// Exclude removes every candidate whose field equals one of targets and
// returns the removed IDs. The order of the remaining candidates is kept,
// since ties in the ranking fall back to it.
func (c *Candidates) Exclude(name string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[target] = struct{}{}
	}

	var excluded []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if _, ok := drop[candidate.GetStringField(name)]; ok {
			excluded = append(excluded, candidate.ID)
			continue
		}
		kept = append(kept, candidate)
	}
	clear(c.Items[len(kept):])
	c.Items = kept

	return excluded
}

// Keep retains only candidates for which keep returns true and returns the dropped IDs.
func (c *Candidates) Keep(keep func(*Candidate) bool) []string {
	var dropped []string
	kept := c.Items[:0]
	for _, candidate := range c.Items {
		if keep(candidate) {
			kept = append(kept, candidate)
			continue
		}
		dropped = append(dropped, candidate.ID)
	}
	clear(c.Items[len(kept):])
	c.Items = kept

	return dropped
}

// ReportByBlock groups candidates by their preferred block.
func (c *Candidates) ReportByBlock() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, candidate := range c.Items {
		key := fmt.Sprintf("block %s", candidate.Profile.PreferredBlock)
		report[key] = append(report[key], map[string]string{
			"id":      candidate.ID,
			"name":    candidate.Name,
			"mess":    string(candidate.Profile.MessPreference),
			"room":    string(candidate.Profile.RoomType),
			"ac":      string(candidate.Profile.ACPreference),
			"contact": candidate.Contact,
		})
	}

	for key := range report {
		sort.SliceStable(report[key], func(i, j int) bool {
			return report[key][i]["name"] < report[key][j]["name"]
		})
	}
	return report
}

// DumpToTmpFile writes the candidates as a JSON array that LoadFile (and so
// the import command) accepts, and returns the file name.
func (c *Candidates) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "candidates_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c.Items); err != nil {
		return "", err
	}
	return file.Name(), nil
}

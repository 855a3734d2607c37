// Package catalog holds the festival lineup.
//
// A Catalog is loaded once at startup from a YAML (or JSON) lineup file and is
// never modified afterwards. It is the source of every Item the planner works
// with and provides the browsing helpers used by the CLI and the API.
package catalog

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"
)

// Catalog is an immutable, indexed festival lineup.
type Catalog struct {
	name  string
	items []Item
	byID  map[string]int
}

// lineupFile is the on-disk lineup format.
type lineupFile struct {
	Festival string       `yaml:"festival"`
	Concerts []lineupItem `yaml:"concerts"`
}

type lineupItem struct {
	ID        string            `yaml:"id"`
	Day       string            `yaml:"day"`
	Date      string            `yaml:"date"`
	Stage     string            `yaml:"stage"`
	Artist    string            `yaml:"artist"`
	StartTime string            `yaml:"startTime"`
	EndTime   string            `yaml:"endTime"`
	Extra     map[string]string `yaml:",inline"`
}

// Load reads and parses the lineup file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lineup %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes a lineup file. Concerts without an explicit id are given
// "concert-<index>", where index is their position in the file.
func Parse(data []byte) (*Catalog, error) {
	var f lineupFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lineup: %w", err)
	}

	items := make([]Item, 0, len(f.Concerts))
	for i, raw := range f.Concerts {
		item, err := raw.toItem(i)
		if err != nil {
			return nil, fmt.Errorf("concert #%d: %w", i, err)
		}
		items = append(items, item)
	}

	cat, err := New(items)
	if err != nil {
		return nil, err
	}
	cat.name = f.Festival
	return cat, nil
}

func (r lineupItem) toItem(index int) (Item, error) {
	id := r.ID
	if id == "" {
		id = fmt.Sprintf("concert-%d", index)
	}
	day, err := ParseDay(r.Day)
	if err != nil {
		return Item{}, err
	}
	start, err := ParseTimeOfDay(r.StartTime)
	if err != nil {
		return Item{}, fmt.Errorf("startTime: %w", err)
	}
	end, err := ParseTimeOfDay(r.EndTime)
	if err != nil {
		return Item{}, fmt.Errorf("endTime: %w", err)
	}

	var attrs map[string]string
	if len(r.Extra) > 0 {
		attrs = make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			attrs[k] = v
		}
	}

	return Item{
		ID:         id,
		Day:        day,
		Date:       r.Date,
		Stage:      r.Stage,
		Artist:     r.Artist,
		Start:      start,
		End:        end,
		Attributes: attrs,
	}, nil
}

// New builds a Catalog from items, rejecting malformed items and duplicate ids.
func New(items []Item) (*Catalog, error) {
	c := &Catalog{
		items: make([]Item, 0, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate concert id %q", item.ID)
		}
		c.byID[item.ID] = len(c.items)
		c.items = append(c.items, item)
	}
	return c, nil
}

// Name returns the festival name from the lineup file, if any.
func (c *Catalog) Name() string {
	return c.name
}

// Len returns the total number of concerts.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Get looks up a concert by id.
func (c *Catalog) Get(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Items returns all concerts in lineup order.
func (c *Catalog) Items() []Item {
	return slices.Clone(c.items)
}

// Days returns the days present in the lineup, in DayOrder.
func (c *Catalog) Days() []Day {
	present := make(map[Day]bool)
	for _, item := range c.items {
		present[item.Day] = true
	}
	var days []Day
	for _, day := range DayOrder {
		if present[day] {
			days = append(days, day)
		}
	}
	return days
}

// Stages returns the distinct stage names, sorted.
func (c *Catalog) Stages() []string {
	seen := make(map[string]bool)
	var stages []string
	for _, item := range c.items {
		if !seen[item.Stage] {
			seen[item.Stage] = true
			stages = append(stages, item.Stage)
		}
	}
	sort.Strings(stages)
	return stages
}

// Suggest returns up to limit concerts whose id or artist is close to query,
// closest first. It is used to produce "did you mean" hints.
func (c *Catalog) Suggest(query string, limit int) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || limit <= 0 {
		return nil
	}
	maxDist := max(2, len(q)/3)

	type candidate struct {
		item Item
		dist int
	}
	var candidates []candidate
	for _, item := range c.items {
		d := min(
			levenshtein.ComputeDistance(q, strings.ToLower(item.ID)),
			levenshtein.ComputeDistance(q, strings.ToLower(item.Artist)),
		)
		if d <= maxDist {
			candidates = append(candidates, candidate{item: item, dist: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].dist < candidates[j].dist
	})

	var out []Item
	for _, cand := range candidates {
		if len(out) == limit {
			break
		}
		out = append(out, cand.item)
	}
	return out
}

// Package geo builds the country/state/city/street hierarchy that customer
// addresses resolve against. Cities are spread across states (and streets
// across cities) by a capacity counter: a random parent is accepted only while
// it holds fewer children than the counter, and the counter is raised once
// every parent is full. The result is near-even distribution without explicit
// round-robin bookkeeping.
package geo

import (
	"math/rand"

	"github.com/pkg/errors"

	"bankgen/internal/util"
)

// CitiesPerCode is the number of cities sharing one phone area code.
const CitiesPerCode = 6

// maxPickTries bounds random-parent selection so a logic bug surfaces as an
// error instead of a hang.
const maxPickTries = 1 << 16

// City holds a name, zip code, and its assigned streets.
type City struct {
	Name    string
	Zip     int
	Streets []string
}

// State holds its cities, street capacity counter, and phone area codes.
type State struct {
	Name      string
	Cities    []City
	Codes     []string
	capStreet int
}

// Country is the root of the geography. All randomness flows through the
// injected rand so runs are reproducible.
type Country struct {
	States  []State
	rand    *rand.Rand
	codes   *CodeRegistry
	capCity int
}

// NewCountry creates an empty country using r for all assignment decisions.
func NewCountry(r *rand.Rand) *Country {
	return &Country{rand: r, codes: NewCodeRegistry(r)}
}

// AddState appends a state with no cities.
func (c *Country) AddState(name string) {
	c.States = append(c.States, State{Name: name})
}

// AssignCity places a city in a random state that is below the current
// capacity, raising the capacity when every state is full. The state's area
// codes are topped up so every city maps to a code.
func (c *Country) AssignCity(name string, zip int) error {
	if len(c.States) == 0 {
		return errors.New("assign city: country has no states")
	}
	if c.cityCapReached() {
		c.capCity++
	}
	for i := 0; i < maxPickTries; i++ {
		st := &c.States[c.rand.Intn(len(c.States))]
		if len(st.Cities) >= c.capCity {
			continue
		}
		st.Cities = append(st.Cities, City{Name: name, Zip: zip})
		return st.refreshCodes(c.codes)
	}
	return errors.New("assign city: no state below capacity")
}

// AssignStreet places a street in a random city of state si that is below the
// street capacity, raising the capacity when every city is full.
func (c *Country) AssignStreet(si int, street string) error {
	if si < 0 || si >= len(c.States) {
		return errors.Errorf("assign street: no state %d", si)
	}
	st := &c.States[si]
	if len(st.Cities) == 0 {
		return errors.Errorf("assign street: state %q has no cities", st.Name)
	}
	if st.streetCapReached() {
		st.capStreet++
	}
	for i := 0; i < maxPickTries; i++ {
		ct := &st.Cities[c.rand.Intn(len(st.Cities))]
		if len(ct.Streets) >= st.capStreet {
			continue
		}
		ct.Streets = append(ct.Streets, street)
		return nil
	}
	return errors.New("assign street: no city below capacity")
}

// NumStates returns the number of states.
func (c *Country) NumStates() int {
	return len(c.States)
}

// State returns the i-th state.
func (c *Country) State(i int) *State {
	return &c.States[i]
}

// CityCap returns the current city capacity counter.
func (c *Country) CityCap() int {
	return c.capCity
}

// RandAddress picks uniform state/city/street indices from the hierarchy.
func (c *Country) RandAddress() (state int, city int, street int, err error) {
	if len(c.States) == 0 {
		return 0, 0, 0, errors.New("address: country has no states")
	}
	state = c.rand.Intn(len(c.States))
	st := &c.States[state]
	if len(st.Cities) == 0 {
		return 0, 0, 0, errors.Errorf("address: state %q has no cities", st.Name)
	}
	city = c.rand.Intn(len(st.Cities))
	ct := &st.Cities[city]
	if len(ct.Streets) == 0 {
		return 0, 0, 0, errors.Errorf("address: city %q has no streets", ct.Name)
	}
	street = c.rand.Intn(len(ct.Streets))
	return state, city, street, nil
}

func (c *Country) cityCapReached() bool {
	for i := range c.States {
		if len(c.States[i].Cities) < c.capCity {
			return false
		}
	}
	return true
}

// Code returns the area code for the i-th city of the state. Codes rotate
// every CitiesPerCode cities.
func (s *State) Code(cityIndex int) string {
	return s.Codes[cityIndex/CitiesPerCode]
}

// NumCities returns the number of cities in the state.
func (s *State) NumCities() int {
	return len(s.Cities)
}

func (s *State) streetCapReached() bool {
	for i := range s.Cities {
		if len(s.Cities[i].Streets) < s.capStreet {
			return false
		}
	}
	return true
}

// refreshCodes generates area codes until every city has one.
func (s *State) refreshCodes(reg *CodeRegistry) error {
	need := len(s.Cities)/CitiesPerCode + 1
	for need > len(s.Codes) {
		code, err := reg.GenCode()
		if err != nil {
			return err
		}
		s.Codes = append(s.Codes, code)
	}
	return nil
}

// streetPrefixes are directional modifiers occasionally prepended to street
// names during placement.
var streetPrefixes = []string{"E. ", "W. ", "S. ", "N. "}

// PlaceStreet assigns one street name to count distinct random states, each
// time with a 4-in-10 chance of a directional prefix.
func (c *Country) PlaceStreet(name string, count int) error {
	if len(c.States) == 0 {
		return errors.New("place street: country has no states")
	}
	if count > len(c.States) {
		count = len(c.States)
	}
	used := make(map[int]struct{}, count)
	for k := 0; k < count; k++ {
		si := c.rand.Intn(len(c.States))
		for i := 0; ; i++ {
			if _, dup := used[si]; !dup {
				break
			}
			if i >= maxPickTries {
				return errors.New("place street: no unused state")
			}
			si = c.rand.Intn(len(c.States))
		}
		used[si] = struct{}{}

		street := name
		if mod := c.rand.Intn(10); mod == 1 || mod == 3 || mod == 5 || mod == 7 {
			street = streetPrefixes[mod/2] + name
		}
		if err := c.AssignStreet(si, street); err != nil {
			return err
		}
	}
	return nil
}

// Build constructs a country from parsed rows: states first, then cities
// spread across states, then each street placed into half the states plus one.
func Build(r *rand.Rand, states []string, cities []CityRow, streets []string) (*Country, error) {
	if len(states) == 0 {
		return nil, errors.New("country build: no states")
	}
	c := NewCountry(r)
	for _, name := range states {
		c.AddState(name)
	}
	for _, row := range cities {
		if err := c.AssignCity(row.Name, row.Zip); err != nil {
			return nil, err
		}
	}
	perStreet := len(states)/2 + 1
	for _, name := range streets {
		if err := c.PlaceStreet(name, perStreet); err != nil {
			return nil, err
		}
	}
	util.Debugf("country: %d states, capCity=%d", len(c.States), c.capCity)
	return c, nil
}

// CityRow is one parsed city entry.
type CityRow struct {
	Name string
	Zip  int
}

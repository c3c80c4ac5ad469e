package wow

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
)

type Ability struct {
	ID       int
	Name     string
	Cooldown int // ms
	GCD      int // ms
	Icon     string
}

type Abilities map[int]Ability

var (
	//go:embed abilities.csv
	abilitiesCSV []byte

	Default Abilities
)

func init() {
	var err error
	Default, err = Load(bytes.NewReader(abilitiesCSV))
	if err != nil {
		panic(err)
	}
}

// Data is the embedded ability table.
func Data() []byte {
	return abilitiesCSV
}

// Load reads `id,name,cooldown,gcd,icon` rows. The first row is a header.
func Load(r io.Reader) (Abilities, error) {
	sr, _ := utfbom.Skip(r)

	cr := csv.NewReader(sr)
	cr.FieldsPerRecord = 5

	a := make(Abilities)

	header := true
	for {
		d, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithStack(err)
		}
		if header {
			header = false
			continue
		}

		var ability Ability
		ability.ID, err = strconv.Atoi(d[0])
		if err != nil {
			return nil, errors.Wrapf(err, "ability id %q", d[0])
		}
		ability.Name = d[1]
		ability.Cooldown, _ = strconv.Atoi(d[2])
		ability.GCD, _ = strconv.Atoi(d[3])
		ability.Icon = d[4]

		a[ability.ID] = ability
	}

	return a, nil
}

func (a Abilities) GCD(abilityID int) int {
	return a[abilityID].GCD
}

func (a Abilities) Cooldown(abilityID int) int {
	return a[abilityID].Cooldown
}

func (a Abilities) Name(abilityID int) string {
	if v, ok := a[abilityID]; ok {
		return v.Name
	}
	return fmt.Sprintf("#%d", abilityID)
}

func (a Abilities) IconURL(abilityID int) string {
	if v, ok := a[abilityID]; ok && v.Icon != "" {
		return "https://assets.rpglogs.com/img/warcraft/abilities/" + v.Icon
	}
	return ""
}

// Cooldowns returns the cooldown of every ability that has one.
func (a Abilities) Cooldowns() map[int]int {
	r := make(map[int]int, len(a))
	for id, v := range a {
		if v.Cooldown > 0 {
			r[id] = v.Cooldown
		}
	}
	return r
}

package analysis

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"sort"
	"strings"
)

const (
	ServiceEfficiency = "efficiency"

	maxFights = 50
)

var reReportCode = regexp.MustCompile(`^[A-Za-z0-9]{8,32}$`)

type RequestData struct {
	Service    string `json:"service"`
	Preset     string `json:"preset"`
	ReportCode string `json:"report_code"`
	FightIDs   []int  `json:"fight_ids"`
	SourceID   int    `json:"source_id"`
}

func (rd *RequestData) CheckOptionValidation() bool {
	rd.Service = strings.ToLower(strings.TrimSpace(rd.Service))
	rd.Preset = strings.ToLower(strings.TrimSpace(rd.Preset))
	rd.ReportCode = strings.TrimSpace(rd.ReportCode)

	if rd.Service == "" {
		rd.Service = ServiceEfficiency
	}

	switch {
	case rd.Service != ServiceEfficiency:
	case rd.Preset == "":
	case !reReportCode.MatchString(rd.ReportCode):
	case len(rd.FightIDs) == 0:
	case len(rd.FightIDs) > maxFights:
	case rd.SourceID <= 0:
	default:
		for _, id := range rd.FightIDs {
			if id <= 0 {
				return false
			}
		}
		return true
	}

	return false
}

// Hash identifies a request for result caching. Report codes are case
// sensitive; fight order does not matter.
func (rd *RequestData) Hash() uint64 {
	h := fnv.New64()

	fightIDs := make([]int, len(rd.FightIDs))
	copy(fightIDs, rd.FightIDs)
	sort.Ints(fightIDs)

	fmt.Fprint(
		h,
		strings.ToLower(rd.Service), "|",
		strings.ToLower(rd.Preset), "|",
		rd.ReportCode, "|",
		rd.SourceID, "|",
	)
	for _, id := range fightIDs {
		fmt.Fprint(h, id, "|")
	}

	return h.Sum64()
}

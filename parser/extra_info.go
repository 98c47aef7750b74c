package parser

import (
	"regexp"
	"strings"
)

// The "additional information" block on the detail page is a row of
// unlabelled values. Each row is classified by the shape of its text; the
// first rule whose slot is still empty and whose pattern matches wins.
// Upstream markup changes can silently shift values between slots.

type extraSlot int

const (
	slotLastUpdated extraSlot = iota
	slotSize
	slotDownloads
	slotVersion
	slotSupportedOS
	slotContentRating
	slotCount
)

// maxExtraRows bounds how many rows are examined after the optional
// family-library icon row.
const maxExtraRows = 6

type extraRule struct {
	slot    extraSlot
	pattern *regexp.Regexp
}

var extraInfoRules = []extraRule{
	{slot: slotLastUpdated, pattern: regexp.MustCompile(`20\d\d`)},
	{slot: slotSize, pattern: regexp.MustCompile(`^[\d,. ]+[MG]$`)},
	{slot: slotDownloads, pattern: regexp.MustCompile(`^[\d,. ]+\+$`)},
	{slot: slotVersion, pattern: regexp.MustCompile(`^[\d.]+$`)},
	{slot: slotSupportedOS, pattern: regexp.MustCompile(`^(\d+\.)+\d+.+$`)},
}

// extraRow is one value of the block. Label holds the text of a nested label
// node when the row has one.
type extraRow struct {
	Text     string
	Label    string
	HasLabel bool
}

type extraInfo [slotCount]*string

func classifyExtraInfo(rows []extraRow) extraInfo {
	var info extraInfo
	for _, row := range rows {
		text := strings.TrimSpace(strings.ReplaceAll(row.Text, nbsp, " "))
		matched := false
		for _, rule := range extraInfoRules {
			if info[rule.slot] == nil && rule.pattern.MatchString(text) {
				value := text
				info[rule.slot] = &value
				matched = true
				break
			}
		}
		if !matched && info[slotContentRating] == nil && row.HasLabel {
			info[slotContentRating] = optional(row.Label)
		}
	}
	return info
}

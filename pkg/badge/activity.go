package badge

import (
	"regexp"
	"strconv"

	"goldgym/pkg/prompt"
)

// ErrTagStats marks a record whose activity stats needed manual entry.
const ErrTagStats = "STATS"

// Activity is the structured statistics block of a badge. The time
// components are independently optional on the badge; absent means 0.
type Activity struct {
	Victories int
	Days      int
	Hours     int
	Minutes   int
	Treats    int
}

// activityRE matches victories, the optional d/h/m components, a rare and
// discarded seconds component, then treats. Depending on the extraction
// variant groups may be separated by newlines or spaces, so both count.
var activityRE = regexp.MustCompile(
	`(?s)(?P<victories>\d{1,4})` +
		`[\n ]+` +
		`(?:(?P<days>\d{1,3})d ?)?` +
		`(?:(?P<hours>\d{1,2})h ?)?` +
		`(?:(?P<minutes>\d{1,2})m ?)?` +
		`(?:\d{1,2}s)?` +
		`[\n ]+` +
		`(?P<treats>\d{1,4})`)

// ParseActivity applies the stats pattern to free-form OCR text. The second
// return is false when the pattern does not match.
func ParseActivity(text string) (Activity, bool) {
	m := activityRE.FindStringSubmatch(text)
	if m == nil {
		return Activity{}, false
	}
	var a Activity
	for i, name := range activityRE.SubexpNames() {
		if m[i] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i])
		if err != nil {
			continue
		}
		switch name {
		case "victories":
			a.Victories = n
		case "days":
			a.Days = n
		case "hours":
			a.Hours = n
		case "minutes":
			a.Minutes = n
		case "treats":
			a.Treats = n
		}
	}
	return a, true
}

// ParseActivityWithRetry parses text and, on mismatch, asks once for a
// replacement stats line. The fallback is tagged STATS; a second mismatch is
// terminal for the image.
func ParseActivityWithRetry(text, source string, p prompt.Prompter) (Activity, []string, error) {
	if a, ok := ParseActivity(text); ok {
		return a, nil, nil
	}
	tags := []string{ErrTagStats}
	retry := p.Text("STATS for `" + source + "`")
	if a, ok := ParseActivity(retry); ok {
		return a, tags, nil
	}
	return Activity{}, tags, ErrBadInput
}
